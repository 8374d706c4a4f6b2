package normalizer

import "testing"

func TestNormalizer_Heroes(t *testing.T) {
	t.Parallel()

	body := `{"result":{"heroes":[{"name":"npc_dota_hero_antimage","id":1,"localized_name":"Anti-Mage"}],"status":200,"count":1}}`
	got, err := New(nil).Heroes(payload(body))
	if err != nil {
		t.Fatalf("normalize heroes: %v", err)
	}
	if got.Count != 1 || got.Status != 200 || len(got.Heroes) != 1 {
		t.Fatalf("unexpected heroes response: %+v", got)
	}
	if hero := got.Heroes[0]; hero.ID != 1 || hero.LocalizedName != "Anti-Mage" || hero.Extra != nil {
		t.Fatalf("unexpected hero: %+v", hero)
	}
}

func TestNormalizer_GameItems(t *testing.T) {
	t.Parallel()

	body := `{"result":{"items":[
		{"id":1,"name":"item_blink","cost":2250,"secret_shop":0,"side_shop":1,"recipe":0,"localized_name":"Blink Dagger","neutral_tier":-1}
	],"status":200}}`
	got, err := New(nil).GameItems(payload(body))
	if err != nil {
		t.Fatalf("normalize game items: %v", err)
	}
	if len(got.GameItems) != 1 {
		t.Fatalf("unexpected item count: %d", len(got.GameItems))
	}
	item := got.GameItems[0]
	if item.Cost != 2250 || item.SecretShop || !item.SideShop || item.LocalizedName != "Blink Dagger" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if item.Extra["neutral_tier"] != int64(-1) {
		t.Fatalf("unexpected extra: %v", item.Extra)
	}
}

func TestNormalizer_TournamentPrizePool(t *testing.T) {
	t.Parallel()

	got, err := New(nil).TournamentPrizePool(payload(`{"result":{"prize_pool":1600000,"league_id":65006,"status":200}}`))
	if err != nil {
		t.Fatalf("normalize prize pool: %v", err)
	}
	if got.PrizePool != 1600000 || got.LeagueID != 65006 || got.Extra["status"] != int64(200) {
		t.Fatalf("unexpected prize pool: %+v", got)
	}
}
