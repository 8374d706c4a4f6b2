package match

import (
	"testing"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
)

func TestMatchDetails_Leavers(t *testing.T) {
	t.Parallel()

	statuses := []int64{0, 1, 0, 2, 0}
	details := MatchDetails{}
	for i, status := range statuses {
		details.Players = append(details.Players, PlayerUnit{
			SteamAccount: entity.NewSteamAccount(int64(100 + i)),
			LeaverStatus: status,
		})
	}

	leavers := details.Leavers()
	if len(leavers) != 2 {
		t.Fatalf("expected 2 leavers, got=%d", len(leavers))
	}
	if leavers[0] != entity.NewSteamAccount(101) || leavers[1] != entity.NewSteamAccount(103) {
		t.Fatalf("unexpected leavers: %+v", leavers)
	}
	if !details.HasLeavers() {
		t.Fatalf("expected HasLeavers=true")
	}
}

func TestMatchDetails_NoLeavers(t *testing.T) {
	t.Parallel()

	details := MatchDetails{Players: []PlayerUnit{{}, {}, {}}}
	if got := details.Leavers(); len(got) != 0 {
		t.Fatalf("expected no leavers, got=%v", got)
	}
	if details.HasLeavers() {
		t.Fatalf("expected HasLeavers=false")
	}
}

func TestBuildings_SetTowerStatus(t *testing.T) {
	t.Parallel()

	var b Buildings
	b.SetTowerStatus(1<<0 | 1<<2 | 1<<5)

	for i, name := range TowerNames {
		got, ok := b.Tower(name)
		if !ok {
			t.Fatalf("tower %s not found", name)
		}
		want := i == 0 || i == 2 || i == 5
		if got != want {
			t.Fatalf("tower %s: got=%v want=%v", name, got, want)
		}
	}
	if !b.TopT1 || !b.TopT3 || !b.MidT3 || b.TopT2 {
		t.Fatalf("unexpected named flags: %+v", b)
	}
	if !b.TowersKnown || b.BarracksKnown {
		t.Fatalf("unexpected known flags: %+v", b)
	}
}

func TestBuildings_SetBarracksStatus(t *testing.T) {
	t.Parallel()

	var b Buildings
	b.SetBarracksStatus(63)
	for _, name := range BarracksNames {
		if got, _ := b.Barracks(name); !got {
			t.Fatalf("expected barracks %s intact", name)
		}
	}
	if _, ok := b.Barracks("unknown"); ok {
		t.Fatalf("expected lookup of unknown barracks to fail")
	}
}

func TestInventoryUnit_AllItems(t *testing.T) {
	t.Parallel()

	unit := InventoryUnit{
		Inventory: []entity.Item{{ID: entity.ID(1)}, {ID: entity.ID(2)}},
		Backpack:  []entity.Item{{ID: entity.ID(3)}},
	}
	all := unit.AllItems()
	if len(all) != 3 || all[2].ID != entity.ID(3) {
		t.Fatalf("unexpected items: %+v", all)
	}
}

func TestMatchDetails_FieldAgreesWithStruct(t *testing.T) {
	t.Parallel()

	details := MatchDetails{MatchID: 5000, Winner: entity.SideRadiant, Extra: map[string]any{"patch": int64(58)}}
	if got, ok := details.Field("match_id"); !ok || got != details.MatchID {
		t.Fatalf("match_id: got=%v ok=%v", got, ok)
	}
	if got, ok := details.Field("winner"); !ok || got != details.Winner {
		t.Fatalf("winner: got=%v ok=%v", got, ok)
	}
	if got, ok := details.Field("patch"); !ok || got != int64(58) {
		t.Fatalf("extra key: got=%v ok=%v", got, ok)
	}
}
