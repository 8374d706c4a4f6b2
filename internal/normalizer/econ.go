package normalizer

import (
	"github.com/riskibarqy/d2webapi/internal/domain/econ"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
)

// Heroes normalizes GetHeroes.
func (n *Normalizer) Heroes(payload rawdata.Payload) (econ.Heroes, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return econ.Heroes{}, err
	}

	heroes := obj.popObjects("heroes")
	out := econ.Heroes{
		Status: obj.popInt64("status"),
		Count:  obj.popInt64("count"),
		Heroes: make([]econ.LocalizedHero, 0, len(heroes)),
		Raw:    payload,
	}
	for _, hero := range heroes {
		record := econ.LocalizedHero{
			ID:            hero.popInt64("id"),
			Name:          hero.popString("name"),
			LocalizedName: hero.popString("localized_name"),
		}
		record.Extra = hero.rest()
		out.Heroes = append(out.Heroes, record)
	}
	return out, nil
}

// GameItems normalizes GetGameItems. Upstream lists them under "items".
func (n *Normalizer) GameItems(payload rawdata.Payload) (econ.GameItems, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return econ.GameItems{}, err
	}

	items := obj.popObjects("items")
	out := econ.GameItems{
		Status:    obj.popInt64("status"),
		GameItems: make([]econ.LocalizedGameItem, 0, len(items)),
		Raw:       payload,
	}
	for _, item := range items {
		record := econ.LocalizedGameItem{
			ID:            item.popInt64("id"),
			Name:          item.popString("name"),
			Cost:          item.popInt64("cost"),
			SecretShop:    item.popBool("secret_shop"),
			SideShop:      item.popBool("side_shop"),
			Recipe:        item.popBool("recipe"),
			LocalizedName: item.popString("localized_name"),
		}
		record.Extra = item.rest()
		out.GameItems = append(out.GameItems, record)
	}
	return out, nil
}

// TournamentPrizePool normalizes GetTournamentPrizePool.
func (n *Normalizer) TournamentPrizePool(payload rawdata.Payload) (econ.TournamentPrizePool, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return econ.TournamentPrizePool{}, err
	}

	out := econ.TournamentPrizePool{
		PrizePool: obj.popInt64("prize_pool"),
		LeagueID:  obj.popInt64("league_id"),
		Raw:       payload,
	}
	out.Extra = obj.rest()
	return out, nil
}
