package normalizer

import (
	"sort"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/match"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
)

// MatchHistory normalizes GetMatchHistory and GetMatchHistoryBySequenceNum.
func (n *Normalizer) MatchHistory(payload rawdata.Payload) (match.MatchHistory, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return match.MatchHistory{}, err
	}

	out := match.MatchHistory{
		Status:           obj.popInt64("status"),
		StatusDetail:     obj.popString("statusDetail"),
		NumResults:       obj.popInt64("num_results"),
		TotalResults:     obj.popInt64("total_results"),
		ResultsRemaining: obj.popInt64("results_remaining"),
		Raw:              payload,
	}
	matches := obj.popObjects("matches")
	out.Matches = make([]match.MatchSummary, 0, len(matches))
	for _, item := range matches {
		out.Matches = append(out.Matches, n.matchSummary(item))
	}
	return out, nil
}

func (n *Normalizer) matchSummary(obj Object) match.MatchSummary {
	out := match.MatchSummary{
		MatchID:       obj.popInt64("match_id"),
		MatchSeqNum:   obj.popInt64("match_seq_num"),
		StartTime:     obj.popInt64("start_time"),
		LobbyType:     obj.popInt64("lobby_type"),
		RadiantTeamID: obj.popInt64("radiant_team_id"),
		DireTeamID:    obj.popInt64("dire_team_id"),
	}
	out.Players = n.playersMinimal(obj.popObjects("players"))
	out.Extra = obj.rest()
	return out
}

func (n *Normalizer) playersMinimal(players []Object) []match.PlayerMinimal {
	out := make([]match.PlayerMinimal, 0, len(players))
	for _, player := range players {
		out = append(out, n.playerMinimal(player))
	}
	return out
}

// playerMinimal decodes side from player_slot, or from team when the record carries one.
func (n *Normalizer) playerMinimal(obj Object) match.PlayerMinimal {
	out := match.PlayerMinimal{
		SteamAccount: entity.SteamAccountFromID(obj.popOptionalID("account_id")),
		Hero:         n.hero(obj.popOptionalID("hero_id")),
		Name:         obj.popString("name"),
	}
	if slot := obj.popOptionalID("player_slot"); slot.Valid {
		out.Side = entity.SideFromSlot(slot.Value)
	}
	if team := obj.popOptionalID("team"); team.Valid {
		out.Side = entity.SideFromTeam(team.Value)
	}
	out.Extra = obj.rest()
	return out
}

// MatchDetails normalizes GetMatchDetails.
func (n *Normalizer) MatchDetails(payload rawdata.Payload) (match.MatchDetails, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return match.MatchDetails{}, err
	}

	out := match.MatchDetails{
		MatchID:         obj.popInt64("match_id"),
		MatchSeqNum:     obj.popInt64("match_seq_num"),
		Season:          obj.popInt64("season"),
		Duration:        obj.popInt64("duration"),
		PreGameDuration: obj.popInt64("pre_game_duration"),
		StartTime:       obj.popInt64("start_time"),
		Cluster:         obj.popInt64("cluster"),
		FirstBloodTime:  obj.popInt64("first_blood_time"),
		LobbyType:       obj.popInt64("lobby_type"),
		HumanPlayers:    obj.popInt64("human_players"),
		LeagueID:        obj.popInt64("leagueid"),
		PositiveVotes:   obj.popInt64("positive_votes"),
		NegativeVotes:   obj.popInt64("negative_votes"),
		GameMode:        obj.popInt64("game_mode"),
		Flags:           obj.popInt64("flags"),
		Engine:          obj.popInt64("engine"),
		RadiantScore:    obj.popInt64("radiant_score"),
		DireScore:       obj.popInt64("dire_score"),
		Raw:             payload,
	}

	if radiantWin, ok := obj.pop("radiant_win"); ok {
		out.Winner = entity.SideDire
		if asBool(radiantWin) {
			out.Winner = entity.SideRadiant
		}
	}

	players := obj.popObjects("players")
	out.PlayersMinimal = make([]match.PlayerMinimal, 0, len(players))
	out.Players = make([]match.PlayerUnit, 0, len(players))
	for _, player := range players {
		out.PlayersMinimal = append(out.PlayersMinimal, n.playerMinimal(player.subset("account_id", "player_slot", "hero_id")))
		out.Players = append(out.Players, n.playerUnit(player.clone()))
	}

	picksBans := obj.popObjects("picks_bans")
	out.PicksBans = make([]match.PickBan, 0, len(picksBans))
	for _, pickBan := range picksBans {
		out.PicksBans = append(out.PicksBans, n.pickBan(pickBan))
	}
	sort.SliceStable(out.PicksBans, func(i, j int) bool {
		return out.PicksBans[i].Order < out.PicksBans[j].Order
	})

	out.RadiantBuildings = buildingsFrom(obj.popOptionalID("tower_status_radiant"), obj.popOptionalID("barracks_status_radiant"))
	out.DireBuildings = buildingsFrom(obj.popOptionalID("tower_status_dire"), obj.popOptionalID("barracks_status_dire"))

	out.Extra = obj.rest()
	return out, nil
}

func (n *Normalizer) playerUnit(obj Object) match.PlayerUnit {
	out := match.PlayerUnit{
		InventoryUnit: n.inventoryUnit(obj),
		SteamAccount:  entity.SteamAccountFromID(obj.popOptionalID("account_id")),
		Hero:          n.hero(obj.popOptionalID("hero_id")),
		NeutralItem:   n.item(obj.popOptionalID("item_neutral")),
		Kills:         obj.popInt64("kills"),
		Deaths:        obj.popInt64("deaths"),
		Assists:       obj.popInt64("assists"),
		LeaverStatus:  obj.popInt64("leaver_status"),
		LastHits:      obj.popInt64("last_hits"),
		Denies:        obj.popInt64("denies"),
		Gold:          obj.popInt64("gold"),
		GoldPerMin:    obj.popInt64("gold_per_min"),
		XPPerMin:      obj.popInt64("xp_per_min"),
		GoldSpent:     obj.popInt64("gold_spent"),
		NetWorth:      obj.popInt64("net_worth"),
		Level:         obj.popInt64("level"),
		HeroDamage:    obj.popInt64("hero_damage"),
		TowerDamage:   obj.popInt64("tower_damage"),
		HeroHealing:   obj.popInt64("hero_healing"),
	}
	out.PlayerSlot = obj.popInt64("player_slot")
	out.Side = entity.SideFromSlot(out.PlayerSlot)

	units := obj.popObjects("additional_units")
	out.AdditionalUnits = make([]match.AdditionalUnit, 0, len(units))
	for _, unit := range units {
		out.AdditionalUnits = append(out.AdditionalUnits, match.AdditionalUnit{
			InventoryUnit: n.inventoryUnit(unit),
			UnitName:      unit.popString("unitname"),
		})
	}

	out.AbilityUpgrades = n.abilityUpgrades(obj.popObjects("ability_upgrades"))
	out.Extra = obj.rest()
	return out
}

func (n *Normalizer) abilityUpgrades(upgrades []Object) []match.AbilityUpgrade {
	out := make([]match.AbilityUpgrade, 0, len(upgrades))
	for _, upgrade := range upgrades {
		out = append(out, n.abilityUpgrade(upgrade))
	}
	return out
}

// abilityUpgrade accepts both the match details shape (ability, level) and the live
// scoreboard shape (ability_id, ability_level).
func (n *Normalizer) abilityUpgrade(obj Object) match.AbilityUpgrade {
	id := obj.popOptionalID("ability")
	if alt := obj.popOptionalID("ability_id"); !id.Valid {
		id = alt
	}
	return match.AbilityUpgrade{
		Ability: n.ability(id),
		Level:   obj.popInt64Any("level", "ability_level"),
		Time:    obj.popInt64("time"),
	}
}

func (n *Normalizer) pickBan(obj Object) match.PickBan {
	return match.PickBan{
		Hero:   n.hero(obj.popOptionalID("hero_id")),
		Side:   entity.SideFromTeam(obj.popInt64("team")),
		IsPick: obj.popBool("is_pick"),
		Order:  obj.popInt64("order"),
	}
}
