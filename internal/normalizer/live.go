package normalizer

import (
	"strconv"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/live"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/domain/team"
)

const liveInventorySlots = 6

// TopLiveGame normalizes GetTopLiveGame. The response has no envelope.
func (n *Normalizer) TopLiveGame(payload rawdata.Payload) (live.TopLiveGame, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return live.TopLiveGame{}, err
	}

	games := obj.popObjects("game_list")
	out := live.TopLiveGame{
		GameList: make([]live.LiveGameSummary, 0, len(games)),
		Raw:      payload,
	}
	for _, game := range games {
		out.GameList = append(out.GameList, n.liveGameSummary(game))
	}
	return out, nil
}

func (n *Normalizer) liveGameSummary(obj Object) live.LiveGameSummary {
	dire, radiant := SplitBuildingState(obj.popInt64("building_state"))
	out := live.LiveGameSummary{
		RadiantTowers: buildingsFrom(entity.ID(radiant), entity.OptionalID{}),
		DireTowers:    buildingsFrom(entity.ID(dire), entity.OptionalID{}),
		Players:       n.playersMinimal(obj.popObjects("players")),
		RadiantTeam: team.TeamInfo{
			Name:   obj.popString("team_name_radiant"),
			TeamID: obj.popOptionalID("team_id_radiant"),
		},
		DireTeam: team.TeamInfo{
			Name:   obj.popString("team_name_dire"),
			TeamID: obj.popOptionalID("team_id_dire"),
		},
		ActivateTime:   obj.popInt64("activate_time"),
		DeactivateTime: obj.popInt64("deactivate_time"),
		ServerSteamID:  obj.popInt64("server_steam_id"),
		LobbyID:        obj.popInt64("lobby_id"),
		LeagueID:       obj.popInt64("league_id"),
		LobbyType:      obj.popInt64("lobby_type"),
		GameTime:       obj.popInt64("game_time"),
		Delay:          obj.popInt64("delay"),
		Spectators:     obj.popInt64("spectators"),
		GameMode:       obj.popInt64("game_mode"),
		AverageMMR:     obj.popInt64("average_mmr"),
		MatchID:        obj.popInt64("match_id"),
		SeriesID:       obj.popInt64("series_id"),
		SortScore:      obj.popInt64("sort_score"),
		LastUpdateTime: obj.popInt64("last_update_time"),
		RadiantLead:    obj.popInt64("radiant_lead"),
		RadiantScore:   obj.popInt64("radiant_score"),
		DireScore:      obj.popInt64("dire_score"),
	}
	out.Extra = obj.rest()
	return out
}

// LiveLeagueGames normalizes GetLiveLeagueGames.
func (n *Normalizer) LiveLeagueGames(payload rawdata.Payload) (live.LiveLeagueGames, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return live.LiveLeagueGames{}, err
	}

	games := obj.popObjects("games")
	out := live.LiveLeagueGames{
		Status: obj.popInt64("status"),
		Games:  make([]live.Game, 0, len(games)),
		Raw:    payload,
	}
	for _, game := range games {
		out.Games = append(out.Games, n.Game(game))
	}
	return out, nil
}

// Game normalizes one entry of the live league games list. obj is consumed.
func (n *Normalizer) Game(obj Object) live.Game {
	out := live.Game{
		RadiantTeam:       teamInfo(nonNil(obj.popObject("radiant_team"))),
		DireTeam:          teamInfo(nonNil(obj.popObject("dire_team"))),
		Players:           n.playersMinimal(obj.popObjects("players")),
		Scoreboard:        n.scoreboard(nonNil(obj.popObject("scoreboard"))),
		LobbyID:           obj.popInt64("lobby_id"),
		MatchID:           obj.popInt64("match_id"),
		Spectators:        obj.popInt64("spectators"),
		LeagueID:          obj.popInt64("league_id"),
		LeagueNodeID:      obj.popInt64("league_node_id"),
		StreamDelaySecs:   obj.popInt64("stream_delay_s"),
		RadiantSeriesWins: obj.popInt64("radiant_series_wins"),
		DireSeriesWins:    obj.popInt64("dire_series_wins"),
		SeriesType:        obj.popInt64("series_type"),
		LeagueTier:        obj.popInt64("league_tier"),
	}
	out.Extra = obj.rest()
	return out
}

func (n *Normalizer) scoreboard(obj Object) live.Scoreboard {
	return live.Scoreboard{
		Duration:           obj.popFloat64("duration"),
		RoshanRespawnTimer: obj.popInt64("roshan_respawn_timer"),
		Radiant:            n.teamLive(nonNil(obj.popObject("radiant"))),
		Dire:               n.teamLive(nonNil(obj.popObject("dire"))),
	}
}

// teamLive reattaches per-player ability blocks. Upstream repeats an "abilities" key once
// per player on the team object, which Decode renames abilities_0..abilities_N; block i
// belongs to player i. A lone block keeps its plain name and belongs to player 0.
func (n *Normalizer) teamLive(obj Object) live.TeamLive {
	out := live.TeamLive{
		Score:     obj.popInt64("score"),
		Buildings: buildingsFrom(obj.popOptionalID("tower_state"), obj.popOptionalID("barracks_state")),
		Picks:     n.heroRefs(obj.popObjects("picks")),
		Bans:      n.heroRefs(obj.popObjects("bans")),
	}

	players := obj.popObjects("players")
	for i, player := range players {
		if player.has("abilities") {
			continue
		}
		key := "abilities_" + strconv.Itoa(i)
		if i == 0 && !obj.has(key) {
			key = "abilities"
		}
		if value, ok := obj.pop(key); ok {
			player["abilities"] = value
		}
	}

	out.Players = make([]live.PlayerLive, 0, len(players))
	for _, player := range players {
		out.Players = append(out.Players, n.playerLive(player))
	}
	return out
}

func (n *Normalizer) heroRefs(refs []Object) []entity.Hero {
	out := make([]entity.Hero, 0, len(refs))
	for _, ref := range refs {
		out = append(out, n.hero(ref.popOptionalID("hero_id")))
	}
	return out
}

func (n *Normalizer) playerLive(obj Object) live.PlayerLive {
	return live.PlayerLive{
		PlayerSlot:       obj.popInt64("player_slot"),
		SteamAccount:     entity.SteamAccountFromID(obj.popOptionalID("account_id")),
		Hero:             n.hero(obj.popOptionalID("hero_id")),
		Kills:            obj.popInt64("kills"),
		Deaths:           obj.popInt64Any("death", "deaths"),
		Assists:          obj.popInt64("assists"),
		LastHits:         obj.popInt64("last_hits"),
		Denies:           obj.popInt64("denies"),
		Gold:             obj.popInt64("gold"),
		Level:            obj.popInt64("level"),
		GoldPerMin:       obj.popInt64("gold_per_min"),
		XPPerMin:         obj.popInt64("xp_per_min"),
		UltimateState:    obj.popInt64("ultimate_state"),
		UltimateCooldown: obj.popInt64("ultimate_cooldown"),
		RespawnTimer:     obj.popInt64("respawn_timer"),
		PositionX:        obj.popFloat64("position_x"),
		PositionY:        obj.popFloat64("position_y"),
		NetWorth:         obj.popInt64("net_worth"),
		Inventory:        n.slots(obj, "item", liveInventorySlots),
		Abilities:        n.abilityUpgrades(obj.popObjects("abilities")),
	}
}

func nonNil(obj Object) Object {
	if obj == nil {
		return Object{}
	}
	return obj
}
