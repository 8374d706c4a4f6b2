package match

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
)

const (
	InventorySlots = 6
	BackpackSlots  = 3
)

// PlayerMinimal is the player record of a match history entry. History by sequence number
// returns full match records, so per-player stats land in Extra.
type PlayerMinimal struct {
	SteamAccount entity.SteamAccount `json:"steam_account"`
	Side         entity.Side          `json:"side,omitempty"`
	Hero         entity.Hero          `json:"hero"`
	Name         string               `json:"name,omitempty"`
	Extra        map[string]any       `json:"extra,omitempty"`
}

type MatchSummary struct {
	MatchID       int64           `json:"match_id"`
	MatchSeqNum   int64           `json:"match_seq_num"`
	StartTime     int64           `json:"start_time"`
	LobbyType     int64           `json:"lobby_type"`
	RadiantTeamID int64           `json:"radiant_team_id"`
	DireTeamID    int64           `json:"dire_team_id"`
	Players       []PlayerMinimal `json:"players"`
	Extra         map[string]any  `json:"extra,omitempty"`
}

// MatchHistory is the response of GetMatchHistory and GetMatchHistoryBySequenceNum.
type MatchHistory struct {
	Status           int64           `json:"status"`
	StatusDetail     string          `json:"statusDetail,omitempty"`
	NumResults       int64           `json:"num_results"`
	TotalResults     int64           `json:"total_results"`
	ResultsRemaining int64           `json:"results_remaining"`
	Matches          []MatchSummary  `json:"matches"`
	Raw              rawdata.Payload `json:"-"`
}

// InventoryUnit is any unit carrying fixed inventory and backpack slots.
type InventoryUnit struct {
	Inventory []entity.Item `json:"inventory"`
	Backpack  []entity.Item `json:"backpack"`
}

// AllItems returns inventory followed by backpack.
func (u InventoryUnit) AllItems() []entity.Item {
	out := make([]entity.Item, 0, len(u.Inventory)+len(u.Backpack))
	out = append(out, u.Inventory...)
	return append(out, u.Backpack...)
}

// AdditionalUnit is a controllable unit besides the hero, e.g. a spirit bear.
type AdditionalUnit struct {
	UnitName string `json:"unitname"`
	InventoryUnit
}

type AbilityUpgrade struct {
	Ability entity.Ability `json:"ability"`
	Level   int64          `json:"level"`
	Time    int64          `json:"time"`
}

type PlayerUnit struct {
	SteamAccount    entity.SteamAccount `json:"steam_account"`
	Side            entity.Side          `json:"side"`
	Hero            entity.Hero          `json:"hero"`
	PlayerSlot      int64                `json:"player_slot"`
	Kills           int64                `json:"kills"`
	Deaths          int64                `json:"deaths"`
	Assists         int64                `json:"assists"`
	LeaverStatus    int64                `json:"leaver_status"`
	LastHits        int64                `json:"last_hits"`
	Denies          int64                `json:"denies"`
	Gold            int64                `json:"gold"`
	GoldPerMin      int64                `json:"gold_per_min"`
	XPPerMin        int64                `json:"xp_per_min"`
	GoldSpent       int64                `json:"gold_spent"`
	NetWorth        int64                `json:"net_worth"`
	Level           int64                `json:"level"`
	HeroDamage      int64                `json:"hero_damage"`
	TowerDamage     int64                `json:"tower_damage"`
	HeroHealing     int64                `json:"hero_healing"`
	NeutralItem     entity.Item          `json:"item_neutral"`
	AdditionalUnits []AdditionalUnit     `json:"additional_units"`
	AbilityUpgrades []AbilityUpgrade     `json:"ability_upgrades"`
	InventoryUnit
	Extra map[string]any `json:"extra,omitempty"`
}

// PickBan is one draft action. Order is the only sort key.
type PickBan struct {
	Hero   entity.Hero `json:"hero"`
	Side   entity.Side `json:"side"`
	IsPick bool        `json:"is_pick"`
	Order  int64       `json:"order"`
}

type MatchDetails struct {
	MatchID          int64           `json:"match_id"`
	MatchSeqNum      int64           `json:"match_seq_num"`
	Season           int64           `json:"season"`
	Winner           entity.Side     `json:"winner,omitempty"`
	Duration         int64           `json:"duration"`
	PreGameDuration  int64           `json:"pre_game_duration"`
	StartTime        int64           `json:"start_time"`
	Cluster          int64           `json:"cluster"`
	FirstBloodTime   int64           `json:"first_blood_time"`
	LobbyType        int64           `json:"lobby_type"`
	HumanPlayers     int64           `json:"human_players"`
	LeagueID         int64           `json:"leagueid"`
	PositiveVotes    int64           `json:"positive_votes"`
	NegativeVotes    int64           `json:"negative_votes"`
	GameMode         int64           `json:"game_mode"`
	Flags            int64           `json:"flags"`
	Engine           int64           `json:"engine"`
	RadiantScore     int64           `json:"radiant_score"`
	DireScore        int64           `json:"dire_score"`
	Players          []PlayerUnit    `json:"players"`
	PlayersMinimal   []PlayerMinimal `json:"players_minimal"`
	PicksBans        []PickBan       `json:"picks_bans"`
	RadiantBuildings Buildings       `json:"radiant_buildings"`
	DireBuildings    Buildings       `json:"dire_buildings"`
	Extra            map[string]any  `json:"extra,omitempty"`
	Raw              rawdata.Payload `json:"-"`
}

// Leavers lists the accounts of players with a non-zero leaver_status.
func (m MatchDetails) Leavers() []entity.SteamAccount {
	out := make([]entity.SteamAccount, 0)
	for _, player := range m.Players {
		if player.LeaverStatus != 0 {
			out = append(out, player.SteamAccount)
		}
	}
	return out
}

func (m MatchDetails) HasLeavers() bool {
	for _, player := range m.Players {
		if player.LeaverStatus != 0 {
			return true
		}
	}
	return false
}

// Field reads a value by its JSON key. It agrees with the typed field of the same name.
func (v MatchHistory) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}

func (m MatchDetails) Field(key string) (any, bool) {
	return fieldaccess.Get(m, key)
}

func (v PlayerUnit) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}
