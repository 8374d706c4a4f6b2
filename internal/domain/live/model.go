package live

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/match"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/domain/team"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
)

type PlayerLive struct {
	PlayerSlot       int64                  `json:"player_slot"`
	SteamAccount     entity.SteamAccount    `json:"steam_account"`
	Hero             entity.Hero            `json:"hero"`
	Kills            int64                  `json:"kills"`
	Deaths           int64                  `json:"deaths"`
	Assists          int64                  `json:"assists"`
	LastHits         int64                  `json:"last_hits"`
	Denies           int64                  `json:"denies"`
	Gold             int64                  `json:"gold"`
	Level            int64                  `json:"level"`
	GoldPerMin       int64                  `json:"gold_per_min"`
	XPPerMin         int64                  `json:"xp_per_min"`
	UltimateState    int64                  `json:"ultimate_state"`
	UltimateCooldown int64                  `json:"ultimate_cooldown"`
	RespawnTimer     int64                  `json:"respawn_timer"`
	PositionX        float64                `json:"position_x"`
	PositionY        float64                `json:"position_y"`
	NetWorth         int64                  `json:"net_worth"`
	Inventory        []entity.Item          `json:"inventory"`
	Abilities        []match.AbilityUpgrade `json:"abilities"`
}

type TeamLive struct {
	Score     int64           `json:"score"`
	Buildings match.Buildings `json:"buildings"`
	Picks     []entity.Hero   `json:"picks"`
	Bans      []entity.Hero   `json:"bans"`
	Players   []PlayerLive    `json:"players"`
}

type Scoreboard struct {
	Duration           float64  `json:"duration"`
	RoshanRespawnTimer int64    `json:"roshan_respawn_timer"`
	Radiant            TeamLive `json:"radiant"`
	Dire               TeamLive `json:"dire"`
}

// Game is one in-progress league match.
type Game struct {
	RadiantTeam       team.TeamInfo         `json:"radiant_team"`
	DireTeam          team.TeamInfo         `json:"dire_team"`
	Players           []match.PlayerMinimal `json:"players"`
	Scoreboard        Scoreboard            `json:"scoreboard"`
	LobbyID           int64                 `json:"lobby_id"`
	MatchID           int64                 `json:"match_id"`
	Spectators        int64                 `json:"spectators"`
	LeagueID          int64                 `json:"league_id"`
	LeagueNodeID      int64                 `json:"league_node_id"`
	StreamDelaySecs   int64                 `json:"stream_delay_s"`
	RadiantSeriesWins int64                 `json:"radiant_series_wins"`
	DireSeriesWins    int64                 `json:"dire_series_wins"`
	SeriesType        int64                 `json:"series_type"`
	LeagueTier        int64                 `json:"league_tier"`
	Extra             map[string]any        `json:"extra,omitempty"`
}

type LiveLeagueGames struct {
	Status int64           `json:"status"`
	Games  []Game          `json:"games"`
	Raw    rawdata.Payload `json:"-"`
}

// LiveGameSummary is one entry of the top live game list.
type LiveGameSummary struct {
	Players        []match.PlayerMinimal `json:"players"`
	RadiantTowers  match.Buildings       `json:"radiant_towers"`
	DireTowers     match.Buildings       `json:"dire_towers"`
	RadiantTeam    team.TeamInfo         `json:"radiant_team"`
	DireTeam       team.TeamInfo         `json:"dire_team"`
	ActivateTime   int64                 `json:"activate_time"`
	DeactivateTime int64                 `json:"deactivate_time"`
	ServerSteamID  int64                 `json:"server_steam_id"`
	LobbyID        int64                 `json:"lobby_id"`
	LeagueID       int64                 `json:"league_id"`
	LobbyType      int64                 `json:"lobby_type"`
	GameTime       int64                 `json:"game_time"`
	Delay          int64                 `json:"delay"`
	Spectators     int64                 `json:"spectators"`
	GameMode       int64                 `json:"game_mode"`
	AverageMMR     int64                 `json:"average_mmr"`
	MatchID        int64                 `json:"match_id"`
	SeriesID       int64                 `json:"series_id"`
	SortScore      int64                 `json:"sort_score"`
	LastUpdateTime int64                 `json:"last_update_time"`
	RadiantLead    int64                 `json:"radiant_lead"`
	RadiantScore   int64                 `json:"radiant_score"`
	DireScore      int64                 `json:"dire_score"`
	Extra          map[string]any        `json:"extra,omitempty"`
}

type TopLiveGame struct {
	GameList []LiveGameSummary `json:"game_list"`
	Raw      rawdata.Payload   `json:"-"`
}

// Field reads a value by its JSON key. It agrees with the typed field of the same name.
func (v LiveLeagueGames) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}

func (v TopLiveGame) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}
