package steamapi

import (
	"strconv"
	"strings"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
)

// Params is the flat query sent with a request. The client adds the key parameter.
type Params map[string]string

func (p Params) setInt(key string, value int64) {
	if value != 0 {
		p[key] = strconv.FormatInt(value, 10)
	}
}

func (p Params) setString(key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		p[key] = value
	}
}

func (p Params) setBool(key string, value bool) {
	if value {
		p[key] = "1"
	}
}

func (p Params) setAccount(key string, account entity.SteamAccount) {
	if account.Valid {
		p[key] = strconv.FormatInt(account.ID64, 10)
	}
}

// MatchHistoryParams filters GetMatchHistory. Zero values are left out of the query.
type MatchHistoryParams struct {
	HeroID              entity.OptionalID
	GameMode            int64
	Skill               int64
	MinPlayers          int64
	Account             entity.SteamAccount
	LeagueID            int64
	StartAtMatchID      int64
	MatchesRequested    int64
	TournamentGamesOnly bool
}

func (p MatchHistoryParams) Query() Params {
	out := Params{}
	if p.HeroID.Valid {
		out["hero_id"] = p.HeroID.Key()
	}
	out.setInt("game_mode", p.GameMode)
	out.setInt("skill", p.Skill)
	out.setInt("min_players", p.MinPlayers)
	out.setAccount("account_id", p.Account)
	out.setInt("league_id", p.LeagueID)
	out.setInt("start_at_match_id", p.StartAtMatchID)
	out.setInt("matches_requested", p.MatchesRequested)
	out.setBool("tournament_games_only", p.TournamentGamesOnly)
	return out
}

type SequenceParams struct {
	StartAtMatchSeqNum int64
	MatchesRequested   int64
}

func (p SequenceParams) Query() Params {
	out := Params{}
	out.setInt("start_at_match_seq_num", p.StartAtMatchSeqNum)
	out.setInt("matches_requested", p.MatchesRequested)
	return out
}

// LocaleParams selects the language of localized names. ItemizedOnly applies to heroes only.
type LocaleParams struct {
	Language     string
	ItemizedOnly bool
}

func (p LocaleParams) Query() Params {
	out := Params{}
	out.setString("language", p.Language)
	out.setBool("itemizedonly", p.ItemizedOnly)
	return out
}

type TeamInfoParams struct {
	StartAtTeamID  int64
	TeamsRequested int64
}

func (p TeamInfoParams) Query() Params {
	out := Params{}
	out.setInt("start_at_team_id", p.StartAtTeamID)
	out.setInt("teams_requested", p.TeamsRequested)
	return out
}

func MatchDetailsQuery(matchID int64) Params {
	return Params{"match_id": strconv.FormatInt(matchID, 10)}
}

// TopLiveGameQuery always carries partner; 0 is the default partner.
func TopLiveGameQuery(partner int64) Params {
	return Params{"partner": strconv.FormatInt(partner, 10)}
}

func PlayerSummariesQuery(accounts []entity.SteamAccount) Params {
	out := Params{}
	out.setString("steamids", steamIDs(accounts))
	return out
}

// steamIDs joins the 64-bit ids of the valid accounts.
func steamIDs(accounts []entity.SteamAccount) string {
	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if account.Valid {
			ids = append(ids, strconv.FormatInt(account.ID64, 10))
		}
	}
	return strings.Join(ids, ",")
}
