package normalizer

import (
	"sort"
	"strconv"
	"strings"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/domain/team"
)

// TeamInfoByTeamID normalizes GetTeamInfoByTeamID.
func (n *Normalizer) TeamInfoByTeamID(payload rawdata.Payload) (team.TeamInfoByTeamID, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return team.TeamInfoByTeamID{}, err
	}

	out := team.TeamInfoByTeamID{
		Status: obj.popInt64("status"),
		Raw:    payload,
	}
	teams := obj.popObjects("teams")
	out.Teams = make([]team.TeamInfo, 0, len(teams))
	for _, item := range teams {
		out.Teams = append(out.Teams, teamInfo(item))
	}
	return out, nil
}

// teamInfo accepts the team listing shape (name, logo, player_N_account_id) as well as
// the live shape (team_name, team_logo).
func teamInfo(obj Object) team.TeamInfo {
	out := team.TeamInfo{
		Name:        obj.popStringAny("name", "team_name"),
		Tag:         obj.popString("tag"),
		TimeCreated: obj.popInt64("time_created"),
		Logo:        obj.popInt64Any("logo", "team_logo"),
		Complete:    obj.popBool("complete"),
		CountryCode: obj.popString("country_code"),
		URL:         obj.popString("url"),
	}
	out.TeamID = obj.popOptionalID("team_id")

	for _, value := range obj.popIndexed("player_", "_account_id") {
		if id := asOptionalID(value); id.Valid {
			out.Players = append(out.Players, entity.NewSteamAccount(id.Value))
		}
	}
	out.Admin = entity.SteamAccountFromID(obj.popOptionalID("admin_account_id"))
	for _, value := range obj.popIndexed("league_id_", "") {
		if id, ok := asInt64(value); ok {
			out.LeagueIDs = append(out.LeagueIDs, id)
		}
	}

	out.Extra = obj.rest()
	return out
}

// popIndexed consumes every prefix<N>suffix key and returns the values ordered by N.
func (o Object) popIndexed(prefix, suffix string) []any {
	type indexed struct {
		index int
		value any
	}
	var found []indexed
	for key, value := range o {
		if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, suffix) || len(key) <= len(prefix)+len(suffix) {
			continue
		}
		index, err := strconv.Atoi(key[len(prefix) : len(key)-len(suffix)])
		if err != nil || index < 0 {
			continue
		}
		found = append(found, indexed{index: index, value: value})
		delete(o, key)
	}
	sort.Slice(found, func(i, j int) bool { return found[i].index < found[j].index })

	out := make([]any, 0, len(found))
	for _, item := range found {
		out = append(out, item.value)
	}
	return out
}
