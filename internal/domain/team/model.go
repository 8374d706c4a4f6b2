package team

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
)

// TeamInfo is a professional team record. Live endpoints name the fields team_name/team_id,
// the team listing uses name; both land in Name.
type TeamInfo struct {
	TeamID      entity.OptionalID     `json:"team_id"`
	Name        string                `json:"name"`
	Tag         string                `json:"tag,omitempty"`
	TimeCreated int64                 `json:"time_created,omitempty"`
	Logo        int64                 `json:"logo,omitempty"`
	Complete    bool                  `json:"complete"`
	CountryCode string                `json:"country_code,omitempty"`
	URL         string                `json:"url,omitempty"`
	Players     []entity.SteamAccount `json:"players,omitempty"`
	Admin       entity.SteamAccount   `json:"admin"`
	LeagueIDs   []int64               `json:"league_ids,omitempty"`
	Extra       map[string]any        `json:"extra,omitempty"`
}

type TeamInfoByTeamID struct {
	Status int64           `json:"status"`
	Teams  []TeamInfo      `json:"teams"`
	Raw    rawdata.Payload `json:"-"`
}

// Field reads a value by its JSON key. It agrees with the typed field of the same name.
func (v TeamInfoByTeamID) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}
