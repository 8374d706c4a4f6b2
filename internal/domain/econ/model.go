package econ

import (
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
)

type LocalizedHero struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	LocalizedName string         `json:"localized_name,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

type Heroes struct {
	Status int64           `json:"status"`
	Count  int64           `json:"count"`
	Heroes []LocalizedHero `json:"heroes"`
	Raw    rawdata.Payload `json:"-"`
}

type LocalizedGameItem struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Cost          int64          `json:"cost"`
	SecretShop    bool           `json:"secret_shop"`
	SideShop      bool           `json:"side_shop"`
	Recipe        bool           `json:"recipe"`
	LocalizedName string         `json:"localized_name,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

type GameItems struct {
	Status    int64               `json:"status"`
	GameItems []LocalizedGameItem `json:"game_items"`
	Raw       rawdata.Payload     `json:"-"`
}

type TournamentPrizePool struct {
	PrizePool int64           `json:"prize_pool"`
	LeagueID  int64           `json:"league_id"`
	Extra     map[string]any  `json:"extra,omitempty"`
	Raw       rawdata.Payload `json:"-"`
}

// Field reads a value by its JSON key. It agrees with the typed field of the same name.
func (v Heroes) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}

func (v GameItems) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}

func (v TournamentPrizePool) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}
