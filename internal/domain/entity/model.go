package entity

import (
	"strconv"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
)

// Steam64Base is the offset between a 32-bit account id and its 64-bit Steam id.
const Steam64Base int64 = 76561197960265728

const (
	UnknownHeroName    = "unknown_hero"
	UnknownItemName    = "unknown_item"
	UnknownAbilityName = "unknown_ability"
)

// OptionalID is a numeric reference that may be missing or null upstream.
type OptionalID struct {
	Value int64
	Valid bool
}

func ID(value int64) OptionalID {
	return OptionalID{Value: value, Valid: true}
}

// Key is the catalog key for the id: its decimal form, or "" when absent.
func (id OptionalID) Key() string {
	if !id.Valid {
		return ""
	}
	return strconv.FormatInt(id.Value, 10)
}

func (id OptionalID) MarshalJSON() ([]byte, error) {
	if !id.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, id.Value, 10), nil
}

func (id *OptionalID) UnmarshalJSON(data []byte) error {
	text := string(data)
	if text == "null" || text == "" {
		*id = OptionalID{}
		return nil
	}
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return crerr.Wrapf(err, "parse optional id %q", text)
	}
	*id = ID(value)
	return nil
}

type Hero struct {
	ID   OptionalID `json:"hero_id"`
	Name string     `json:"hero_name"`
}

func (h Hero) Equal(other Hero) bool {
	return h.ID == other.ID && h.Name == other.Name
}

func (h Hero) IsKnown() bool {
	return h.ID.Valid
}

type Item struct {
	ID      OptionalID `json:"item_id"`
	Name    string     `json:"item_name"`
	Cost    int64      `json:"item_cost"`
	Aliases []string   `json:"item_aliases"`
}

func (i Item) Equal(other Item) bool {
	return i.ID == other.ID && i.Name == other.Name
}

func (i Item) IsKnown() bool {
	return i.ID.Valid
}

type Ability struct {
	ID   OptionalID `json:"ability_id"`
	Name string     `json:"ability_name"`
}

func (a Ability) Equal(other Ability) bool {
	return a.ID == other.ID && a.Name == other.Name
}

func (a Ability) IsKnown() bool {
	return a.ID.Valid
}

// SteamAccount carries both representations of one account. Either form builds the same value.
type SteamAccount struct {
	ID32  int64
	ID64  int64
	Valid bool
}

func NewSteamAccount(accountID int64) SteamAccount {
	if accountID < Steam64Base {
		return SteamAccount{ID32: accountID, ID64: accountID + Steam64Base, Valid: true}
	}
	return SteamAccount{ID32: accountID - Steam64Base, ID64: accountID, Valid: true}
}

// SteamAccountFromID returns the zero SteamAccount when the id is absent.
func SteamAccountFromID(id OptionalID) SteamAccount {
	if !id.Valid {
		return SteamAccount{}
	}
	return NewSteamAccount(id.Value)
}

func (s SteamAccount) Equal(other SteamAccount) bool {
	return s == other
}

func (s SteamAccount) IsKnown() bool {
	return s.Valid
}

type steamAccountJSON struct {
	ID32 *int64 `json:"id32"`
	ID64 *int64 `json:"id64"`
}

func (s SteamAccount) MarshalJSON() ([]byte, error) {
	out := steamAccountJSON{}
	if s.Valid {
		id32, id64 := s.ID32, s.ID64
		out.ID32, out.ID64 = &id32, &id64
	}
	return sonic.Marshal(out)
}

// UnmarshalJSON rebuilds both ids from whichever one is present, preferring id64.
func (s *SteamAccount) UnmarshalJSON(data []byte) error {
	var in steamAccountJSON
	if err := sonic.Unmarshal(data, &in); err != nil {
		return crerr.Wrap(err, "decode steam account")
	}
	switch {
	case in.ID64 != nil:
		*s = NewSteamAccount(*in.ID64)
	case in.ID32 != nil:
		*s = NewSteamAccount(*in.ID32)
	default:
		*s = SteamAccount{}
	}
	return nil
}

type Side string

const (
	SideRadiant     Side = "radiant"
	SideDire        Side = "dire"
	SideBroadcaster Side = "broadcaster"
	SideUnassigned  Side = "unassigned"
)

// SideFromSlot decodes the packed player_slot: the high bit marks the dire side.
func SideFromSlot(playerSlot int64) Side {
	if playerSlot < 128 {
		return SideRadiant
	}
	return SideDire
}

func SideFromTeam(team int64) Side {
	switch team {
	case 0:
		return SideRadiant
	case 1:
		return SideDire
	case 2:
		return SideBroadcaster
	default:
		return SideUnassigned
	}
}
