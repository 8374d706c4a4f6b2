package steamuser

import (
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
)

type Visibility string

const (
	VisibilityPrivate          Visibility = "private"
	VisibilityFriendsOnly      Visibility = "friends_only"
	VisibilityFriendsOfFriends Visibility = "friends_of_friends"
	VisibilityUsersOnly        Visibility = "users_only"
	VisibilityPublic           Visibility = "public"
)

var visibilityByCode = map[int64]Visibility{
	1: VisibilityPrivate,
	2: VisibilityFriendsOnly,
	3: VisibilityFriendsOfFriends,
	4: VisibilityUsersOnly,
	5: VisibilityPublic,
}

// VisibilityFromCode falls back to private for unknown codes.
func VisibilityFromCode(code int64) Visibility {
	if v, ok := visibilityByCode[code]; ok {
		return v
	}
	return VisibilityPrivate
}

type PersonaState string

const (
	PersonaOffline        PersonaState = "offline"
	PersonaOnline         PersonaState = "online"
	PersonaBusy           PersonaState = "busy"
	PersonaAway           PersonaState = "away"
	PersonaSnooze         PersonaState = "snooze"
	PersonaLookingToTrade PersonaState = "looking_to_trade"
	PersonaLookingToPlay  PersonaState = "looking_to_play"
)

var personaByCode = map[int64]PersonaState{
	0: PersonaOffline,
	1: PersonaOnline,
	2: PersonaBusy,
	3: PersonaAway,
	4: PersonaSnooze,
	5: PersonaLookingToTrade,
	6: PersonaLookingToPlay,
}

// PersonaStateFromCode falls back to offline for unknown codes.
func PersonaStateFromCode(code int64) PersonaState {
	if v, ok := personaByCode[code]; ok {
		return v
	}
	return PersonaOffline
}

// SteamDetails is one player summary as Steam reports it.
type SteamDetails struct {
	SteamAccount        entity.SteamAccount `json:"steam_account"`
	CommunityVisibility Visibility          `json:"communityvisibility"`
	PersonaState        PersonaState        `json:"personastate"`
	ProfileState        int64               `json:"profilestate"`
	PersonaName         string              `json:"personaname"`
	LastLogoff          int64               `json:"lastlogoff"`
	ProfileURL          string              `json:"profileurl"`
	Avatar              string              `json:"avatar"`
	AvatarMedium        string              `json:"avatarmedium"`
	AvatarFull          string              `json:"avatarfull"`
	CommentPermission   int64               `json:"commentpermission"`
	RealName            string              `json:"realname,omitempty"`
	PrimaryClanID       string              `json:"primaryclanid,omitempty"`
	TimeCreated         int64               `json:"timecreated,omitempty"`
	LocCountryCode      string              `json:"loccountrycode,omitempty"`
	LocStateCode        string              `json:"locstatecode,omitempty"`
	LocCityID           int64               `json:"loccityid,omitempty"`
	GameID              string              `json:"gameid,omitempty"`
	GameExtraInfo       string              `json:"gameextrainfo,omitempty"`
	GameServerIP        string              `json:"gameserverip,omitempty"`
	Extra               map[string]any      `json:"extra,omitempty"`
}

// PlayerSummaries lists players in ascending 64-bit id order.
type PlayerSummaries struct {
	Players []SteamDetails  `json:"players"`
	Raw     rawdata.Payload `json:"-"`
}

type BroadcasterInfo struct {
	SteamAccount   entity.SteamAccount `json:"steam_account"`
	ServerSteamID  int64               `json:"server_steam_id"`
	Live           bool                `json:"live"`
	AllowLiveVideo bool                `json:"allow_live_video"`
	Extra          map[string]any      `json:"extra,omitempty"`
	Raw            rawdata.Payload     `json:"-"`
}

// Field reads a value by its JSON key. It agrees with the typed field of the same name.
func (v PlayerSummaries) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}

func (v BroadcasterInfo) Field(key string) (any, bool) {
	return fieldaccess.Get(v, key)
}
