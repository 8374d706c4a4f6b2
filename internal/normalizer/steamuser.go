package normalizer

import (
	"sort"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/domain/steamuser"
)

// BroadcasterInfo normalizes GetBroadcasterInfo. The envelope is optional.
func (n *Normalizer) BroadcasterInfo(payload rawdata.Payload) (steamuser.BroadcasterInfo, error) {
	obj, err := envelope(payload, "result")
	if err != nil {
		return steamuser.BroadcasterInfo{}, err
	}

	id := obj.popOptionalID("account_id")
	for _, key := range []string{"broadcaster_account_id", "broadcaster_steam_id"} {
		if alt := obj.popOptionalID(key); !id.Valid {
			id = alt
		}
	}
	out := steamuser.BroadcasterInfo{
		SteamAccount:   entity.SteamAccountFromID(id),
		ServerSteamID:  obj.popInt64("server_steam_id"),
		Live:           obj.popBool("live"),
		AllowLiveVideo: obj.popBool("allow_live_video"),
		Raw:            payload,
	}
	out.Extra = obj.rest()
	return out, nil
}

// PlayerSummaries normalizes GetPlayerSummaries, ordered by ascending 64-bit id.
func (n *Normalizer) PlayerSummaries(payload rawdata.Payload) (steamuser.PlayerSummaries, error) {
	obj, err := envelope(payload, "response")
	if err != nil {
		return steamuser.PlayerSummaries{}, err
	}

	players := obj.popObjects("players")
	out := steamuser.PlayerSummaries{
		Players: make([]steamuser.SteamDetails, 0, len(players)),
		Raw:     payload,
	}
	for _, player := range players {
		out.Players = append(out.Players, steamDetails(player))
	}
	sort.SliceStable(out.Players, func(i, j int) bool {
		return out.Players[i].SteamAccount.ID64 < out.Players[j].SteamAccount.ID64
	})
	return out, nil
}

func steamDetails(obj Object) steamuser.SteamDetails {
	out := steamuser.SteamDetails{
		SteamAccount:        entity.SteamAccountFromID(obj.popOptionalID("steamid")),
		CommunityVisibility: steamuser.VisibilityFromCode(obj.popInt64("communityvisibilitystate")),
		PersonaState:        steamuser.PersonaStateFromCode(obj.popInt64("personastate")),
		ProfileState:        obj.popInt64("profilestate"),
		PersonaName:         obj.popString("personaname"),
		LastLogoff:          obj.popInt64("lastlogoff"),
		ProfileURL:          obj.popString("profileurl"),
		Avatar:              obj.popString("avatar"),
		AvatarMedium:        obj.popString("avatarmedium"),
		AvatarFull:          obj.popString("avatarfull"),
		CommentPermission:   obj.popInt64("commentpermission"),
		RealName:            obj.popString("realname"),
		PrimaryClanID:       obj.popString("primaryclanid"),
		TimeCreated:         obj.popInt64("timecreated"),
		LocCountryCode:      obj.popString("loccountrycode"),
		LocStateCode:        obj.popString("locstatecode"),
		LocCityID:           obj.popInt64("loccityid"),
		GameID:              obj.popString("gameid"),
		GameExtraInfo:       obj.popString("gameextrainfo"),
		GameServerIP:        obj.popString("gameserverip"),
	}
	out.Extra = obj.rest()
	return out
}
