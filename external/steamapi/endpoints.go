package steamapi

// Endpoint is one WebAPI method. Path is appended to the client's base URL.
type Endpoint struct {
	Name string
	Path string
	// Cacheable endpoints serve static catalogs and may be answered from the response cache.
	Cacheable bool
}

var (
	EndpointMatchHistory         = Endpoint{Name: "GetMatchHistory", Path: "/IDOTA2Match_570/GetMatchHistory/v001/"}
	EndpointMatchHistoryBySeqNum = Endpoint{Name: "GetMatchHistoryBySequenceNum", Path: "/IDOTA2Match_570/GetMatchHistoryBySequenceNum/v0001/"}
	EndpointMatchDetails         = Endpoint{Name: "GetMatchDetails", Path: "/IDOTA2Match_570/GetMatchDetails/v001/"}
	EndpointLiveLeagueGames      = Endpoint{Name: "GetLiveLeagueGames", Path: "/IDOTA2Match_570/GetLiveLeagueGames/v0001/"}
	EndpointTeamInfoByTeamID     = Endpoint{Name: "GetTeamInfoByTeamID", Path: "/IDOTA2Match_570/GetTeamInfoByTeamID/v001/"}
	EndpointTopLiveGame          = Endpoint{Name: "GetTopLiveGame", Path: "/IDOTA2Match_570/GetTopLiveGame/v1/"}
	EndpointHeroes               = Endpoint{Name: "GetHeroes", Path: "/IEconDOTA2_570/GetHeroes/v0001/", Cacheable: true}
	EndpointGameItems            = Endpoint{Name: "GetGameItems", Path: "/IEconDOTA2_570/GetGameItems/v0001/", Cacheable: true}
	EndpointTournamentPrizePool  = Endpoint{Name: "GetTournamentPrizePool", Path: "/IEconDOTA2_570/GetTournamentPrizePool/v1/"}
	EndpointBroadcasterInfo      = Endpoint{Name: "GetBroadcasterInfo", Path: "/IDOTA2StreamSystem_570/GetBroadcasterInfo/v1"}
	EndpointPlayerSummaries      = Endpoint{Name: "GetPlayerSummaries", Path: "/ISteamUser/GetPlayerSummaries/v0002/"}
)

// Endpoints lists every supported method.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointMatchHistory,
		EndpointMatchHistoryBySeqNum,
		EndpointMatchDetails,
		EndpointLiveLeagueGames,
		EndpointTeamInfoByTeamID,
		EndpointTopLiveGame,
		EndpointHeroes,
		EndpointGameItems,
		EndpointTournamentPrizePool,
		EndpointBroadcasterInfo,
		EndpointPlayerSummaries,
	}
}
