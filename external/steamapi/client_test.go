package steamapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/normalizer"
	"github.com/riskibarqy/d2webapi/internal/platform/cache"
	"github.com/riskibarqy/d2webapi/internal/platform/logging"
	"github.com/riskibarqy/d2webapi/internal/platform/resilience"
)

const testKey = "SECRETKEY123"

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*ClientConfig)) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := ClientConfig{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		APIKey:     testKey,
		Logger:     logging.NewNop(),
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	return NewClient(cfg), server
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_MatchDetails_SendsKeyAndNormalizes(t *testing.T) {
	t.Parallel()

	body := `{"result":{"match_id":42,"radiant_win":false,"players":[],"picks_bans":[]}}`
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != EndpointMatchDetails.Path {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != testKey {
			t.Errorf("unexpected key: %q", got)
		}
		if got := r.URL.Query().Get("match_id"); got != "42" {
			t.Errorf("unexpected match_id: %q", got)
		}
		respond(http.StatusOK, body)(w, r)
	})

	details, err := client.MatchDetails(context.Background(), 42)
	if err != nil {
		t.Fatalf("match details: %v", err)
	}
	if details.MatchID != 42 || details.Winner != entity.SideDire {
		t.Fatalf("unexpected details: id=%d winner=%s", details.MatchID, details.Winner)
	}
	if details.Raw.Endpoint != "GetMatchDetails" {
		t.Fatalf("unexpected raw endpoint: %q", details.Raw.Endpoint)
	}
	if details.Raw.RequestKey != "GetMatchDetails?match_id=42" {
		t.Fatalf("request key must not carry the api key: %q", details.Raw.RequestKey)
	}
	if string(details.Raw.JSON()) != body {
		t.Fatalf("raw body not retained: %s", details.Raw.JSON())
	}
}

func TestClient_StatusClassification(t *testing.T) {
	t.Parallel()

	t.Run("forbidden", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, respond(http.StatusForbidden, ""))
		_, err := client.LiveLeagueGames(context.Background())
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			t.Fatalf("expected authentication error, got %v", err)
		}
		if authErr.APIKey != testKey {
			t.Fatalf("expected key in error, got %q", authErr.APIKey)
		}
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		client, server := newTestClient(t, respond(http.StatusNotFound, ""))
		_, err := client.TournamentPrizePool(context.Background(), 65006)
		var methodErr *MethodUnavailableError
		if !errors.As(err, &methodErr) {
			t.Fatalf("expected method unavailable error, got %v", err)
		}
		if want := server.URL + EndpointTournamentPrizePool.Path; methodErr.URL != want {
			t.Fatalf("unexpected url: got=%s want=%s", methodErr.URL, want)
		}
	})

	t.Run("bad request", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, respond(http.StatusBadRequest, ""))
		_, err := client.MatchHistoryBySequenceNum(context.Background(), SequenceParams{MatchesRequested: 5})
		var argsErr *InsufficientArgumentsError
		if !errors.As(err, &argsErr) {
			t.Fatalf("expected insufficient arguments error, got %v", err)
		}
		if argsErr.Params["key"] != testKey || argsErr.Params["matches_requested"] != "5" {
			t.Fatalf("params must be reported as sent: %v", argsErr.Params)
		}
		if _, ok := argsErr.Params["start_at_match_seq_num"]; ok {
			t.Fatalf("zero filters must not be sent: %v", argsErr.Params)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, respond(http.StatusServiceUnavailable, ""))
		_, err := client.TopLiveGame(context.Background(), 0)
		var timeoutErr *TimeoutError
		if !errors.As(err, &timeoutErr) {
			t.Fatalf("expected timeout error, got %v", err)
		}
	})

	t.Run("other", func(t *testing.T) {
		t.Parallel()
		client, _ := newTestClient(t, respond(http.StatusTeapot, ""))
		_, err := client.LiveLeagueGames(context.Background())
		var reqErr *RequestError
		if !errors.As(err, &reqErr) {
			t.Fatalf("expected request error, got %v", err)
		}
		if reqErr.StatusCode != http.StatusTeapot || reqErr.Reason != "I'm a teapot" {
			t.Fatalf("unexpected request error: %+v", reqErr)
		}
	})
}

func TestClient_TransportTimeout(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, func(cfg *ClientConfig) {
		cfg.Timeout = 20 * time.Millisecond
	})

	_, err := client.LiveLeagueGames(context.Background())
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestClient_MalformedBodyIsNormalizationError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, respond(http.StatusOK, `{"result":[]}`))
	_, err := client.MatchDetails(context.Background(), 1)
	if !errors.Is(err, normalizer.ErrMalformedPayload) {
		t.Fatalf("expected malformed payload, got %v", err)
	}
}

func TestClient_CacheableEndpointServedFromCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(http.StatusOK, `{"result":{"status":200,"count":1,"heroes":[{"id":1,"name":"npc_dota_hero_antimage"}]}}`)(w, r)
	}, func(cfg *ClientConfig) {
		cfg.Cache = cache.NewStore(time.Minute)
		cfg.Metrics = metrics
	})

	for i := 0; i < 2; i++ {
		heroes, err := client.Heroes(context.Background(), LocaleParams{Language: "en"})
		if err != nil {
			t.Fatalf("heroes call %d: %v", i, err)
		}
		if len(heroes.Heroes) != 1 || heroes.Heroes[0].Name != "npc_dota_hero_antimage" {
			t.Fatalf("unexpected heroes: %+v", heroes.Heroes)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream call, got %d", got)
	}
	if got := testutil.ToFloat64(metrics.cacheHits.WithLabelValues("GetHeroes")); got != 1 {
		t.Fatalf("cache hit metric mismatch: got=%v want=1", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("GetHeroes", "ok")); got != 1 {
		t.Fatalf("request metric mismatch: got=%v want=1", got)
	}
}

func TestClient_NonCacheableEndpointAlwaysFetches(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(http.StatusOK, `{"result":{"games":[]}}`)(w, r)
	}, func(cfg *ClientConfig) {
		cfg.Cache = cache.NewStore(time.Minute)
	})

	for i := 0; i < 2; i++ {
		if _, err := client.LiveLeagueGames(context.Background()); err != nil {
			t.Fatalf("live league games: %v", err)
		}
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected two upstream calls, got %d", got)
	}
}

func TestClient_CircuitBreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(http.StatusInternalServerError, "")(w, r)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	_, err := client.LiveLeagueGames(context.Background())
	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500 request error, got %v", err)
	}

	_, err = client.LiveLeagueGames(context.Background())
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open circuit, got %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("open circuit must not reach upstream, got %d calls", got)
	}
}

func TestClient_CallerErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		respond(http.StatusForbidden, "")(w, r)
	}, func(cfg *ClientConfig) {
		cfg.CircuitBreaker = resilience.BreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Minute, HalfOpenMaxReq: 1}
	})

	for i := 0; i < 3; i++ {
		_, err := client.LiveLeagueGames(context.Background())
		var authErr *AuthenticationError
		if !errors.As(err, &authErr) {
			t.Fatalf("call %d: expected authentication error, got %v", i, err)
		}
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected every call to reach upstream, got %d", got)
	}
}

func TestClient_PlayerSummariesJoinsSteamIDs(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got, want := r.URL.Query().Get("steamids"), "76561197960265738,76561197960265748"; got != want {
			t.Errorf("steamids mismatch: got=%s want=%s", got, want)
		}
		respond(http.StatusOK, `{"response":{"players":[{"steamid":"76561197960265748"},{"steamid":"76561197960265738"}]}}`)(w, r)
	})

	summaries, err := client.PlayerSummaries(context.Background(), []entity.SteamAccount{
		entity.NewSteamAccount(10),
		entity.NewSteamAccount(76561197960265748),
		{},
	})
	if err != nil {
		t.Fatalf("player summaries: %v", err)
	}
	if len(summaries.Players) != 2 || summaries.Players[0].SteamAccount.ID32 != 10 {
		t.Fatalf("unexpected players: %+v", summaries.Players)
	}
}

func TestClient_BroadcasterUsesSteam64(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("broadcaster_steam_id"); got != "76561197960265829" {
			t.Errorf("broadcaster id mismatch: %s", got)
		}
		respond(http.StatusOK, `{"result":{"account_id":101,"live":true}}`)(w, r)
	})

	info, err := client.BroadcasterInfo(context.Background(), entity.NewSteamAccount(101))
	if err != nil {
		t.Fatalf("broadcaster info: %v", err)
	}
	if !info.Live || info.SteamAccount.ID32 != 101 {
		t.Fatalf("unexpected broadcaster info: %+v", info)
	}
}

func TestClient_SanitizeRedactsKey(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{APIKey: testKey, Logger: logging.NewNop()})
	got := client.sanitize(`Get "https://api.steampowered.com/x?key=` + testKey + `&match_id=1": dial tcp`)
	want := `Get "https://api.steampowered.com/x?key=REDACTED&match_id=1": dial tcp`
	if got != want {
		t.Fatalf("sanitize mismatch:\n got=%s\nwant=%s", got, want)
	}
}

func TestRenderParams_SortedKeys(t *testing.T) {
	t.Parallel()

	got := renderParams(map[string]string{"match_id": "1", "key": "k", "account_id": "7"})
	if want := "{account_id: 7, key: k, match_id: 1}"; got != want {
		t.Fatalf("render mismatch: got=%s want=%s", got, want)
	}
}
