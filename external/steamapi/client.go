package steamapi

import (
	"context"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/d2webapi/internal/domain/econ"
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/domain/live"
	"github.com/riskibarqy/d2webapi/internal/domain/match"
	"github.com/riskibarqy/d2webapi/internal/domain/rawdata"
	"github.com/riskibarqy/d2webapi/internal/domain/steamuser"
	"github.com/riskibarqy/d2webapi/internal/domain/team"
	"github.com/riskibarqy/d2webapi/internal/normalizer"
	"github.com/riskibarqy/d2webapi/internal/platform/cache"
	"github.com/riskibarqy/d2webapi/internal/platform/logging"
	"github.com/riskibarqy/d2webapi/internal/platform/resilience"
)

const (
	DefaultBaseURL   = "https://api.steampowered.com"
	DefaultTimeout   = 60 * time.Second
	maxResponseBytes = 16 << 20
	keyParam         = "key"
)

var keyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)

var clientTracer = otel.Tracer("d2webapi/external/steamapi")
var noopSpan = trace.SpanFromContext(context.Background())

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	Logger         *logging.Logger
	Resolver       entity.Resolver
	Metrics        *Metrics
	Cache          *cache.Store
	CircuitBreaker resilience.BreakerConfig
}

// Client performs WebAPI calls and normalizes the responses. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	logger     *logging.Logger
	normalizer *normalizer.Normalizer
	metrics    *Metrics
	cache      *cache.Store
	breaker    *resilience.CircuitBreaker
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
		logger:     logger.Named("steamapi"),
		normalizer: normalizer.New(cfg.Resolver),
		metrics:    cfg.Metrics,
		cache:      cfg.Cache,
		breaker:    resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
	c.breaker.OnStateChange(func(from, to resilience.CircuitState) {
		c.logger.Warn("steamapi circuit breaker changed state", "from", from, "to", to)
	})
	return c
}

func (c *Client) MatchHistory(ctx context.Context, params MatchHistoryParams) (match.MatchHistory, error) {
	return fetch(ctx, c, EndpointMatchHistory, params.Query(), c.normalizer.MatchHistory)
}

func (c *Client) MatchHistoryBySequenceNum(ctx context.Context, params SequenceParams) (match.MatchHistory, error) {
	return fetch(ctx, c, EndpointMatchHistoryBySeqNum, params.Query(), c.normalizer.MatchHistory)
}

func (c *Client) MatchDetails(ctx context.Context, matchID int64) (match.MatchDetails, error) {
	return fetch(ctx, c, EndpointMatchDetails, MatchDetailsQuery(matchID), c.normalizer.MatchDetails)
}

func (c *Client) Heroes(ctx context.Context, params LocaleParams) (econ.Heroes, error) {
	return fetch(ctx, c, EndpointHeroes, params.Query(), c.normalizer.Heroes)
}

func (c *Client) GameItems(ctx context.Context, params LocaleParams) (econ.GameItems, error) {
	params.ItemizedOnly = false
	return fetch(ctx, c, EndpointGameItems, params.Query(), c.normalizer.GameItems)
}

func (c *Client) TournamentPrizePool(ctx context.Context, leagueID int64) (econ.TournamentPrizePool, error) {
	params := Params{}
	params.setInt("leagueid", leagueID)
	return fetch(ctx, c, EndpointTournamentPrizePool, params, c.normalizer.TournamentPrizePool)
}

func (c *Client) TopLiveGame(ctx context.Context, partner int64) (live.TopLiveGame, error) {
	return fetch(ctx, c, EndpointTopLiveGame, TopLiveGameQuery(partner), c.normalizer.TopLiveGame)
}

func (c *Client) TeamInfoByTeamID(ctx context.Context, params TeamInfoParams) (team.TeamInfoByTeamID, error) {
	return fetch(ctx, c, EndpointTeamInfoByTeamID, params.Query(), c.normalizer.TeamInfoByTeamID)
}

func (c *Client) LiveLeagueGames(ctx context.Context) (live.LiveLeagueGames, error) {
	return fetch(ctx, c, EndpointLiveLeagueGames, Params{}, c.normalizer.LiveLeagueGames)
}

func (c *Client) BroadcasterInfo(ctx context.Context, account entity.SteamAccount) (steamuser.BroadcasterInfo, error) {
	params := Params{}
	params.setAccount("broadcaster_steam_id", account)
	return fetch(ctx, c, EndpointBroadcasterInfo, params, c.normalizer.BroadcasterInfo)
}

func (c *Client) PlayerSummaries(ctx context.Context, accounts []entity.SteamAccount) (steamuser.PlayerSummaries, error) {
	return fetch(ctx, c, EndpointPlayerSummaries, PlayerSummariesQuery(accounts), c.normalizer.PlayerSummaries)
}

func fetch[T any](ctx context.Context, c *Client, endpoint Endpoint, params Params, transform func(rawdata.Payload) (T, error)) (T, error) {
	var zero T
	payload, err := c.GetRaw(ctx, endpoint, params)
	if err != nil {
		return zero, err
	}
	out, err := transform(payload)
	if err != nil {
		c.logger.WarnContext(ctx, "normalize response failed", "endpoint", endpoint.Name, "error", err)
		return zero, crerr.Wrapf(err, "normalize %s", endpoint.Name)
	}
	return out, nil
}

// GetRaw returns the undecoded body wrapped with its request metadata.
func (c *Client) GetRaw(ctx context.Context, endpoint Endpoint, params Params) (rawdata.Payload, error) {
	body, err := c.Get(ctx, endpoint, params)
	if err != nil {
		return rawdata.Payload{}, err
	}
	return rawdata.New(endpoint.Name, requestKey(endpoint, params), body), nil
}

// Get performs one GET against endpoint and returns the body of a 200 response. Failures are
// one of the error types declared in this package.
func (c *Client) Get(ctx context.Context, endpoint Endpoint, params Params) ([]byte, error) {
	ctx, span := startSpan(ctx, "steamapi.Client."+endpoint.Name)
	defer span.End()
	span.SetAttributes(attribute.String("steamapi.endpoint", endpoint.Name))

	started := time.Now()
	load := func(ctx context.Context) ([]byte, error) {
		var body []byte
		err := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.do(ctx, endpoint, params)
			return reqErr
		}, isUpstreamFailure)
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			return nil, &RequestError{Reason: "upstream temporarily unavailable", Err: err}
		}
		return body, err
	}

	var (
		body []byte
		hit  bool
		err  error
	)
	if endpoint.Cacheable {
		body, hit, err = c.cache.GetOrLoad(ctx, requestKey(endpoint, params), load)
	} else {
		body, err = load(ctx)
	}

	if hit {
		c.metrics.cacheHit(endpoint.Name)
		span.SetAttributes(attribute.Bool("steamapi.cache_hit", true))
		return body, nil
	}
	c.metrics.observe(endpoint.Name, outcomeOf(err), time.Since(started))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcomeOf(err))
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint Endpoint, params Params) ([]byte, error) {
	sent := make(map[string]string, len(params)+1)
	for key, value := range params {
		sent[key] = value
	}
	if _, ok := sent[keyParam]; !ok {
		sent[keyParam] = c.apiKey
	}

	values := url.Values{}
	for key, value := range sent {
		values.Set(key, value)
	}
	endpointURL := c.baseURL + endpoint.Path
	fullURL := endpointURL + "?" + values.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &RequestError{Reason: "build request: " + c.sanitize(err.Error()), Err: err}
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "steamapi request failed", "endpoint", endpoint.Name, "error", c.sanitize(err.Error()))
		if isTimeout(err) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, &RequestError{Reason: "send request: " + c.sanitize(err.Error()), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.logger.WarnContext(ctx, "steamapi returned non-200 status", "endpoint", endpoint.Name, "status", resp.StatusCode)
		return nil, statusError(resp.StatusCode, statusReason(resp), endpointURL, c.apiKey, sent)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Reason: "read response body: " + c.sanitize(err.Error()), Err: err}
	}
	return body, nil
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return keyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

// requestKey identifies a call for caching and diagnostics. The API key is never part of it.
func requestKey(endpoint Endpoint, params Params) string {
	values := url.Values{}
	for key, value := range params {
		if key == keyParam {
			continue
		}
		values.Set(key, value)
	}
	return endpoint.Name + "?" + values.Encode()
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func isTimeout(err error) bool {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// isUpstreamFailure reports whether err says the upstream is unhealthy. Caller mistakes such
// as a bad key or missing arguments do not trip the breaker.
func isUpstreamFailure(err error) bool {
	var timeoutErr *TimeoutError
	if stderrors.As(err, &timeoutErr) {
		return true
	}
	var reqErr *RequestError
	if stderrors.As(err, &reqErr) {
		return reqErr.StatusCode == 0 || reqErr.StatusCode >= http.StatusInternalServerError
	}
	return false
}

func outcomeOf(err error) string {
	var (
		authErr    *AuthenticationError
		methodErr  *MethodUnavailableError
		argsErr    *InsufficientArgumentsError
		timeoutErr *TimeoutError
	)
	switch {
	case err == nil:
		return "ok"
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case stderrors.As(err, &authErr):
		return "forbidden"
	case stderrors.As(err, &methodErr):
		return "not_found"
	case stderrors.As(err, &argsErr):
		return "bad_request"
	case stderrors.As(err, &timeoutErr):
		return "timeout"
	default:
		return "error"
	}
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	return clientTracer.Start(ctx, name)
}
