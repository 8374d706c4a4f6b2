package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/riskibarqy/d2webapi/external/steamapi"
	"github.com/riskibarqy/d2webapi/internal/config"
	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/infrastructure/refdata"
	"github.com/riskibarqy/d2webapi/internal/observability"
	"github.com/riskibarqy/d2webapi/internal/platform/cache"
	"github.com/riskibarqy/d2webapi/internal/platform/fieldaccess"
	"github.com/riskibarqy/d2webapi/internal/platform/logging"
)

var cliTracer = otel.Tracer("d2webapi/cmd/d2webapi")

const usage = `usage: d2webapi [-raw] [-field key] [-metrics] <command> [args]

commands:
  refresh [-purge]        download reference data when the remote version changed
  match <match_id>        match details
  history [account_id]    recent matches, optionally for one account
  heroes                  localized hero list
  items                   localized item list
  live                    live league games
  top [partner]           top live games
  players <account_id>... player summaries
`

func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain returns the exit code so deferred flushes run before the process exits.
func runMain(args []string) int {
	fs := flag.NewFlagSet("d2webapi", flag.ContinueOnError)
	raw := fs.Bool("raw", false, "print the response body instead of the normalized form")
	field := fs.String("field", "", "print only this key of the normalized response")
	dumpMetrics := fs.Bool("metrics", false, "write request metrics to stderr after the command")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	// Environment variables win over .env entries.
	for _, path := range []string{".env", "../.env"} {
		if err := godotenv.Load(path); err == nil {
			break
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: os.Stderr})
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init tracing", "error", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("flush traces", "error", err)
		}
	}()

	provider := refdata.NewProvider(refdata.Config{
		Dir:       cfg.RefdataDir,
		RemoteURL: cfg.RefdataRemote,
		Timeout:   cfg.RefdataTimeout,
		Logger:    logger,
	})
	if err := provider.Load(ctx); err != nil {
		logger.Warn("reference data not loaded, ids resolve to unknown", "dir", cfg.RefdataDir, "error", err)
	}

	registry := prometheus.NewRegistry()
	client := steamapi.NewClient(steamapi.ClientConfig{
		BaseURL:        cfg.APIBaseURL,
		APIKey:         cfg.APIKey,
		Timeout:        cfg.APITimeout,
		Logger:         logger,
		Resolver:       provider,
		Metrics:        steamapi.NewMetrics(registry),
		Cache:          cache.NewStore(cfg.CacheTTL),
		CircuitBreaker: cfg.Circuit,
	})
	if *dumpMetrics {
		defer func() {
			if err := writeMetrics(os.Stderr, registry); err != nil {
				logger.Warn("write metrics", "error", err)
			}
		}()
	}

	out, err := traced(ctx, fs.Arg(0), func(ctx context.Context) ([]byte, error) {
		return run(ctx, client, provider, *raw, *field, fs.Args())
	})
	if err != nil {
		logger.Error("command failed", "command", fs.Arg(0), "error", err)
		return 1
	}
	if out != nil {
		_, _ = os.Stdout.Write(append(out, '\n'))
	}
	return 0
}

// traced runs one command under a root span so client spans have a parent.
func traced(ctx context.Context, command string, fn func(context.Context) ([]byte, error)) ([]byte, error) {
	ctx, span := cliTracer.Start(ctx, "d2webapi."+command)
	defer span.End()
	span.SetAttributes(attribute.String("d2webapi.command", command))

	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return out, err
}

// writeMetrics prints every gathered family in the Prometheus text format.
func writeMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return crerr.Wrap(err, "gather metrics")
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return crerr.Wrapf(err, "encode %s", family.GetName())
		}
	}
	return nil
}

func run(ctx context.Context, client *steamapi.Client, provider *refdata.Provider, raw bool, field string, args []string) ([]byte, error) {
	command, args := args[0], args[1:]
	encodeResult := func(value any, err error) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		if field == "" {
			return encode(value)
		}
		return encodeField(value, field)
	}

	if command == "refresh" {
		fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
		purge := fs.Bool("purge", false, "delete local files and download everything")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		manifest, err := provider.Refresh(ctx, *purge)
		if err != nil {
			return nil, err
		}
		return encode(manifest)
	}

	if raw {
		endpoint, params, err := rawRequest(command, args)
		if err != nil {
			return nil, err
		}
		payload, err := client.GetRaw(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		return payload.JSON(), nil
	}

	switch command {
	case "match":
		matchID, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		return encodeResult(client.MatchDetails(ctx, matchID))
	case "history":
		params, err := historyParams(args)
		if err != nil {
			return nil, err
		}
		return encodeResult(client.MatchHistory(ctx, params))
	case "heroes":
		return encodeResult(client.Heroes(ctx, englishLocale))
	case "items":
		return encodeResult(client.GameItems(ctx, englishLocale))
	case "live":
		return encodeResult(client.LiveLeagueGames(ctx))
	case "top":
		partner, err := partnerArg(args)
		if err != nil {
			return nil, err
		}
		return encodeResult(client.TopLiveGame(ctx, partner))
	case "players":
		accounts, err := accountArgs(args)
		if err != nil {
			return nil, err
		}
		return encodeResult(client.PlayerSummaries(ctx, accounts))
	default:
		return nil, crerr.Newf("unknown command %q", command)
	}
}

// rawRequest maps a command to its endpoint and query for -raw output. It builds the same
// query as the typed method so both forms hit the same URL.
func rawRequest(command string, args []string) (steamapi.Endpoint, steamapi.Params, error) {
	switch command {
	case "match":
		matchID, err := intArg(args, 0)
		if err != nil {
			return steamapi.Endpoint{}, nil, err
		}
		return steamapi.EndpointMatchDetails, steamapi.MatchDetailsQuery(matchID), nil
	case "history":
		params, err := historyParams(args)
		if err != nil {
			return steamapi.Endpoint{}, nil, err
		}
		return steamapi.EndpointMatchHistory, params.Query(), nil
	case "heroes":
		return steamapi.EndpointHeroes, englishLocale.Query(), nil
	case "items":
		return steamapi.EndpointGameItems, englishLocale.Query(), nil
	case "live":
		return steamapi.EndpointLiveLeagueGames, steamapi.Params{}, nil
	case "top":
		partner, err := partnerArg(args)
		if err != nil {
			return steamapi.Endpoint{}, nil, err
		}
		return steamapi.EndpointTopLiveGame, steamapi.TopLiveGameQuery(partner), nil
	case "players":
		accounts, err := accountArgs(args)
		if err != nil {
			return steamapi.Endpoint{}, nil, err
		}
		return steamapi.EndpointPlayerSummaries, steamapi.PlayerSummariesQuery(accounts), nil
	default:
		return steamapi.Endpoint{}, nil, crerr.Newf("command %q has no raw form", command)
	}
}

var englishLocale = steamapi.LocaleParams{Language: "en"}

func historyParams(args []string) (steamapi.MatchHistoryParams, error) {
	params := steamapi.MatchHistoryParams{}
	if len(args) > 0 {
		accountID, err := intArg(args, 0)
		if err != nil {
			return params, err
		}
		params.Account = entity.NewSteamAccount(accountID)
	}
	return params, nil
}

// partnerArg defaults to partner 0.
func partnerArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, nil
	}
	return intArg(args, 0)
}

func intArg(args []string, i int) (int64, error) {
	if len(args) <= i {
		return 0, crerr.New("missing numeric argument")
	}
	value, err := strconv.ParseInt(args[i], 10, 64)
	if err != nil {
		return 0, crerr.Wrapf(err, "parse argument %q", args[i])
	}
	return value, nil
}

func accountArgs(args []string) ([]entity.SteamAccount, error) {
	if len(args) == 0 {
		return nil, crerr.New("at least one account id is required")
	}
	out := make([]entity.SteamAccount, 0, len(args))
	for i := range args {
		value, err := intArg(args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.NewSteamAccount(value))
	}
	return out, nil
}

type fielder interface {
	Field(key string) (any, bool)
}

func encodeField(value any, key string) ([]byte, error) {
	keyed, ok := value.(fielder)
	if !ok {
		return nil, crerr.Newf("%T has no keyed fields", value)
	}
	got, ok := keyed.Field(key)
	if !ok {
		return nil, crerr.Newf("unknown key %q, known keys: %s", key, strings.Join(fieldaccess.Keys(value), ", "))
	}
	return encode(got)
}

func encode(value any) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(value, "", "  ")
}
