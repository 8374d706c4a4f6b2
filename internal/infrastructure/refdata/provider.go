package refdata

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
	"github.com/riskibarqy/d2webapi/internal/platform/logging"
	"github.com/riskibarqy/d2webapi/internal/platform/resilience"
)

const maxCatalogBytes = 32 << 20

type Config struct {
	Dir        string
	RemoteURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Provider resolves hero, item and ability ids against a local catalog. Loading never
// touches the network; only Refresh does.
type Provider struct {
	dir        string
	remoteURL  string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logging.Logger
	validate   *validator.Validate

	catalog atomic.Pointer[Catalog]
	flight  resilience.Flight[Manifest]
}

func NewProvider(cfg Config) *Provider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}

	p := &Provider{
		dir:        cfg.Dir,
		remoteURL:  strings.TrimRight(cfg.RemoteURL, "/"),
		timeout:    timeout,
		httpClient: httpClient,
		logger:     cfg.Logger.Named("refdata"),
		validate:   validator.New(),
	}
	p.catalog.Store(emptyCatalog())
	return p
}

// Catalog returns the current snapshot.
func (p *Provider) Catalog() *Catalog {
	return p.catalog.Load()
}

// Load reads the local catalog files. Missing files give empty catalogs.
func (p *Provider) Load(ctx context.Context) error {
	next := emptyCatalog()
	for _, file := range catalogFiles {
		body, err := p.readLocal(file)
		if err != nil {
			return err
		}
		if err := next.decodeInto(file, body); err != nil {
			return err
		}
	}

	body, err := p.readLocal(manifestFile)
	if err != nil {
		return err
	}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, &next.Manifest); err != nil {
			return crerr.Wrapf(err, "decode %s", manifestFile)
		}
	}

	p.catalog.Store(next)
	heroes, items, abilities := next.Counts()
	p.logger.DebugContext(ctx, "reference catalog loaded",
		"dir", p.dir,
		"version", next.Manifest.Version,
		"heroes", heroes,
		"items", items,
		"abilities", abilities,
	)
	return nil
}

// Refresh syncs the local catalog with the remote one. With purge the local files are
// deleted first and the catalog is always downloaded. On failure the empty Manifest is
// returned and the loaded catalog stays as it was. Concurrent calls share one refresh.
func (p *Provider) Refresh(ctx context.Context, purge bool) (Manifest, error) {
	key := "refresh"
	if purge {
		key = "refresh:purge"
	}
	manifest, _, err := p.flight.Do(key, func() (Manifest, error) {
		return p.refresh(ctx, purge)
	})
	if err != nil {
		p.logger.WarnContext(ctx, "reference catalog refresh failed", "purge", purge, "error", err)
		return Manifest{}, err
	}
	return manifest, nil
}

func (p *Provider) refresh(ctx context.Context, purge bool) (Manifest, error) {
	if p.remoteURL == "" {
		return Manifest{}, crerr.New("reference data remote url is not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if purge {
		if err := p.purge(); err != nil {
			return Manifest{}, err
		}
	}

	remote, err := p.fetchManifest(ctx)
	if err != nil {
		return Manifest{}, err
	}

	current := p.Catalog()
	if !purge && current.Manifest.Version == remote.Version {
		p.logger.InfoContext(ctx, "reference catalog up to date", "version", remote.Version)
		return remote, nil
	}

	bodies, err := p.download(ctx)
	if err != nil {
		return Manifest{}, err
	}

	next := emptyCatalog()
	next.Manifest = remote
	for i, file := range catalogFiles {
		if err := next.decodeInto(file, bodies[i]); err != nil {
			return Manifest{}, err
		}
	}

	manifestBody, err := sonic.Marshal(remote)
	if err != nil {
		return Manifest{}, crerr.Wrap(err, "encode manifest")
	}
	if err := p.persist(bodies, manifestBody); err != nil {
		return Manifest{}, err
	}

	p.catalog.Store(next)
	heroes, items, abilities := next.Counts()
	p.logger.InfoContext(ctx, "reference catalog refreshed",
		"from_version", current.Manifest.Version,
		"to_version", remote.Version,
		"heroes", heroes,
		"items", items,
		"abilities", abilities,
	)
	return remote, nil
}

func (p *Provider) fetchManifest(ctx context.Context) (Manifest, error) {
	body, err := p.fetch(ctx, manifestFile)
	if err != nil {
		return Manifest{}, err
	}
	var manifest Manifest
	if err := sonic.Unmarshal(body, &manifest); err != nil {
		return Manifest{}, crerr.Wrapf(err, "decode remote %s", manifestFile)
	}
	if err := p.validate.StructCtx(ctx, manifest); err != nil {
		return Manifest{}, crerr.Wrapf(err, "validate remote %s", manifestFile)
	}
	return manifest, nil
}

// download fetches every catalog file on a small worker pool. The result is indexed like catalogFiles.
func (p *Provider) download(ctx context.Context) ([len(catalogFiles)][]byte, error) {
	var bodies [len(catalogFiles)][]byte

	pool, err := ants.NewPool(len(catalogFiles))
	if err != nil {
		return bodies, crerr.Wrap(err, "create download pool")
	}
	defer pool.Release()

	var (
		workers  sync.WaitGroup
		failures atomic.Int32
		errMu    sync.Mutex
		firstErr error
	)
	for i, file := range catalogFiles {
		i, file := i, file
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			body, err := p.fetch(ctx, file)
			if err != nil {
				failures.Add(1)
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
				return
			}
			bodies[i] = body
		}); err != nil {
			workers.Done()
			return bodies, crerr.Wrap(err, "submit download")
		}
	}
	workers.Wait()

	if n := failures.Load(); n > 0 {
		return bodies, crerr.Wrapf(firstErr, "%d of %d catalog downloads failed", n, len(catalogFiles))
	}
	return bodies, nil
}

func (p *Provider) fetch(ctx context.Context, file string) ([]byte, error) {
	url := p.remoteURL + "/" + file
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, crerr.Wrapf(err, "build request for %s", file)
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrapf(err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, crerr.Newf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		return nil, crerr.Wrapf(err, "read %s", url)
	}
	return body, nil
}

func (p *Provider) readLocal(file string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(p.dir, file))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, crerr.Wrapf(err, "read %s", file)
	}
	return body, nil
}

// persist stages every file as a temp file before any of them replaces the current one.
// The old manifest is removed before the catalog renames and the new one goes in last, so
// an interrupted commit leaves no version on disk and the next refresh downloads again.
func (p *Provider) persist(bodies [len(catalogFiles)][]byte, manifestBody []byte) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create %s", p.dir)
	}

	files := append(catalogFiles[:], manifestFile)
	staged := make([]string, 0, len(files))
	defer func() {
		for _, tmp := range staged {
			_ = os.Remove(tmp)
		}
	}()
	for i, file := range files {
		body := manifestBody
		if i < len(catalogFiles) {
			body = bodies[i]
		}
		tmp, err := p.stageLocal(file, body)
		if err != nil {
			return err
		}
		staged = append(staged, tmp)
	}

	if err := os.Remove(filepath.Join(p.dir, manifestFile)); err != nil && !os.IsNotExist(err) {
		return crerr.Wrapf(err, "remove old %s", manifestFile)
	}
	for i, file := range files {
		if err := os.Rename(staged[i], filepath.Join(p.dir, file)); err != nil {
			return crerr.Wrapf(err, "replace %s", file)
		}
	}
	staged = staged[:0]
	return nil
}

// stageLocal writes body to a temp file next to file and returns its path.
func (p *Provider) stageLocal(file string, body []byte) (string, error) {
	tmp, err := os.CreateTemp(p.dir, file+".*.tmp")
	if err != nil {
		return "", crerr.Wrapf(err, "create temp for %s", file)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", crerr.Wrapf(err, "write %s", file)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", crerr.Wrapf(err, "close %s", file)
	}
	return tmp.Name(), nil
}

func (p *Provider) purge() error {
	for _, file := range append(catalogFiles[:], manifestFile) {
		if err := os.Remove(filepath.Join(p.dir, file)); err != nil && !os.IsNotExist(err) {
			return crerr.Wrapf(err, "purge %s", file)
		}
	}
	return nil
}

func (p *Provider) Hero(id entity.OptionalID) entity.Hero {
	if !id.Valid {
		return entity.UnknownHero(id)
	}
	record, ok := p.Catalog().heroes[id.Key()]
	if !ok {
		return entity.UnknownHero(id)
	}
	return entity.Hero{ID: id, Name: record.Name}
}

func (p *Provider) Item(id entity.OptionalID) entity.Item {
	if !id.Valid {
		return entity.UnknownItem(id)
	}
	record, ok := p.Catalog().items[id.Key()]
	if !ok {
		return entity.UnknownItem(id)
	}
	aliases := make([]string, len(record.Aliases))
	copy(aliases, record.Aliases)
	return entity.Item{ID: id, Name: record.Name, Cost: record.Cost, Aliases: aliases}
}

func (p *Provider) Ability(id entity.OptionalID) entity.Ability {
	if !id.Valid {
		return entity.UnknownAbility(id)
	}
	record, ok := p.Catalog().abilities[id.Key()]
	if !ok {
		return entity.UnknownAbility(id)
	}
	return entity.Ability{ID: id, Name: record.Name}
}

var _ entity.Resolver = (*Provider)(nil)
