package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/d2webapi/internal/domain/entity"
)

type remoteCatalog struct {
	mu       sync.Mutex
	version  string
	files    map[string]string
	failFile string
	hits     map[string]*atomic.Int32
}

func newRemoteCatalog(version string) *remoteCatalog {
	r := &remoteCatalog{
		version: version,
		files: map[string]string{
			heroesFile:    `{"1":{"hero_name":"npc_dota_hero_antimage"},"2":{"hero_name":"npc_dota_hero_axe"}}`,
			itemsFile:     `{"1":{"item_name":"item_blink","item_cost":2250,"item_aliases":["blink"]},"29":{"item_name":"item_boots","item_cost":500}}`,
			abilitiesFile: `{"5003":{"ability_name":"antimage_mana_break"}}`,
		},
		hits: map[string]*atomic.Int32{},
	}
	for _, file := range []string{heroesFile, itemsFile, abilitiesFile, manifestFile} {
		r.hits[file] = &atomic.Int32{}
	}
	return r
}

func (r *remoteCatalog) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file := filepath.Base(req.URL.Path)
	if counter, ok := r.hits[file]; ok {
		counter.Add(1)
	}
	if file == r.failFile {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if file == manifestFile {
		_, _ = w.Write([]byte(`{"version":"` + r.version + `"}`))
		return
	}
	body, ok := r.files[file]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	_, _ = w.Write([]byte(body))
}

func newTestProvider(t *testing.T, remote *remoteCatalog) (*Provider, string) {
	t.Helper()

	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	return NewProvider(Config{Dir: dir, RemoteURL: server.URL + "/ref/", HTTPClient: server.Client()}), dir
}

func TestProvider_UnloadedReturnsSentinels(t *testing.T) {
	t.Parallel()

	provider := NewProvider(Config{Dir: t.TempDir()})
	if err := provider.Load(context.Background()); err != nil {
		t.Fatalf("load from empty dir: %v", err)
	}

	if got := provider.Hero(entity.ID(1)); got.Name != entity.UnknownHeroName || got.ID != entity.ID(1) {
		t.Fatalf("unexpected hero: %+v", got)
	}
	if got := provider.Hero(entity.OptionalID{}); got.Name != entity.UnknownHeroName {
		t.Fatalf("unexpected hero for absent id: %+v", got)
	}
	item := provider.Item(entity.ID(99999))
	if item.Name != entity.UnknownItemName || item.Cost != 0 || item.Aliases == nil || len(item.Aliases) != 0 {
		t.Fatalf("unexpected item sentinel: %+v", item)
	}
	if got := provider.Ability(entity.ID(5003)); got.Name != entity.UnknownAbilityName {
		t.Fatalf("unexpected ability: %+v", got)
	}
}

func TestProvider_RefreshDownloadsAndPersists(t *testing.T) {
	t.Parallel()

	remote := newRemoteCatalog("7.35")
	provider, dir := newTestProvider(t, remote)

	manifest, err := provider.Refresh(context.Background(), false)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if manifest.Version != "7.35" {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}

	if got := provider.Hero(entity.ID(2)); got.Name != "npc_dota_hero_axe" {
		t.Fatalf("unexpected hero: %+v", got)
	}
	item := provider.Item(entity.ID(1))
	if item.Name != "item_blink" || item.Cost != 2250 || len(item.Aliases) != 1 || item.Aliases[0] != "blink" {
		t.Fatalf("unexpected item: %+v", item)
	}
	if boots := provider.Item(entity.ID(29)); boots.Aliases == nil {
		t.Fatalf("item without aliases must expose an empty list")
	}
	if got := provider.Ability(entity.ID(5003)); got.Name != "antimage_mana_break" {
		t.Fatalf("unexpected ability: %+v", got)
	}

	for _, file := range []string{heroesFile, itemsFile, abilitiesFile, manifestFile} {
		if _, err := os.Stat(filepath.Join(dir, file)); err != nil {
			t.Fatalf("%s not written: %v", file, err)
		}
	}

	reloaded := NewProvider(Config{Dir: dir})
	if err := reloaded.Load(context.Background()); err != nil {
		t.Fatalf("load persisted catalog: %v", err)
	}
	if reloaded.Catalog().Manifest.Version != "7.35" || reloaded.Hero(entity.ID(1)).Name != "npc_dota_hero_antimage" {
		t.Fatalf("persisted catalog not readable: %+v", reloaded.Catalog().Manifest)
	}
}

func TestProvider_RefreshSkipsDownloadWhenVersionMatches(t *testing.T) {
	t.Parallel()

	remote := newRemoteCatalog("7.35")
	provider, _ := newTestProvider(t, remote)

	if _, err := provider.Refresh(context.Background(), false); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if _, err := provider.Refresh(context.Background(), false); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if got := remote.hits[heroesFile].Load(); got != 1 {
		t.Fatalf("heroes downloaded %d times, want 1", got)
	}
	if got := remote.hits[manifestFile].Load(); got != 2 {
		t.Fatalf("manifest fetched %d times, want 2", got)
	}

	if _, err := provider.Refresh(context.Background(), true); err != nil {
		t.Fatalf("purge refresh: %v", err)
	}
	if got := remote.hits[heroesFile].Load(); got != 2 {
		t.Fatalf("purge must force a download, heroes fetched %d times", got)
	}
}

func TestProvider_RefreshFailureKeepsCatalog(t *testing.T) {
	t.Parallel()

	remote := newRemoteCatalog("7.35")
	provider, _ := newTestProvider(t, remote)
	if _, err := provider.Refresh(context.Background(), false); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	remote.mu.Lock()
	remote.version = "7.36"
	remote.failFile = itemsFile
	remote.mu.Unlock()

	manifest, err := provider.Refresh(context.Background(), false)
	if err == nil {
		t.Fatalf("expected refresh error")
	}
	if manifest != (Manifest{}) {
		t.Fatalf("failed refresh must return the empty manifest, got %+v", manifest)
	}
	if provider.Catalog().Manifest.Version != "7.35" || provider.Hero(entity.ID(1)).Name != "npc_dota_hero_antimage" {
		t.Fatalf("catalog changed after failed refresh: %+v", provider.Catalog().Manifest)
	}
}

func TestProvider_InterruptedCommitLeavesNoVersionOnDisk(t *testing.T) {
	t.Parallel()

	remote := newRemoteCatalog("7.35")
	provider, dir := newTestProvider(t, remote)
	if _, err := provider.Refresh(context.Background(), false); err != nil {
		t.Fatalf("first refresh: %v", err)
	}

	// a non-empty directory where abilities.json lives makes its rename fail after heroes and items moved
	blocked := filepath.Join(dir, abilitiesFile)
	if err := os.Remove(blocked); err != nil {
		t.Fatalf("remove abilities: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(blocked, "keep"), 0o755); err != nil {
		t.Fatalf("block abilities: %v", err)
	}

	remote.mu.Lock()
	remote.version = "7.36"
	remote.mu.Unlock()

	if _, err := provider.Refresh(context.Background(), false); err == nil {
		t.Fatalf("expected refresh error")
	}
	if _, err := os.Stat(filepath.Join(dir, manifestFile)); !os.IsNotExist(err) {
		t.Fatalf("manifest must be gone after an interrupted commit, stat err=%v", err)
	}
	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("staged files left behind: %v", leftovers)
	}
	if provider.Catalog().Manifest.Version != "7.35" {
		t.Fatalf("catalog changed after failed refresh: %+v", provider.Catalog().Manifest)
	}

	reloaded := NewProvider(Config{Dir: dir})
	if err := reloaded.Load(context.Background()); err == nil && reloaded.Catalog().Manifest.Version != "" {
		t.Fatalf("reloaded catalog claims version %q", reloaded.Catalog().Manifest.Version)
	}
}

func TestProvider_RefreshRejectsInvalidManifest(t *testing.T) {
	t.Parallel()

	remote := newRemoteCatalog("")
	provider, _ := newTestProvider(t, remote)

	if _, err := provider.Refresh(context.Background(), false); err == nil {
		t.Fatalf("expected validation error for empty version")
	}
	if got := remote.hits[heroesFile].Load(); got != 0 {
		t.Fatalf("invalid manifest must not trigger downloads, got %d", got)
	}
}
