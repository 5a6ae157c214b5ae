package category

import (
	"context"
	"encoding/json"
	"os"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/portrait/internal/entity"
	"github.com/ds124wfegd/portrait/internal/pkg/fetcher"
)

// Resolver maps an item id to its equipment slot. The second return is
// false when the item is unknown; unknown items are dropped by the
// assembler.
type Resolver interface {
	Resolve(ctx context.Context, itemID string) (entity.Slot, bool)
}

// TableResolver answers from a static id->slot table loaded once at
// startup.
type TableResolver struct {
	table map[string]entity.Slot
}

// NewTableResolver loads the JSON table at path. A missing or
// unparseable file degrades to an empty table (every item unknown)
// rather than failing startup.
func NewTableResolver(path string) *TableResolver {
	table := make(map[string]entity.Slot)

	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Warnf("item categories %s not loaded: %v", path, err)
		return &TableResolver{table: table}
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		logrus.Warnf("item categories %s invalid: %v", path, err)
		return &TableResolver{table: table}
	}

	for id, name := range raw {
		table[id] = entity.Slot(name)
	}
	return &TableResolver{table: table}
}

func (r *TableResolver) Resolve(_ context.Context, itemID string) (entity.Slot, bool) {
	slot, ok := r.table[itemID]
	return slot, ok
}

// ProbeResolver discovers an item's slot by probing per-category asset
// URLs, for deployments without a static table. First slot whose URL
// answers wins.
type ProbeResolver struct {
	fetch   *fetcher.Client
	baseURL string
	timeout time.Duration
}

func NewProbeResolver(fetch *fetcher.Client, baseURL string, timeout time.Duration) *ProbeResolver {
	return &ProbeResolver{fetch: fetch, baseURL: baseURL, timeout: timeout}
}

func (r *ProbeResolver) Resolve(ctx context.Context, itemID string) (entity.Slot, bool) {
	for _, slot := range entity.OverlaySlots {
		url := r.baseURL + "/" + string(slot) + "/" + itemID + ".png"
		if _, err := r.fetch.Fetch(ctx, url, r.timeout); err == nil {
			return slot, true
		}
	}
	return "", false
}

type memoEntry struct {
	slot entity.Slot
	ok   bool
}

// Memo wraps a Resolver with a TTL cache keyed by item id. Negative
// results are memoized too, so a repeatedly unknown id does not keep
// re-probing within the window.
type Memo struct {
	inner Resolver
	cache *gocache.Cache
}

func NewMemo(inner Resolver, ttl time.Duration) *Memo {
	return &Memo{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (m *Memo) Resolve(ctx context.Context, itemID string) (entity.Slot, bool) {
	if v, found := m.cache.Get(itemID); found {
		e := v.(memoEntry)
		return e.slot, e.ok
	}
	slot, ok := m.inner.Resolve(ctx, itemID)
	m.cache.Set(itemID, memoEntry{slot: slot, ok: ok}, gocache.DefaultExpiration)
	return slot, ok
}
