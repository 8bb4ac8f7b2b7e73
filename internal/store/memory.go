package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmorgan81/kittenbass/internal/log"
	"github.com/google/uuid"
	"github.com/samber/do"
	"github.com/samber/lo"
)

const DefaultTTL = time.Hour

type Entry struct {
	Data        []byte
	ContentType string
	Prompt      string
	Model       string
	CreatedAt   time.Time
}

// Listing is an entry without its bytes.
type Listing struct {
	ID          string
	ContentType string
	Prompt      string
	Model       string
	Size        int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

type item struct {
	entry Entry
	timer *time.Timer
}

// Store keeps image bytes in memory for a fixed TTL. Every entry is evicted by
// its own timer exactly once; reads never extend the lifetime. There is no
// capacity bound.
type Store struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*item
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     lo.Ternary(ttl > 0, ttl, DefaultTTL),
		entries: make(map[string]*item),
	}
}

func NewStore(i *do.Injector) (*Store, error) {
	return New(do.MustInvokeNamed[time.Duration](i, "store_ttl")), nil
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

func (s *Store) Put(ctx context.Context, entry Entry) string {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for s.entries[id] != nil {
		id = uuid.NewString()
	}
	s.entries[id] = &item{
		entry: entry,
		timer: time.AfterFunc(s.ttl, func() { s.evict(id) }),
	}

	log.FromContextOrDiscard(ctx).WithGroup("store").Info("stored image",
		"id", id, "bytes", len(entry.Data), "ttl", s.ttl.String(), "live", len(s.entries))
	return id
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return it.entry, true
}

// List returns the live entries, oldest first.
func (s *Store) List() []Listing {
	s.mu.RLock()
	listings := lo.MapToSlice(s.entries, func(id string, it *item) Listing {
		return Listing{
			ID:          id,
			ContentType: it.entry.ContentType,
			Prompt:      it.entry.Prompt,
			Model:       it.entry.Model,
			Size:        len(it.entry.Data),
			CreatedAt:   it.entry.CreatedAt,
			ExpiresAt:   it.entry.CreatedAt.Add(s.ttl),
		}
	})
	s.mu.RUnlock()

	sort.Slice(listings, func(a, b int) bool {
		if listings[a].CreatedAt.Equal(listings[b].CreatedAt) {
			return listings[a].ID < listings[b].ID
		}
		return listings[a].CreatedAt.Before(listings[b].CreatedAt)
	})
	return listings
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) evict(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Shutdown stops every pending eviction timer and drops all entries.
func (s *Store) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.entries {
		it.timer.Stop()
	}
	s.entries = make(map[string]*item)
	return nil
}
