package catalog

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnyUserName/imgvariant/internal/profile"
)

// DefaultRefreshInterval is how often Run reloads the catalog.
const DefaultRefreshInterval = 60 * time.Second

// Source supplies the raw catalog records.
type Source interface {
	Load(ctx context.Context) (profile.Catalog, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (profile.Catalog, error)

func (f SourceFunc) Load(ctx context.Context) (profile.Catalog, error) { return f(ctx) }

// Snapshot holds the current Index and swaps it wholesale on refresh.
// Readers may see a stale index between refreshes.
type Snapshot struct {
	source   Source
	interval time.Duration
	log      zerolog.Logger
	current  atomic.Pointer[Index]
}

// NewSnapshot creates an empty snapshot. Call Refresh before Current.
func NewSnapshot(source Source, interval time.Duration, log zerolog.Logger) *Snapshot {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	s := &Snapshot{source: source, interval: interval, log: log}
	s.current.Store(Build(profile.Catalog{}, log))
	return s
}

// Current returns the latest successfully built index.
func (s *Snapshot) Current() *Index { return s.current.Load() }

// Refresh loads the catalog and swaps in a new index. On error the
// previous index stays in place.
func (s *Snapshot) Refresh(ctx context.Context) error {
	c, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	ix := Build(c, s.log)
	s.current.Store(ix)
	s.log.Debug().
		Int("types", len(c.Types)).
		Int("profiles", len(c.Profiles)).
		Int("links", len(c.Links)).
		Int("dropped_links", ix.Dropped()).
		Msg("catalog refreshed")
	return nil
}

// Run refreshes on every tick until ctx is done.
func (s *Snapshot) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				s.log.Warn().Err(err).Msg("catalog refresh failed, keeping previous snapshot")
			}
		}
	}
}
