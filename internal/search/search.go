// Package search debounces catalog lookups and drops results that were
// overtaken by a newer query.
package search

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"teakspice-catalog/internal/models"
)

// ErrStale is returned to a query that a later query superseded.
var ErrStale = errors.New("search: superseded by a newer query")

// Lookup performs the actual text match.
type Lookup func(ctx context.Context, query string) ([]models.Product, error)

type Searcher struct {
	debounce time.Duration
	lookup   Lookup

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

func NewSearcher(debounce time.Duration, lookup Lookup) *Searcher {
	return &Searcher{debounce: debounce, lookup: lookup}
}

// Search starts a query and cancels the one in flight. It waits out the
// debounce window first; a query that is superseded while waiting or running
// returns ErrStale and never its own results.
func (s *Searcher) Search(ctx context.Context, query string) ([]models.Product, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	if s.debounce > 0 {
		timer := time.NewTimer(s.debounce)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, s.staleOr(seq, ctx.Err())
		}
	}

	results, err := s.lookup(ctx, strings.TrimSpace(query))
	if !s.current(seq) {
		return nil, ErrStale
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Searcher) current(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq == seq
}

func (s *Searcher) staleOr(seq uint64, err error) error {
	if !s.current(seq) {
		return ErrStale
	}
	return err
}
