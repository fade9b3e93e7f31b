package data

import (
	"context"
	"sort"
	"sync"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// StorageConfig holds configuration for the bar storage
type StorageConfig struct {
	MaxBarsPerSymbol int
}

// DefaultStorageConfig returns sensible default configuration
func DefaultStorageConfig() StorageConfig {
	return StorageConfig{
		MaxBarsPerSymbol: 10_000, // roughly a week of 1m bars
	}
}

// InMemoryBarStorage keeps base-resolution (1-minute) bars per symbol in an
// in-memory map. Bars for a symbol are maintained in ascending timestamp
// order with no duplicate timestamps.
type InMemoryBarStorage struct {
	bars   map[string][]model.Bar // symbol -> 1m bars
	config StorageConfig
	mu     sync.RWMutex
}

// NewInMemoryBarStorage creates a new in-memory bar storage with default config
func NewInMemoryBarStorage() *InMemoryBarStorage {
	return NewInMemoryBarStorageWithConfig(DefaultStorageConfig())
}

// NewInMemoryBarStorageWithConfig creates a new in-memory bar storage with custom config
func NewInMemoryBarStorageWithConfig(config StorageConfig) *InMemoryBarStorage {
	return &InMemoryBarStorage{
		bars:   make(map[string][]model.Bar),
		config: config,
	}
}

// AddBar appends a completed or opening bar for a symbol. A bar whose
// timestamp matches the current last bar replaces it instead of duplicating
// the timestamp; an out-of-order bar is inserted at its sorted position.
func (s *InMemoryBarStorage) AddBar(symbol string, bar model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bars := s.bars[symbol]

	switch {
	case len(bars) == 0 || bar.Timestamp > bars[len(bars)-1].Timestamp:
		bars = append(bars, bar)
	case bar.Timestamp == bars[len(bars)-1].Timestamp:
		bars[len(bars)-1] = bar
	default:
		// Rare path: the generator emits in order, but keep the ordering
		// invariant even if a caller does not.
		idx := sort.Search(len(bars), func(i int) bool {
			return bars[i].Timestamp >= bar.Timestamp
		})
		if idx < len(bars) && bars[idx].Timestamp == bar.Timestamp {
			bars[idx] = bar
		} else {
			bars = append(bars, model.Bar{})
			copy(bars[idx+1:], bars[idx:])
			bars[idx] = bar
		}
	}

	// Keep only the most recent bars per symbol to prevent unbounded growth
	if len(bars) > s.config.MaxBarsPerSymbol {
		bars = bars[len(bars)-s.config.MaxBarsPerSymbol:]
	}

	s.bars[symbol] = bars
	return nil
}

// UpdateLastBar replaces the most recent bar for a symbol. It is a no-op
// when the symbol has no bars yet.
func (s *InMemoryBarStorage) UpdateLastBar(symbol string, bar model.Bar) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bars := s.bars[symbol]
	if len(bars) == 0 {
		return nil
	}
	bars[len(bars)-1] = bar
	return nil
}

// GetLatestBar returns the most recent bar for a symbol. The boolean is
// false when the symbol has no bars.
func (s *InMemoryBarStorage) GetLatestBar(ctx context.Context, symbol string) (model.Bar, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars := s.bars[symbol]
	if len(bars) == 0 {
		return model.Bar{}, false, nil
	}
	return bars[len(bars)-1], true, nil
}

// GetBarsRange returns every bar for a symbol whose timestamp falls in the
// half-open range [from, to), ascending. The result is a copy.
func (s *InMemoryBarStorage) GetBarsRange(ctx context.Context, symbol string, from, to int64) ([]model.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars := s.bars[symbol]
	if len(bars) == 0 || from >= to {
		return []model.Bar{}, nil
	}

	lo := sort.Search(len(bars), func(i int) bool { return bars[i].Timestamp >= from })
	hi := sort.Search(len(bars), func(i int) bool { return bars[i].Timestamp >= to })
	if lo >= hi {
		return []model.Bar{}, nil
	}

	result := make([]model.Bar, hi-lo)
	copy(result, bars[lo:hi])
	return result, nil
}
