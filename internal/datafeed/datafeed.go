package datafeed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/catalog"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// DefaultTickInterval is how often subscription callbacks fire when the
// config does not override it.
const DefaultTickInterval = 2 * time.Second

// BarReader is the subset of the storage API the datafeed reads from
type BarReader interface {
	GetBarsRange(ctx context.Context, symbol string, from, to int64) ([]model.Bar, error)
	GetLatestBar(ctx context.Context, symbol string) (model.Bar, bool, error)
}

// Datafeed implements the charting engine's callback contract over the
// static catalog and the in-memory bar store. The engine owns the call
// pattern; this side guarantees that no entry point ever panics across the
// boundary and that every failure is reported through the contract's own
// channel (callback or result status).
type Datafeed struct {
	catalog      *catalog.Catalog
	storage      BarReader
	tickInterval time.Duration
	logger       *slog.Logger

	mu        sync.Mutex
	subs      map[string]context.CancelFunc // subscriptionID -> timer cancel
	destroyed bool
}

// New creates a datafeed over the given catalog and bar storage
func New(cat *catalog.Catalog, storage BarReader, tickInterval time.Duration, logger *slog.Logger) *Datafeed {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Datafeed{
		catalog:      cat,
		storage:      storage,
		tickInterval: tickInterval,
		logger:       logger,
		subs:         make(map[string]context.CancelFunc),
	}
}

// ResolveSymbol looks up symbol metadata and reports the outcome through
// exactly one of the two callbacks. Unknown symbols go to onError with a
// human-readable reason; nothing is ever thrown at the caller.
func (f *Datafeed) ResolveSymbol(name string, onResolve func(model.SymbolInfo), onError func(reason string)) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("resolve panicked", "symbol", name, "panic", r)
			onError(fmt.Sprintf("internal error resolving %q", name))
		}
	}()

	info, err := f.catalog.Resolve(name)
	if err != nil {
		onError(err.Error())
		return
	}
	onResolve(info)
}

// SearchSymbols returns catalog entries matching the query, bounded by the
// catalog's search limit. No match yields an empty slice.
func (f *Datafeed) SearchSymbols(query string) []model.SymbolInfo {
	return f.catalog.Search(query, catalog.DefaultSearchLimit)
}

// GetBars answers a history request for [from, to) at the given resolution.
// The result is a tristate: bars, an explicit no-data marker (unknown symbol
// or unsupported resolution), or an error. Bars come back ascending with no
// duplicate timestamps, every timestamp inside [from, to).
func (f *Datafeed) GetBars(ctx context.Context, symbolInfo model.SymbolInfo, resolution string, from, to int64) (result HistoryResult) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("history request panicked",
				"symbol", symbolInfo.Name,
				"resolution", resolution,
				"panic", r)
			result = errorResult(fmt.Errorf("internal error loading bars for %s", symbolInfo.Name))
		}
	}()

	intervalMs, ok := ResolutionToMs(resolution)
	if !ok {
		// Unsupported resolution is a graceful empty state, not a failure
		return noDataResult()
	}
	if from >= to {
		return noDataResult()
	}

	oneMinBars, err := f.storage.GetBarsRange(ctx, symbolInfo.Name, from, to)
	if err != nil {
		return errorResult(fmt.Errorf("failed to load bars for %s: %w", symbolInfo.Name, err))
	}
	if len(oneMinBars) == 0 {
		return noDataResult()
	}

	bars := aggregateBars(oneMinBars, intervalMs)

	// Aggregation floors bucket timestamps, which can push the first bucket
	// before the requested range. Trim to keep [from, to) strict.
	for len(bars) > 0 && bars[0].Timestamp < from {
		bars = bars[1:]
	}
	if len(bars) == 0 {
		return noDataResult()
	}

	return okResult(bars)
}

// SubscribeBars registers a periodic simulated update for the symbol at the
// given resolution. Subscribing again with the same id replaces the existing
// timer rather than stacking a second one.
func (f *Datafeed) SubscribeBars(symbolInfo model.SymbolInfo, resolution string, onTick func(model.Bar), subscriptionID string) {
	intervalMs, ok := ResolutionToMs(resolution)
	if !ok {
		f.logger.Warn("subscribe with unsupported resolution ignored",
			"symbol", symbolInfo.Name,
			"resolution", resolution,
			"subscription_id", subscriptionID)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		f.logger.Warn("subscribe after destroy ignored", "subscription_id", subscriptionID)
		return
	}

	if cancel, exists := f.subs[subscriptionID]; exists {
		cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.subs[subscriptionID] = cancel

	f.logger.Info("bar subscription started",
		"symbol", symbolInfo.Name,
		"resolution", resolution,
		"subscription_id", subscriptionID)

	go f.runSubscription(ctx, symbolInfo.Name, intervalMs, onTick)
}

// UnsubscribeBars cancels the timer for a subscription id. Unknown ids are
// ignored.
func (f *Datafeed) UnsubscribeBars(subscriptionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cancel, exists := f.subs[subscriptionID]
	if !exists {
		return
	}
	cancel()
	delete(f.subs, subscriptionID)
	f.logger.Info("bar subscription cancelled", "subscription_id", subscriptionID)
}

// Destroy cancels every outstanding subscription and puts the feed in a
// terminal state. Calling it again is a no-op.
func (f *Datafeed) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return
	}
	f.destroyed = true

	for id, cancel := range f.subs {
		cancel()
		delete(f.subs, id)
	}
	f.logger.Info("datafeed destroyed")
}

// ActiveSubscriptions reports how many subscription timers are live
func (f *Datafeed) ActiveSubscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

// runSubscription pushes the current bar for the symbol's active bucket to
// onTick at the feed's tick cadence until cancelled.
func (f *Datafeed) runSubscription(ctx context.Context, symbol string, intervalMs int64, onTick func(model.Bar)) {
	ticker := time.NewTicker(f.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bar, ok := f.currentBar(ctx, symbol, intervalMs)
			if !ok {
				continue
			}
			f.safeTick(symbol, onTick, bar)
		case <-ctx.Done():
			return
		}
	}
}

// currentBar aggregates the 1m bars of the bucket containing the latest tick
// into a single bar at the subscription's resolution.
func (f *Datafeed) currentBar(ctx context.Context, symbol string, intervalMs int64) (model.Bar, bool) {
	latest, found, err := f.storage.GetLatestBar(ctx, symbol)
	if err != nil || !found {
		return model.Bar{}, false
	}

	bucket := (latest.Timestamp / intervalMs) * intervalMs
	oneMinBars, err := f.storage.GetBarsRange(ctx, symbol, bucket, bucket+intervalMs)
	if err != nil || len(oneMinBars) == 0 {
		return model.Bar{}, false
	}

	bars := aggregateBars(oneMinBars, intervalMs)
	return bars[len(bars)-1], true
}

// safeTick shields the timer goroutine from a panicking subscriber callback
func (f *Datafeed) safeTick(symbol string, onTick func(model.Bar), bar model.Bar) {
	defer func() {
		if r := recover(); r != nil {
			f.logger.Error("subscription callback panicked", "symbol", symbol, "panic", r)
		}
	}()
	onTick(bar)
}
