package chart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/broker"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// Status strings surfaced to the user while the chart mounts and runs
const (
	StatusMounting    = "loading chart..."
	StatusReady       = "chart ready"
	StatusBrokerError = "chart ready (failed to load broker data)"
	StatusInitFailed  = "failed to initialize chart"
	StatusClosed      = "chart closed"
)

// Engine is the surface of the external charting SDK instance the host
// interacts with. The SDK itself is an external collaborator; nothing here
// reimplements it.
type Engine interface {
	Remove() error
	SetBrokerAccounts(snapshot model.BrokerSnapshot) error
}

// Datafeed is what the host needs from the feed at teardown time. The
// engine consumes the full callback contract; the host only owns cleanup.
type Datafeed interface {
	Destroy()
}

// Options configures a chart mount
type Options struct {
	Symbol        string
	Interval      string
	Theme         string
	EnableTrading bool
	Datafeed      Datafeed
}

// CreateChartFunc mounts the external engine and invokes onReady exactly
// once, asynchronously, after a successful mount.
type CreateChartFunc func(ctx context.Context, opts Options, onReady func(Engine)) error

// Host owns the chart engine lifecycle: mount, explicit ready signal,
// broker snapshot application, status reporting, and idempotent teardown.
// The ready signal replaces the fixed-delay-then-hope initialization the
// demo page originally used.
type Host struct {
	create   CreateChartFunc
	opts     Options
	snapshot model.BrokerSnapshot
	logger   *slog.Logger

	mu     sync.Mutex
	engine Engine
	status string
	closed bool
	failed bool
}

// NewHost creates a chart host. The broker snapshot is applied once the
// engine signals ready, provided trading is enabled.
func NewHost(create CreateChartFunc, opts Options, snapshot model.BrokerSnapshot, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{
		create:   create,
		opts:     opts,
		snapshot: snapshot,
		logger:   logger,
		status:   StatusMounting,
	}
}

// Mount starts the engine and blocks until it signals ready or ctx ends.
// Initialization failure is non-fatal: it degrades to a status string and
// an error return, with no retry.
func (h *Host) Mount(ctx context.Context) error {
	done := make(chan error, 1)
	var once sync.Once

	// The ready callback does the installation itself, so a signal arriving
	// after Mount has given up still hits the disposed-instance guard.
	err := h.create(ctx, h.opts, func(engine Engine) {
		once.Do(func() { done <- h.onReady(engine) })
	})
	if err != nil {
		h.setStatus(StatusInitFailed)
		return fmt.Errorf("chart initialization failed: %w", err)
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The ready signal can race the cancellation. onReady installs the
		// engine under the lock before it reports, so holding the lock here
		// gives a clean either/or: engine installed means ready won.
		h.mu.Lock()
		if h.engine != nil {
			h.mu.Unlock()
			return <-done
		}
		h.failed = true
		if !h.closed {
			h.status = StatusInitFailed
		}
		h.mu.Unlock()
		return fmt.Errorf("chart did not become ready: %w", ctx.Err())
	}
}

// onReady installs the engine and applies the broker snapshot. If the host
// was closed (or the mount already given up on) while the engine was coming
// up, the late instance is torn down immediately instead of being installed.
func (h *Host) onReady(engine Engine) error {
	h.mu.Lock()
	if h.closed || h.failed {
		h.mu.Unlock()
		h.logger.Info("chart became ready after teardown, removing")
		if err := engine.Remove(); err != nil {
			h.logger.Error("failed to remove late chart instance", "error", err)
		}
		return nil
	}
	h.engine = engine
	h.mu.Unlock()

	h.logger.Info("chart ready", "symbol", h.opts.Symbol, "interval", h.opts.Interval)

	if !h.opts.EnableTrading {
		h.setStatus(StatusReady)
		return nil
	}

	if err := h.applyBrokerSnapshot(engine); err != nil {
		// Broker data is cosmetic for the demo; the chart stays up
		h.logger.Error("failed to apply broker snapshot", "error", err)
		h.setStatus(StatusBrokerError)
		return nil
	}

	h.setStatus(StatusReady)
	return nil
}

func (h *Host) applyBrokerSnapshot(engine Engine) error {
	if err := broker.Validate(h.snapshot); err != nil {
		return fmt.Errorf("broker snapshot rejected: %w", err)
	}
	if err := engine.SetBrokerAccounts(h.snapshot); err != nil {
		return fmt.Errorf("engine rejected broker snapshot: %w", err)
	}
	return nil
}

// Status returns the current user-visible status string
func (h *Host) Status() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *Host) setStatus(status string) {
	h.mu.Lock()
	h.status = status
	h.mu.Unlock()
}

// Close tears the chart down: removes the engine instance and destroys the
// datafeed so no timer fires against a disposed chart. Safe to call more
// than once; later calls are no-ops.
func (h *Host) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	engine := h.engine
	h.engine = nil
	h.status = StatusClosed
	h.mu.Unlock()

	if engine != nil {
		if err := engine.Remove(); err != nil {
			// Removing an already-removed instance is benign
			h.logger.Error("failed to remove chart instance", "error", err)
		}
	}

	if h.opts.Datafeed != nil {
		h.opts.Datafeed.Destroy()
	}
	h.logger.Info("chart host closed")
}
