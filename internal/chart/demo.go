package chart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// demoEngine is a headless stand-in for the external charting SDK instance
// so the demo binary can exercise the full mount/ready/teardown flow without
// the real engine present.
type demoEngine struct {
	logger *slog.Logger

	mu      sync.Mutex
	removed bool
}

func (e *demoEngine) Remove() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return errors.New("chart instance already removed")
	}
	e.removed = true
	e.logger.Info("demo chart instance removed")
	return nil
}

func (e *demoEngine) SetBrokerAccounts(snapshot model.BrokerSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return errors.New("chart instance is disposed")
	}
	e.logger.Info("demo chart received broker snapshot",
		"accounts", len(snapshot.Accounts),
		"orders", len(snapshot.Orders),
		"positions", len(snapshot.Positions))
	return nil
}

// NewDemoCreateChart returns a CreateChartFunc that mounts a headless demo
// engine and signals ready asynchronously, mimicking the SDK's onReady.
func NewDemoCreateChart(logger *slog.Logger) CreateChartFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, opts Options, onReady func(Engine)) error {
		if opts.Symbol == "" {
			return errors.New("no symbol configured for chart")
		}
		engine := &demoEngine{logger: logger}
		go func() {
			select {
			case <-ctx.Done():
			default:
				onReady(engine)
			}
		}()
		return nil
	}
}
