package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// OneMinuteMs is the base bar resolution the store keeps
const OneMinuteMs = 60 * 1000

// BarStorage is the subset of the storage API the ingestion service needs
type BarStorage interface {
	AddBar(symbol string, bar model.Bar) error
	UpdateLastBar(symbol string, bar model.Bar) error
	GetLatestBar(ctx context.Context, symbol string) (model.Bar, bool, error)
}

// BarIngestionService consumes simulated ticks from a channel and maintains
// the current 1-minute bar per symbol in storage.
type BarIngestionService struct {
	storage  BarStorage
	tickChan chan model.Tick
	logger   *slog.Logger
}

// NewBarIngestionService creates a new bar ingestion service
func NewBarIngestionService(storage BarStorage, logger *slog.Logger) *BarIngestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarIngestionService{
		storage:  storage,
		tickChan: make(chan model.Tick, 1000), // buffered to absorb the history burst
		logger:   logger,
	}
}

// Start begins processing ticks from the channel until ctx is cancelled
func (bis *BarIngestionService) Start(ctx context.Context) {
	bis.logger.Info("starting bar ingestion service")

	go func() {
		defer bis.logger.Info("bar ingestion service stopped")

		for {
			select {
			case tick := <-bis.tickChan:
				bis.applyTick(tick)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// applyTick folds one tick into the 1m bar covering its timestamp
func (bis *BarIngestionService) applyTick(tick model.Tick) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	barTimestamp := (tick.Timestamp / OneMinuteMs) * OneMinuteMs

	latest, found, err := bis.storage.GetLatestBar(ctx, tick.Symbol)
	if err != nil {
		bis.logger.Error("failed to read latest bar",
			"symbol", tick.Symbol,
			"error", err)
		return
	}

	if found && latest.Timestamp == barTimestamp {
		bis.updateBar(tick, latest)
	} else {
		bis.openBar(tick, barTimestamp)
	}
}

func (bis *BarIngestionService) openBar(tick model.Tick, barTimestamp int64) {
	bar := model.Bar{
		Timestamp: barTimestamp,
		Open:      tick.Price,
		High:      tick.Price,
		Low:       tick.Price,
		Close:     tick.Price,
		Volume:    tick.Size,
	}

	bis.logger.Debug("opened new 1m bar",
		"symbol", tick.Symbol,
		"timestamp", barTimestamp,
		"price", tick.Price)

	if err := bis.storage.AddBar(tick.Symbol, bar); err != nil {
		bis.logger.Error("failed to store 1m bar",
			"symbol", tick.Symbol,
			"timestamp", barTimestamp,
			"error", err)
	}
}

func (bis *BarIngestionService) updateBar(tick model.Tick, bar model.Bar) {
	if tick.Price > bar.High {
		bar.High = tick.Price
	}
	if tick.Price < bar.Low {
		bar.Low = tick.Price
	}
	bar.Close = tick.Price
	bar.Volume += tick.Size

	if err := bis.storage.UpdateLastBar(tick.Symbol, bar); err != nil {
		bis.logger.Error("failed to update 1m bar",
			"symbol", tick.Symbol,
			"timestamp", bar.Timestamp,
			"error", err)
	}
}

// GetTickChannel returns the channel the generator feeds ticks into
func (bis *BarIngestionService) GetTickChannel() chan<- model.Tick {
	return bis.tickChan
}
