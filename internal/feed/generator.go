package feed

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// GeneratorConfig holds configuration for the demo tick generator
type GeneratorConfig struct {
	Symbols      []model.SymbolInfo
	BasePrices   map[string]float64
	Interval     time.Duration
	Volatility   float64
	HistoryHours int
	Seed         int64
}

// DefaultGeneratorConfig returns a sensible default configuration
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Interval:     2 * time.Second,
		Volatility:   0.01, // 1% volatility
		HistoryHours: 6,
	}
}

// TickGenerator produces simulated trade ticks for the catalog symbols and
// sends them to a channel: a burst of historical ticks at startup, then a
// live random walk at the configured cadence.
type TickGenerator struct {
	tickChan   chan<- model.Tick
	config     GeneratorConfig
	basePrice  map[string]float64
	priceScale map[string]int32
	rng        *rand.Rand
}

// NewTickGenerator creates a new tick generator with the given config
func NewTickGenerator(tickChan chan<- model.Tick, config GeneratorConfig) *TickGenerator {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	basePrice := make(map[string]float64, len(config.Symbols))
	priceScale := make(map[string]int32, len(config.Symbols))
	for _, s := range config.Symbols {
		price, ok := config.BasePrices[s.Name]
		if !ok {
			price = 100.0
		}
		basePrice[s.Name] = price
		priceScale[s.Name] = int32(s.PriceScale)
	}

	return &TickGenerator{
		tickChan:   tickChan,
		config:     config,
		basePrice:  basePrice,
		priceScale: priceScale,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// Start seeds historical ticks, then begins live generation in a goroutine.
func (g *TickGenerator) Start(ctx context.Context) {
	g.generateHistory(ctx)
	go g.generateLive(ctx)
}

// generateHistory emits ticks covering the configured history window,
// minute by minute, in chronological order per symbol.
func (g *TickGenerator) generateHistory(ctx context.Context) {
	now := time.Now().UnixMilli()
	minutes := g.config.HistoryHours * 60

	for _, symbol := range g.config.Symbols {
		price := g.basePrice[symbol.Name]

		for i := 0; i < minutes; i++ {
			minuteTimestamp := now - int64(minutes-i)*60_000

			numTicks := 1 + g.rng.Intn(6)
			seconds := make([]int, numTicks)
			for k := range seconds {
				seconds[k] = g.rng.Intn(60)
			}
			// Chronological order within the minute
			sort.Ints(seconds)

			for _, sec := range seconds {
				tick := g.randomTick(symbol.Name, price, minuteTimestamp+int64(sec)*1000)

				select {
				case g.tickChan <- tick:
				case <-ctx.Done():
					return
				}

				// Walk the price so history trends
				price = tick.Price
			}
		}

		g.basePrice[symbol.Name] = price
	}
}

// generateLive emits one tick per symbol per interval until the context is
// cancelled.
func (g *TickGenerator) generateLive(ctx context.Context) {
	ticker := time.NewTicker(g.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			for _, symbol := range g.config.Symbols {
				tick := g.randomTick(symbol.Name, g.basePrice[symbol.Name], time.Now().UnixMilli())

				select {
				case g.tickChan <- tick:
				case <-ctx.Done():
					return
				}

				g.basePrice[symbol.Name] = tick.Price
			}
		case <-ctx.Done():
			return
		}
	}
}

func (g *TickGenerator) randomTick(symbol string, price float64, timestamp int64) model.Tick {
	variation := g.rng.NormFloat64() * g.config.Volatility * price
	tickPrice := price + variation
	if tickPrice <= 0 {
		tickPrice = price * 0.99
	}

	return model.Tick{
		Symbol:    symbol,
		Price:     g.roundToScale(symbol, tickPrice),
		Size:      0.1 + g.rng.Float64()*0.5,
		Timestamp: timestamp,
	}
}

// roundToScale quantizes a price to the symbol's pricing precision so the
// generated series matches what the catalog advertises.
func (g *TickGenerator) roundToScale(symbol string, price float64) float64 {
	scale, ok := g.priceScale[symbol]
	if !ok {
		return price
	}
	rounded, _ := decimal.NewFromFloat(price).Round(scale).Float64()
	return rounded
}
