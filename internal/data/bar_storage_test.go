package data

import (
	"context"
	"testing"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

const minuteMs = 60 * 1000

func makeBar(timestamp int64, close float64) model.Bar {
	return model.Bar{
		Timestamp: timestamp,
		Open:      close - 1,
		High:      close + 2,
		Low:       close - 2,
		Close:     close,
		Volume:    10,
	}
}

func TestAddBarAppendsInOrder(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.AddBar("BTC-USD", makeBar(int64(i)*minuteMs, 100+float64(i))); err != nil {
			t.Fatalf("AddBar failed: %v", err)
		}
	}

	bars, err := s.GetBarsRange(ctx, "BTC-USD", 0, 5*minuteMs)
	if err != nil {
		t.Fatalf("GetBarsRange failed: %v", err)
	}
	if len(bars) != 5 {
		t.Fatalf("expected 5 bars, got %d", len(bars))
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			t.Errorf("bars not strictly ascending at index %d", i)
		}
	}
}

func TestAddBarSameTimestampReplaces(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	s.AddBar("BTC-USD", makeBar(0, 100))
	s.AddBar("BTC-USD", makeBar(0, 105))

	bars, _ := s.GetBarsRange(ctx, "BTC-USD", 0, minuteMs)
	if len(bars) != 1 {
		t.Fatalf("expected 1 bar after duplicate timestamp, got %d", len(bars))
	}
	if bars[0].Close != 105 {
		t.Errorf("expected replacement bar close 105, got %v", bars[0].Close)
	}
}

func TestAddBarOutOfOrderInserts(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	s.AddBar("BTC-USD", makeBar(0, 100))
	s.AddBar("BTC-USD", makeBar(2*minuteMs, 102))
	s.AddBar("BTC-USD", makeBar(1*minuteMs, 101))

	bars, _ := s.GetBarsRange(ctx, "BTC-USD", 0, 3*minuteMs)
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	for i, wantClose := range []float64{100, 101, 102} {
		if bars[i].Close != wantClose {
			t.Errorf("bar %d: expected close %v, got %v", i, wantClose, bars[i].Close)
		}
	}
}

func TestUpdateLastBar(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	// No-op when the symbol has no bars
	if err := s.UpdateLastBar("BTC-USD", makeBar(0, 100)); err != nil {
		t.Fatalf("UpdateLastBar on empty symbol failed: %v", err)
	}

	s.AddBar("BTC-USD", makeBar(0, 100))
	s.UpdateLastBar("BTC-USD", makeBar(0, 110))

	bar, found, err := s.GetLatestBar(ctx, "BTC-USD")
	if err != nil || !found {
		t.Fatalf("GetLatestBar failed: found=%v err=%v", found, err)
	}
	if bar.Close != 110 {
		t.Errorf("expected updated close 110, got %v", bar.Close)
	}
}

func TestGetBarsRangeHalfOpen(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		s.AddBar("BTC-USD", makeBar(int64(i)*minuteMs, 100+float64(i)))
	}

	tests := []struct {
		name     string
		from, to int64
		expected int
	}{
		{name: "interior range", from: 2 * minuteMs, to: 5 * minuteMs, expected: 3},
		{name: "from inclusive", from: 0, to: minuteMs, expected: 1},
		{name: "to exclusive", from: 9 * minuteMs, to: 10 * minuteMs, expected: 1},
		{name: "exact upper bound excluded", from: 0, to: 9 * minuteMs, expected: 9},
		{name: "empty range", from: 5 * minuteMs, to: 5 * minuteMs, expected: 0},
		{name: "inverted range", from: 6 * minuteMs, to: 2 * minuteMs, expected: 0},
		{name: "outside data", from: 100 * minuteMs, to: 200 * minuteMs, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bars, err := s.GetBarsRange(ctx, "BTC-USD", tt.from, tt.to)
			if err != nil {
				t.Fatalf("GetBarsRange failed: %v", err)
			}
			if len(bars) != tt.expected {
				t.Fatalf("expected %d bars, got %d", tt.expected, len(bars))
			}
			for _, b := range bars {
				if b.Timestamp < tt.from || b.Timestamp >= tt.to {
					t.Errorf("bar timestamp %d outside [%d, %d)", b.Timestamp, tt.from, tt.to)
				}
			}
		})
	}
}

func TestGetBarsRangeUnknownSymbol(t *testing.T) {
	s := NewInMemoryBarStorage()

	bars, err := s.GetBarsRange(context.Background(), "NOPE-USD", 0, minuteMs)
	if err != nil {
		t.Fatalf("GetBarsRange failed: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars for unknown symbol, got %d", len(bars))
	}
}

func TestGetBarsRangeReturnsCopy(t *testing.T) {
	s := NewInMemoryBarStorage()
	ctx := context.Background()

	s.AddBar("BTC-USD", makeBar(0, 100))

	bars, _ := s.GetBarsRange(ctx, "BTC-USD", 0, minuteMs)
	bars[0].Close = 999

	again, _ := s.GetBarsRange(ctx, "BTC-USD", 0, minuteMs)
	if again[0].Close == 999 {
		t.Error("mutating the returned slice leaked into storage")
	}
}

func TestMaxBarsPerSymbolTrimming(t *testing.T) {
	s := NewInMemoryBarStorageWithConfig(StorageConfig{MaxBarsPerSymbol: 3})
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		s.AddBar("BTC-USD", makeBar(int64(i)*minuteMs, 100+float64(i)))
	}

	bars, _ := s.GetBarsRange(ctx, "BTC-USD", 0, 6*minuteMs)
	if len(bars) != 3 {
		t.Fatalf("expected trim to 3 bars, got %d", len(bars))
	}
	if bars[0].Timestamp != 3*minuteMs {
		t.Errorf("expected oldest surviving bar at %d, got %d", 3*minuteMs, bars[0].Timestamp)
	}
}
