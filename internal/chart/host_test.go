package chart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/broker"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// fakeEngine records lifecycle calls
type fakeEngine struct {
	mu            sync.Mutex
	removed       int
	snapshots     int
	rejectBroker  bool
	failOnRemove  bool
	lastSnapshot  model.BrokerSnapshot
}

func (e *fakeEngine) Remove() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removed++
	if e.failOnRemove {
		return errors.New("already removed")
	}
	return nil
}

func (e *fakeEngine) SetBrokerAccounts(snapshot model.BrokerSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.rejectBroker {
		return errors.New("broker payload rejected")
	}
	e.snapshots++
	e.lastSnapshot = snapshot
	return nil
}

func (e *fakeEngine) removeCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removed
}

func (e *fakeEngine) snapshotCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshots
}

// fakeFeed only tracks Destroy calls
type fakeFeed struct {
	mu       sync.Mutex
	destroys int
}

func (f *fakeFeed) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroys++
}

func (f *fakeFeed) destroyCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.destroys
}

func immediateReady(engine Engine) CreateChartFunc {
	return func(ctx context.Context, opts Options, onReady func(Engine)) error {
		go onReady(engine)
		return nil
	}
}

func testSnapshot() model.BrokerSnapshot {
	return broker.NewDemoSnapshot([]model.SymbolInfo{{Name: "BTC-USD"}})
}

func testOptions(feed Datafeed) Options {
	return Options{
		Symbol:        "BTC-USD",
		Interval:      "1",
		Theme:         "dark",
		EnableTrading: true,
		Datafeed:      feed,
	}
}

func TestMountAppliesBrokerSnapshotOnReady(t *testing.T) {
	engine := &fakeEngine{}
	host := NewHost(immediateReady(engine), testOptions(&fakeFeed{}), testSnapshot(), nil)

	err := host.Mount(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, StatusReady, host.Status())
	assert.Equal(t, 1, engine.snapshotCount(), "broker snapshot applied exactly once")
}

func TestMountSkipsBrokerWhenTradingDisabled(t *testing.T) {
	engine := &fakeEngine{}
	opts := testOptions(&fakeFeed{})
	opts.EnableTrading = false
	host := NewHost(immediateReady(engine), opts, testSnapshot(), nil)

	err := host.Mount(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, StatusReady, host.Status())
	assert.Equal(t, 0, engine.snapshotCount())
}

func TestMountCreateFailure(t *testing.T) {
	create := func(ctx context.Context, opts Options, onReady func(Engine)) error {
		return errors.New("container not found")
	}
	host := NewHost(create, testOptions(&fakeFeed{}), testSnapshot(), nil)

	err := host.Mount(context.Background())

	assert.Error(t, err)
	assert.Equal(t, StatusInitFailed, host.Status())
}

func TestMountTimesOutWithoutReadySignal(t *testing.T) {
	create := func(ctx context.Context, opts Options, onReady func(Engine)) error {
		return nil // never signals ready
	}
	host := NewHost(create, testOptions(&fakeFeed{}), testSnapshot(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := host.Mount(ctx)

	assert.Error(t, err)
	assert.Equal(t, StatusInitFailed, host.Status())
}

func TestMountReadyBeatsCancelledContext(t *testing.T) {
	engine := &fakeEngine{}
	create := func(ctx context.Context, opts Options, onReady func(Engine)) error {
		onReady(engine) // ready fires before Mount ever gets to wait
		return nil
	}
	host := NewHost(create, testOptions(&fakeFeed{}), testSnapshot(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Whichever branch the race picks, an installed engine must never be
	// reported as an init failure.
	err := host.Mount(ctx)

	assert.NoError(t, err)
	assert.Equal(t, StatusReady, host.Status())
	assert.Equal(t, 1, engine.snapshotCount())
	assert.Equal(t, 0, engine.removeCount())

	host.Close()
	assert.Equal(t, 1, engine.removeCount())
}

func TestEngineRejectsBrokerSnapshotIsNonFatal(t *testing.T) {
	engine := &fakeEngine{rejectBroker: true}
	host := NewHost(immediateReady(engine), testOptions(&fakeFeed{}), testSnapshot(), nil)

	err := host.Mount(context.Background())

	assert.NoError(t, err, "broker failure degrades to a status, not an error")
	assert.Equal(t, StatusBrokerError, host.Status())
}

func TestMalformedSnapshotIsNonFatal(t *testing.T) {
	engine := &fakeEngine{}
	host := NewHost(immediateReady(engine), testOptions(&fakeFeed{}), model.BrokerSnapshot{}, nil)

	err := host.Mount(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, StatusBrokerError, host.Status())
	assert.Equal(t, 0, engine.snapshotCount(), "invalid snapshot never reaches the engine")
}

func TestCloseIsIdempotent(t *testing.T) {
	engine := &fakeEngine{}
	feed := &fakeFeed{}
	host := NewHost(immediateReady(engine), testOptions(feed), testSnapshot(), nil)

	assert.NoError(t, host.Mount(context.Background()))

	host.Close()
	host.Close()

	assert.Equal(t, StatusClosed, host.Status())
	assert.Equal(t, 1, engine.removeCount(), "engine removed once despite double close")
	assert.Equal(t, 1, feed.destroyCount(), "datafeed destroyed once despite double close")
}

func TestCloseToleratesRemoveFailure(t *testing.T) {
	engine := &fakeEngine{failOnRemove: true}
	feed := &fakeFeed{}
	host := NewHost(immediateReady(engine), testOptions(feed), testSnapshot(), nil)

	assert.NoError(t, host.Mount(context.Background()))
	assert.NotPanics(t, func() { host.Close() })
	assert.Equal(t, 1, feed.destroyCount(), "feed still destroyed when engine removal fails")
}

func TestReadyAfterCloseRemovesLateInstance(t *testing.T) {
	engine := &fakeEngine{}
	readyFn := make(chan func(Engine), 1)
	create := func(ctx context.Context, opts Options, onReady func(Engine)) error {
		readyFn <- onReady
		return nil
	}
	host := NewHost(create, testOptions(&fakeFeed{}), testSnapshot(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	mountDone := make(chan error, 1)
	go func() { mountDone <- host.Mount(ctx) }()

	onReady := <-readyFn
	host.Close()
	cancel()
	<-mountDone

	// The engine becomes ready only after the host was torn down
	onReady(engine)

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && engine.removeCount() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1, engine.removeCount(), "late-ready instance must be removed, not installed")
	assert.Equal(t, 0, engine.snapshotCount(), "no callback reaches a disposed chart")
}

func TestDemoCreateChartSignalsReady(t *testing.T) {
	create := NewDemoCreateChart(nil)
	host := NewHost(create, testOptions(&fakeFeed{}), testSnapshot(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, host.Mount(ctx))
	assert.Equal(t, StatusReady, host.Status())
	host.Close()
}

func TestDemoCreateChartRequiresSymbol(t *testing.T) {
	create := NewDemoCreateChart(nil)
	opts := testOptions(&fakeFeed{})
	opts.Symbol = ""
	host := NewHost(create, opts, testSnapshot(), nil)

	err := host.Mount(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StatusInitFailed, host.Status())
}
