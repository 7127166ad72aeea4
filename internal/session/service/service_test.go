package service

import (
	"context"
	"testing"
	"time"

	"crypto-rush/internal/clock"
	"crypto-rush/internal/game"
)

func testData() *game.Data {
	return &game.Data{
		StartBalance: 10000,
		Duration:     3,
		Assets: []game.Asset{
			{
				Symbol: "BTC",
				Name:   "Bitcoin",
				Prices: []game.PricePoint{{Price: 100}, {Price: 110}, {Price: 90}},
			},
		},
	}
}

// settle lets the run goroutine drain pending ticker fires and commands.
func settle() { time.Sleep(20 * time.Millisecond) }

func startService(t *testing.T) (*Service, *clock.Manual) {
	t.Helper()
	clk := clock.NewManual()
	svc := NewService(DefaultConfig(), clk)
	t.Cleanup(svc.Close)

	if err := svc.Start(context.Background(), testData()); err != nil {
		t.Fatalf("start: %v", err)
	}
	return svc, clk
}

func TestStartTransitionsToRunning(t *testing.T) {
	svc, _ := startService(t)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.Phase != PhaseRunning {
		t.Errorf("expected running, got %v", snap.Phase)
	}
	if snap.Balance != 10000 {
		t.Errorf("expected balance 10000, got %v", snap.Balance)
	}
	if snap.Prices["BTC"] != 100 {
		t.Errorf("expected initial price 100, got %v", snap.Prices["BTC"])
	}
	if snap.TimeLeft != 3 {
		t.Errorf("expected time left 3, got %d", snap.TimeLeft)
	}
}

func TestStartTwiceRejected(t *testing.T) {
	svc, _ := startService(t)

	if err := svc.Start(context.Background(), testData()); err != ErrBadPhase {
		t.Errorf("expected ErrBadPhase, got %v", err)
	}
}

func TestTickAdvancesReplay(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	clk.Advance(time.Second)
	settle()

	snap, _ := svc.Snapshot(ctx)
	if snap.TickIndex != 1 {
		t.Errorf("expected tick index 1, got %d", snap.TickIndex)
	}
	if snap.Prices["BTC"] != 100 {
		t.Errorf("expected price 100 at tick 0, got %v", snap.Prices["BTC"])
	}

	clk.Advance(time.Second)
	settle()

	snap, _ = svc.Snapshot(ctx)
	if snap.Prices["BTC"] != 110 {
		t.Errorf("expected price 110 at tick 1, got %v", snap.Prices["BTC"])
	}
}

func TestTradeScenario(t *testing.T) {
	clk := clock.NewManual()
	data := testData()
	// One spare tick so the sell lands before the countdown ends the game.
	data.Duration = 4
	data.Assets[0].Prices = append(data.Assets[0].Prices, game.PricePoint{Price: 95})

	svc := NewService(DefaultConfig(), clk)
	defer svc.Close()
	ctx := context.Background()

	if err := svc.Start(ctx, data); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Advance(time.Second)
	settle()

	trade, ok, err := svc.Buy(ctx, "BTC")
	if err != nil || !ok {
		t.Fatalf("buy failed: ok=%v err=%v", ok, err)
	}
	if trade.Price != 100 {
		t.Errorf("expected buy at 100, got %v", trade.Price)
	}

	snap, _ := svc.Snapshot(ctx)
	if snap.Balance != 9900 {
		t.Errorf("expected balance 9900, got %v", snap.Balance)
	}
	if snap.Portfolio["BTC"] != 1 {
		t.Errorf("expected 1 BTC held, got %d", snap.Portfolio["BTC"])
	}

	clk.Advance(time.Second)
	settle()

	snap, _ = svc.Snapshot(ctx)
	if snap.TotalValue != 10010 {
		t.Errorf("expected total value 10010, got %v", snap.TotalValue)
	}

	clk.Advance(time.Second)
	settle()

	if _, ok, _ := svc.Sell(ctx, "BTC"); !ok {
		t.Fatal("sell rejected")
	}
	snap, _ = svc.Snapshot(ctx)
	if snap.Balance != 9990 {
		t.Errorf("expected balance 9990 after sell at 90, got %v", snap.Balance)
	}
}

func TestInvalidTradesAreSilentNoOps(t *testing.T) {
	clk := clock.NewManual()
	data := testData()
	data.StartBalance = 50
	svc := NewService(DefaultConfig(), clk)
	defer svc.Close()
	ctx := context.Background()

	if err := svc.Start(ctx, data); err != nil {
		t.Fatalf("start: %v", err)
	}
	clk.Advance(time.Second)
	settle()

	if _, ok, _ := svc.Buy(ctx, "BTC"); ok {
		t.Error("buy with balance 50 against price 100 should be rejected")
	}
	if _, ok, _ := svc.Sell(ctx, "BTC"); ok {
		t.Error("sell with no holdings should be rejected")
	}

	snap, _ := svc.Snapshot(ctx)
	if snap.Balance != 50 || snap.Trades != 0 {
		t.Errorf("state changed by rejected trades: balance=%v trades=%d", snap.Balance, snap.Trades)
	}
}

func TestCountdownEndsSession(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		settle()
	}

	snap, _ := svc.Snapshot(ctx)
	if snap.Phase != PhaseEnded {
		t.Fatalf("expected ended, got %v", snap.Phase)
	}

	res, err := svc.Result(ctx)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	// No trades: final balance equals start balance.
	if res.FinalBalance != 10000 || res.Profit != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestSettlementLiquidatesHoldings(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	clk.Advance(time.Second)
	settle()
	svc.Buy(ctx, "BTC")

	for i := 0; i < 2; i++ {
		clk.Advance(time.Second)
		settle()
	}

	res, err := svc.Result(ctx)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	// Bought at 100, settled at 90: 9900 + 90.
	if res.FinalBalance != 9990 {
		t.Errorf("expected final balance 9990, got %v", res.FinalBalance)
	}
	if res.Profit != -10 {
		t.Errorf("expected profit -10, got %v", res.Profit)
	}
	if res.Trades != 1 {
		t.Errorf("expected 1 trade, got %d", res.Trades)
	}
}

func TestNoGhostTicksAfterEnd(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		settle()
	}
	before, _ := svc.Snapshot(ctx)

	// Further advances must not move the ended session.
	clk.Advance(10 * time.Second)
	settle()

	after, _ := svc.Snapshot(ctx)
	if after.TickIndex != before.TickIndex {
		t.Errorf("tick index moved after end: %d -> %d", before.TickIndex, after.TickIndex)
	}
	if after.Balance != before.Balance {
		t.Errorf("balance moved after end: %v -> %v", before.Balance, after.Balance)
	}
	if after.Phase != PhaseEnded {
		t.Errorf("phase changed after end: %v", after.Phase)
	}
}

func TestTradesRejectedAfterEnd(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		settle()
	}

	if _, ok, _ := svc.Buy(ctx, "BTC"); ok {
		t.Error("buy accepted after session end")
	}
}

func TestChartWindowAndMarkers(t *testing.T) {
	clk := clock.NewManual()
	cfg := DefaultConfig()
	cfg.ChartWindow = 2

	data := testData()
	svc := NewService(cfg, clk)
	defer svc.Close()
	ctx := context.Background()

	if err := svc.Start(ctx, data); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Advance(time.Second)
	settle()
	svc.Buy(ctx, "BTC")

	for i := 0; i < 2; i++ {
		clk.Advance(time.Second)
		settle()
	}

	snap, ok, err := svc.Chart(ctx, "BTC")
	if err != nil || !ok {
		t.Fatalf("chart: ok=%v err=%v", ok, err)
	}
	if len(snap.Series) > 2 {
		t.Errorf("series exceeds window: %d", len(snap.Series))
	}
	oldest := snap.Series[0].Tick
	for _, b := range snap.Buys {
		if b.Tick < oldest {
			t.Errorf("buy marker at %d outside window starting %d", b.Tick, oldest)
		}
	}
}

func TestRestartResetsEverything(t *testing.T) {
	svc, clk := startService(t)
	ctx := context.Background()

	clk.Advance(time.Second)
	settle()
	svc.Buy(ctx, "BTC")

	before, _ := svc.Snapshot(ctx)

	if err := svc.Restart(ctx); err != nil {
		t.Fatalf("restart: %v", err)
	}

	snap, _ := svc.Snapshot(ctx)
	if snap.Phase != PhaseLoading {
		t.Errorf("expected loading after restart, got %v", snap.Phase)
	}
	if snap.Generation == before.Generation {
		t.Error("generation token must change on restart")
	}
	if snap.Balance != 0 || snap.Trades != 0 {
		t.Errorf("state not discarded: %+v", snap)
	}

	// Old tickers are cancelled: advancing time must not tick anything.
	clk.Advance(10 * time.Second)
	settle()
	snap, _ = svc.Snapshot(ctx)
	if snap.TickIndex != 0 {
		t.Errorf("ghost ticks after restart: %d", snap.TickIndex)
	}

	// A fresh Start is accepted.
	if err := svc.Start(ctx, testData()); err != nil {
		t.Fatalf("restart then start: %v", err)
	}
	snap, _ = svc.Snapshot(ctx)
	if snap.Phase != PhaseRunning || snap.Balance != 10000 {
		t.Errorf("fresh session not initialized: %+v", snap)
	}
}

func TestFlavorEventsOnlyWhileRunning(t *testing.T) {
	clk := clock.NewManual()
	cfg := DefaultConfig()
	cfg.Seed = 42

	data := testData()
	data.Duration = 60
	data.Assets[0].Prices = make([]game.PricePoint, 60)
	for i := range data.Assets[0].Prices {
		data.Assets[0].Prices[i] = game.PricePoint{Price: 100}
	}

	svc := NewService(cfg, clk)
	defer svc.Close()
	ctx := context.Background()

	if err := svc.Start(ctx, data); err != nil {
		t.Fatalf("start: %v", err)
	}

	clk.Advance(25 * time.Second)
	settle()

	if svc.Feed().Count() == 0 {
		t.Error("expected a flavor item after 25s")
	}
}

func TestEventsEmitted(t *testing.T) {
	svc, clk := startService(t)
	events := svc.Events()

	// Drain the initial phase event.
	waitEvent := func(want EventType) Event {
		t.Helper()
		deadline := time.After(time.Second)
		for {
			select {
			case ev := <-events:
				if ev.Type == want {
					return ev
				}
			case <-deadline:
				t.Fatalf("timed out waiting for event %d", want)
			}
		}
	}

	waitEvent(EventPhase)

	clk.Advance(time.Second)
	ev := waitEvent(EventTick)
	if len(ev.Updates) != 1 || ev.Updates[0].Price != 100 {
		t.Errorf("unexpected tick event %+v", ev)
	}
	waitEvent(EventTimer)
}
