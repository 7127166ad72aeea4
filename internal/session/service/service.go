// Package service runs the session lifecycle: one goroutine owns the game
// state, the chart trackers, and the three periodic activities (replay
// tick, countdown timer, flavor events). Trades and reads are commands
// serialized through that goroutine, so a tick's price update and its
// valuation recompute always complete before any trade can observe them.
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"crypto-rush/internal/chart"
	"crypto-rush/internal/clock"
	"crypto-rush/internal/game"
	"crypto-rush/internal/news"
	"crypto-rush/internal/session"
)

var (
	ErrClosed   = errors.New("session service closed")
	ErrBadPhase = errors.New("operation not valid in current phase")
)

type cmdType int

const (
	cmdStart cmdType = iota
	cmdBuy
	cmdSell
	cmdSnapshot
	cmdChart
	cmdResult
	cmdRestart
)

type command struct {
	typ    cmdType
	data   *game.Data
	symbol string
	respCh chan<- response
}

type response struct {
	trade    session.Trade
	ok       bool
	snapshot Snapshot
	chart    chart.Snapshot
	result   Result
	err      error
}

// Service is the session lifecycle controller.
type Service struct {
	cfg Config
	clk clock.Clock
	rng *rand.Rand

	// Owned by the run goroutine.
	phase      Phase
	generation uuid.UUID
	state      *session.State
	charts     map[string]*chart.Tracker
	result     Result

	tickTk   clock.Ticker
	timerTk  clock.Ticker
	flavorTk clock.Ticker

	feed *news.Feed

	cmdCh         chan command
	events        chan Event
	droppedEvents atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewService creates a session service in the Loading phase.
func NewService(cfg Config, clk clock.Clock) *Service {
	def := DefaultConfig()
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = def.TickInterval
	}
	if cfg.TimerInterval <= 0 {
		cfg.TimerInterval = def.TimerInterval
	}
	if cfg.FlavorInterval <= 0 {
		cfg.FlavorInterval = def.FlavorInterval
	}
	if cfg.ChartWindow <= 0 {
		cfg.ChartWindow = def.ChartWindow
	}
	if cfg.FeedCapacity <= 0 {
		cfg.FeedCapacity = def.FeedCapacity
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = def.EventBuffer
	}
	if clk == nil {
		clk = clock.Real()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Service{
		cfg:        cfg,
		clk:        clk,
		rng:        rand.New(rand.NewSource(seed)),
		phase:      PhaseLoading,
		generation: uuid.New(),
		feed:       news.NewFeed(cfg.FeedCapacity),
		cmdCh:      make(chan command, 64),
		events:     make(chan Event, cfg.EventBuffer),
		closed:     make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

func (s *Service) run() {
	defer s.wg.Done()
	defer close(s.events)
	defer s.stopTimers()

	for {
		var tickC, timerC, flavorC <-chan time.Time
		if s.tickTk != nil {
			tickC = s.tickTk.C()
		}
		if s.timerTk != nil {
			timerC = s.timerTk.C()
		}
		if s.flavorTk != nil {
			flavorC = s.flavorTk.C()
		}

		select {
		case <-s.closed:
			return
		case cmd := <-s.cmdCh:
			s.handleCommand(cmd)
		case <-tickC:
			s.handleTick()
		case <-timerC:
			// Pending replay ticks apply before the countdown so a tick's
			// price update is never observed after the settlement it
			// should have preceded.
			s.drainTicks(tickC)
			s.handleTimer()
		case <-flavorC:
			s.handleFlavor()
		}
	}
}

func (s *Service) drainTicks(tickC <-chan time.Time) {
	for {
		select {
		case <-tickC:
			s.handleTick()
		default:
			return
		}
	}
}

func (s *Service) handleCommand(cmd command) {
	var resp response

	switch cmd.typ {
	case cmdStart:
		resp.err = s.handleStart(cmd.data)
	case cmdBuy:
		resp.trade, resp.ok = s.handleBuy(cmd.symbol)
	case cmdSell:
		resp.trade, resp.ok = s.handleSell(cmd.symbol)
	case cmdSnapshot:
		resp.snapshot = s.buildSnapshot()
	case cmdChart:
		if tr, ok := s.charts[cmd.symbol]; ok {
			resp.chart = tr.Snapshot()
			resp.ok = true
		}
	case cmdResult:
		if s.phase == PhaseEnded {
			resp.result = s.result
			resp.ok = true
		} else {
			resp.err = ErrBadPhase
		}
	case cmdRestart:
		s.handleRestart()
	}

	if cmd.respCh != nil {
		cmd.respCh <- resp
	}
}

func (s *Service) handleStart(data *game.Data) error {
	if s.phase != PhaseLoading {
		return ErrBadPhase
	}

	s.state = session.NewState(data)
	s.state.Running = true
	s.charts = make(map[string]*chart.Tracker, len(data.Assets))
	for _, a := range data.Assets {
		s.charts[a.Symbol] = chart.NewTracker(s.cfg.ChartWindow)
	}
	s.result = Result{}
	s.phase = PhaseRunning

	s.tickTk = s.clk.NewTicker(s.cfg.TickInterval)
	s.timerTk = s.clk.NewTicker(s.cfg.TimerInterval)
	s.flavorTk = s.clk.NewTicker(s.cfg.FlavorInterval)

	s.emit(Event{Type: EventPhase, Phase: PhaseRunning})
	return nil
}

func (s *Service) handleTick() {
	if s.phase != PhaseRunning {
		return
	}

	updates := s.state.AdvanceTick()
	if len(updates) == 0 {
		return
	}
	for _, u := range updates {
		if tr, ok := s.charts[u.Symbol]; ok {
			tr.Append(u.Tick, u.Price)
		}
	}
	s.emit(Event{Type: EventTick, Updates: updates, TotalValue: s.state.TotalValue()})
}

func (s *Service) handleTimer() {
	if s.phase != PhaseRunning {
		return
	}

	s.state.TimeLeft--
	s.emit(Event{Type: EventTimer, TimeLeft: s.state.TimeLeft})

	if s.state.TimeLeft <= 0 {
		s.endGame()
	}
}

func (s *Service) handleFlavor() {
	if s.phase != PhaseRunning {
		return
	}

	item := news.Random(s.rng)
	s.feed.Add(item)
	s.emit(Event{Type: EventFlavor, Item: item})
}

func (s *Service) handleBuy(symbol string) (session.Trade, bool) {
	if s.phase != PhaseRunning {
		return session.Trade{}, false
	}

	trade, ok := s.state.Buy(symbol)
	if !ok {
		return session.Trade{}, false
	}
	if tr, found := s.charts[symbol]; found {
		tr.MarkBuy(trade.Tick, trade.Price)
	}
	s.feed.Add(news.TradeItem("Bought", symbol, trade.Price))
	s.emit(Event{Type: EventTrade, Trade: trade, TotalValue: s.state.TotalValue()})
	return trade, true
}

func (s *Service) handleSell(symbol string) (session.Trade, bool) {
	if s.phase != PhaseRunning {
		return session.Trade{}, false
	}

	trade, ok := s.state.Sell(symbol)
	if !ok {
		return session.Trade{}, false
	}
	if tr, found := s.charts[symbol]; found {
		tr.MarkSell(trade.Tick, trade.Price)
	}
	s.feed.Add(news.TradeItem("Sold", symbol, trade.Price))
	s.emit(Event{Type: EventTrade, Trade: trade, TotalValue: s.state.TotalValue()})
	return trade, true
}

// endGame halts all periodic activity and settles the portfolio.
func (s *Service) endGame() {
	s.stopTimers()

	final := s.state.Settle()
	s.result = Result{
		FinalBalance: final,
		Profit:       final - s.state.Data().StartBalance,
		Trades:       s.state.Trades,
	}
	s.phase = PhaseEnded
	s.emit(Event{Type: EventEnded, Result: s.result})
}

func (s *Service) handleRestart() {
	s.stopTimers()
	s.phase = PhaseRestarting
	s.emit(Event{Type: EventPhase, Phase: PhaseRestarting})

	// Discard all session state; the next Start recreates it. A fresh
	// generation token lets callers drop responses of network calls that
	// were issued under the old session.
	s.state = nil
	s.charts = nil
	s.result = Result{}
	s.feed.Reset()
	s.generation = uuid.New()

	s.phase = PhaseLoading
	s.emit(Event{Type: EventPhase, Phase: PhaseLoading})
}

func (s *Service) stopTimers() {
	if s.tickTk != nil {
		s.tickTk.Stop()
		s.tickTk = nil
	}
	if s.timerTk != nil {
		s.timerTk.Stop()
		s.timerTk = nil
	}
	if s.flavorTk != nil {
		s.flavorTk.Stop()
		s.flavorTk = nil
	}
}

func (s *Service) buildSnapshot() Snapshot {
	snap := Snapshot{
		Phase:      s.phase,
		Generation: s.generation,
	}
	if s.state == nil {
		return snap
	}

	snap.Balance = s.state.Balance
	snap.TotalValue = s.state.TotalValue()
	snap.TickIndex = s.state.TickIndex
	snap.TimeLeft = s.state.TimeLeft
	snap.Trades = s.state.Trades
	snap.Portfolio = make(map[string]int, len(s.state.Portfolio))
	for k, v := range s.state.Portfolio {
		snap.Portfolio[k] = v
	}
	snap.Prices = make(map[string]float64, len(s.state.Prices))
	for k, v := range s.state.Prices {
		snap.Prices[k] = v
	}
	return snap
}

func (s *Service) emit(ev Event) {
	if s.cfg.DropEvents {
		select {
		case s.events <- ev:
		default:
			s.droppedEvents.Add(1)
		}
	} else {
		select {
		case s.events <- ev:
		case <-s.closed:
		}
	}
}

func (s *Service) call(ctx context.Context, cmd command) (response, error) {
	respCh := make(chan response, 1)
	cmd.respCh = respCh

	select {
	case <-s.closed:
		return response{}, ErrClosed
	default:
	}

	select {
	case s.cmdCh <- cmd:
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-s.closed:
		return response{}, ErrClosed
	}

	select {
	case resp := <-respCh:
		return resp, nil
	case <-ctx.Done():
		return response{}, ctx.Err()
	case <-s.closed:
		return response{}, ErrClosed
	}
}

// Start loads game data and transitions Loading -> Running.
func (s *Service) Start(ctx context.Context, data *game.Data) error {
	resp, err := s.call(ctx, command{typ: cmdStart, data: data})
	if err != nil {
		return err
	}
	return resp.err
}

// Buy purchases one unit of the symbol at the current price. ok is false
// for an invalid trade (wrong phase, unknown symbol, insufficient funds).
func (s *Service) Buy(ctx context.Context, symbol string) (session.Trade, bool, error) {
	resp, err := s.call(ctx, command{typ: cmdBuy, symbol: symbol})
	if err != nil {
		return session.Trade{}, false, err
	}
	return resp.trade, resp.ok, nil
}

// Sell liquidates one unit of the symbol at the current price.
func (s *Service) Sell(ctx context.Context, symbol string) (session.Trade, bool, error) {
	resp, err := s.call(ctx, command{typ: cmdSell, symbol: symbol})
	if err != nil {
		return session.Trade{}, false, err
	}
	return resp.trade, resp.ok, nil
}

// Snapshot returns a copy of the observable session state.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	resp, err := s.call(ctx, command{typ: cmdSnapshot})
	if err != nil {
		return Snapshot{}, err
	}
	return resp.snapshot, nil
}

// Chart returns a copy of the chart window for the symbol.
func (s *Service) Chart(ctx context.Context, symbol string) (chart.Snapshot, bool, error) {
	resp, err := s.call(ctx, command{typ: cmdChart, symbol: symbol})
	if err != nil {
		return chart.Snapshot{}, false, err
	}
	return resp.chart, resp.ok, nil
}

// Result returns the settlement once the session has ended.
func (s *Service) Result(ctx context.Context) (Result, error) {
	resp, err := s.call(ctx, command{typ: cmdResult})
	if err != nil {
		return Result{}, err
	}
	if resp.err != nil {
		return Result{}, resp.err
	}
	return resp.result, nil
}

// Restart cancels all periodic activity, discards session state, and
// returns to the Loading phase.
func (s *Service) Restart(ctx context.Context) error {
	_, err := s.call(ctx, command{typ: cmdRestart})
	return err
}

// Feed returns the events feed. Safe for concurrent reads.
func (s *Service) Feed() *news.Feed { return s.feed }

// Events returns the session events channel.
func (s *Service) Events() <-chan Event { return s.events }

// DroppedEvents returns the count of dropped session events.
func (s *Service) DroppedEvents() int64 { return s.droppedEvents.Load() }

// Close shuts down the service.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
