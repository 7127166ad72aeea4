// Package session implements the pure play-through state: balance,
// holdings, price replay position, and the trade ledger. All mutation goes
// through the lifecycle service's single goroutine, so State itself takes
// no locks.
package session

import "crypto-rush/internal/game"

// Side distinguishes buy and sell trades.
type Side int

const (
	SideBuy Side = iota
	SideSell
)

// Trade is one executed buy or sell at the replayed price.
type Trade struct {
	Symbol string
	Side   Side
	Tick   int
	Price  float64
}

// PriceUpdate is one asset's price change applied by a replay tick.
type PriceUpdate struct {
	Symbol string
	Tick   int
	Price  float64
}

// State is the mutable per-session game state. Fields are exported for
// views and tests; only the owning session loop may mutate them.
type State struct {
	Balance   float64
	Portfolio map[string]int
	Prices    map[string]float64
	TickIndex int
	TimeLeft  int
	Trades    int
	Running   bool

	data *game.Data
}

// NewState builds the initial state for a loaded game: full start balance,
// empty portfolio, current prices from each asset's first point.
func NewState(data *game.Data) *State {
	s := &State{
		Balance:   data.StartBalance,
		Portfolio: make(map[string]int, len(data.Assets)),
		Prices:    make(map[string]float64, len(data.Assets)),
		TimeLeft:  data.Duration,
		data:      data,
	}
	for _, a := range data.Assets {
		if len(a.Prices) > 0 {
			s.Prices[a.Symbol] = a.Prices[0].Price
		}
	}
	return s
}

// Data returns the immutable game data this state replays.
func (s *State) Data() *game.Data { return s.data }

// AdvanceTick replays one step of every asset's price series. It is a
// no-op when the session is not running or the series is exhausted.
// An asset with no price at the current index is skipped rather than
// aborting the tick. Returns the updates applied, in asset order.
func (s *State) AdvanceTick() []PriceUpdate {
	if !s.Running || s.TickIndex >= s.data.Duration {
		return nil
	}

	updates := make([]PriceUpdate, 0, len(s.data.Assets))
	for _, a := range s.data.Assets {
		if s.TickIndex >= len(a.Prices) {
			continue
		}
		price := a.Prices[s.TickIndex].Price
		s.Prices[a.Symbol] = price
		updates = append(updates, PriceUpdate{Symbol: a.Symbol, Tick: s.TickIndex, Price: price})
	}
	s.TickIndex++
	return updates
}

// Buy purchases one unit at the current price. An unknown symbol or
// insufficient balance is silently rejected with no state change.
func (s *State) Buy(symbol string) (Trade, bool) {
	price, ok := s.Prices[symbol]
	if !ok || s.Balance < price {
		return Trade{}, false
	}

	s.Balance -= price
	s.Portfolio[symbol]++
	s.Trades++
	return Trade{Symbol: symbol, Side: SideBuy, Tick: s.TickIndex, Price: price}, true
}

// Sell liquidates one unit at the current price. Selling with no holdings
// is silently rejected with no state change.
func (s *State) Sell(symbol string) (Trade, bool) {
	if s.Portfolio[symbol] <= 0 {
		return Trade{}, false
	}

	price := s.Prices[symbol]
	s.Balance += price
	s.Portfolio[symbol]--
	s.Trades++
	return Trade{Symbol: symbol, Side: SideSell, Tick: s.TickIndex, Price: price}, true
}

// TotalValue is the portfolio valuation: cash plus holdings marked at
// current prices.
func (s *State) TotalValue() float64 {
	v := s.Balance
	for symbol, count := range s.Portfolio {
		v += float64(count) * s.Prices[symbol]
	}
	return v
}

// Settle converts every holding to cash at the current price and stops the
// session. Returns the final balance.
func (s *State) Settle() float64 {
	for symbol, count := range s.Portfolio {
		s.Balance += float64(count) * s.Prices[symbol]
		s.Portfolio[symbol] = 0
	}
	s.Running = false
	return s.Balance
}
