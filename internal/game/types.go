// Package game holds the wire-level domain types shared by the server and
// the terminal client: the per-session game data snapshot, submitted
// results, and leaderboard rows.
package game

import "time"

// PricePoint is a single point of a pre-generated price series.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// Asset is one tradable asset with its full replay series. The series
// length equals the session duration in ticks; index 0 is the initial
// displayed price. Immutable once loaded.
type Asset struct {
	Symbol string       `json:"symbol"`
	Name   string       `json:"name"`
	Prices []PricePoint `json:"prices"`
}

// Data is the immutable snapshot served by GET /api/game/start for one
// session.
type Data struct {
	StartBalance float64 `json:"startBalance"`
	Duration     int     `json:"duration"`
	Assets       []Asset `json:"assets"`
}

// AssetBySymbol returns the asset with the given symbol, if present.
func (d *Data) AssetBySymbol(symbol string) (Asset, bool) {
	for _, a := range d.Assets {
		if a.Symbol == symbol {
			return a, true
		}
	}
	return Asset{}, false
}

// Result is the body of POST /api/game/submit. Score is computed
// server-side and echoed back.
type Result struct {
	Username     string  `json:"username"`
	FinalBalance float64 `json:"final_balance"`
	TradesCount  int     `json:"trades_count"`
	Score        float64 `json:"score"`
}

// LeaderboardEntry is one persisted leaderboard row, best-first ordered
// by Score.
type LeaderboardEntry struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	Trades    int       `json:"trades"`
	CreatedAt time.Time `json:"created_at"`
}
