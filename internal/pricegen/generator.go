// Package pricegen produces the pre-generated price series each session
// replays: a random walk with occasional amplified shocks.
package pricegen

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"crypto-rush/internal/game"
)

// AssetSpec describes one asset to generate prices for.
type AssetSpec struct {
	Symbol     string  `yaml:"symbol"`
	Name       string  `yaml:"name"`
	StartPrice float64 `yaml:"start_price"`
	Volatility float64 `yaml:"volatility"`
}

// Generator builds price histories from a seeded RNG. Safe for
// concurrent use; the RNG is guarded.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a Generator. A zero seed falls back to the current
// time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// eventChance is the per-tick probability of an amplified price shock.
const eventChance = 0.05

// PriceHistory generates a series of exactly duration points, one per
// tick. Prices never drop below 10% of the start price.
func (g *Generator) PriceHistory(spec AssetSpec, duration int) []game.PricePoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	points := make([]game.PricePoint, duration)
	currentPrice := spec.StartPrice
	startTime := time.Now().Unix()

	for i := 0; i < duration; i++ {
		change := g.rng.NormFloat64() * spec.Volatility * currentPrice

		if g.rng.Float64() < eventChance {
			eventMultiplier := 1.0 + (g.rng.Float64()*0.4 - 0.2)
			change *= eventMultiplier * 3
		}

		currentPrice += change
		if currentPrice < spec.StartPrice*0.1 {
			currentPrice = spec.StartPrice * 0.1
		}

		points[i] = game.PricePoint{
			Timestamp: startTime + int64(i),
			Price:     math.Round(currentPrice*100) / 100,
		}
	}

	return points
}

// GameData builds a full session snapshot for the given assets.
func (g *Generator) GameData(specs []AssetSpec, startBalance float64, duration int) *game.Data {
	data := &game.Data{
		StartBalance: startBalance,
		Duration:     duration,
		Assets:       make([]game.Asset, 0, len(specs)),
	}
	for _, spec := range specs {
		data.Assets = append(data.Assets, game.Asset{
			Symbol: spec.Symbol,
			Name:   spec.Name,
			Prices: g.PriceHistory(spec, duration),
		})
	}
	return data
}
