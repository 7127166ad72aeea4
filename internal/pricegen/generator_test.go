package pricegen

import "testing"

var btcSpec = AssetSpec{
	Symbol:     "BTC",
	Name:       "Bitcoin",
	StartPrice: 50000,
	Volatility: 0.02,
}

func TestPriceHistoryLength(t *testing.T) {
	g := NewGenerator(1)
	points := g.PriceHistory(btcSpec, 180)
	if len(points) != 180 {
		t.Fatalf("expected 180 points, got %d", len(points))
	}
}

func TestPriceFloor(t *testing.T) {
	// High volatility forces the walk into the floor.
	spec := btcSpec
	spec.Volatility = 5.0

	g := NewGenerator(7)
	points := g.PriceHistory(spec, 1000)
	floor := spec.StartPrice * 0.1
	for i, p := range points {
		if p.Price < floor {
			t.Fatalf("point %d below floor: %v < %v", i, p.Price, floor)
		}
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	a := NewGenerator(42).PriceHistory(btcSpec, 50)
	b := NewGenerator(42).PriceHistory(btcSpec, 50)
	for i := range a {
		if a[i].Price != b[i].Price {
			t.Fatalf("series diverge at %d: %v vs %v", i, a[i].Price, b[i].Price)
		}
	}
}

func TestGameData(t *testing.T) {
	specs := []AssetSpec{
		btcSpec,
		{Symbol: "ETH", Name: "Ethereum", StartPrice: 3000, Volatility: 0.03},
	}

	data := NewGenerator(3).GameData(specs, 10000, 180)
	if data.StartBalance != 10000 || data.Duration != 180 {
		t.Errorf("unexpected header: %+v", data)
	}
	if len(data.Assets) != 2 {
		t.Fatalf("expected 2 assets, got %d", len(data.Assets))
	}
	for _, a := range data.Assets {
		if len(a.Prices) != data.Duration {
			t.Errorf("%s: series length %d != duration %d", a.Symbol, len(a.Prices), data.Duration)
		}
	}
}
