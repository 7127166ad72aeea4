package game

import "testing"

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name         string
		finalBalance float64
		startBalance float64
		trades       int
		want         float64
	}{
		{"break even no trades", 10000, 10000, 0, 0},
		{"ten percent profit", 11000, 10000, 0, 1000},
		{"loss", 9000, 10000, 0, -1000},
		{"trade bonus", 10000, 10000, 5, 10},
		{"trade bonus capped at 50", 10000, 10000, 100, 50},
		{"profit plus bonus", 10100, 10000, 2, 104},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateScore(tt.finalBalance, tt.startBalance, tt.trades)
			if got != tt.want {
				t.Errorf("CalculateScore(%v, %v, %d) = %v, want %v",
					tt.finalBalance, tt.startBalance, tt.trades, got, tt.want)
			}
		})
	}
}

func TestCalculateScoreRounding(t *testing.T) {
	// -10 profit on 10000 with 2 trades: -0.1% * 100 + 4 = -6.0
	got := CalculateScore(9990, 10000, 2)
	if got != -6.0 {
		t.Errorf("expected -6.0, got %v", got)
	}
}

func TestAssetBySymbol(t *testing.T) {
	d := Data{Assets: []Asset{
		{Symbol: "BTC", Name: "Bitcoin"},
		{Symbol: "ETH", Name: "Ethereum"},
	}}

	a, ok := d.AssetBySymbol("ETH")
	if !ok {
		t.Fatal("expected to find ETH")
	}
	if a.Name != "Ethereum" {
		t.Errorf("expected Ethereum, got %s", a.Name)
	}

	if _, ok := d.AssetBySymbol("DOGE"); ok {
		t.Error("expected DOGE to be absent")
	}
}
