// Package chart maintains the bounded per-asset chart window: the plotted
// price series plus buy/sell annotation markers, kept in lockstep so
// markers never outlive the visible window.
package chart

// DefaultWindow is the number of price points kept per asset.
const DefaultWindow = 60

// Point is a plotted (tick, price) pair.
type Point struct {
	Tick  int
	Price float64
}

// priceTolerance is the relative price tolerance when matching a sell
// against an earlier buy marker.
const priceTolerance = 0.01

// Tracker holds the bounded series and markers for a single asset.
// It is not safe for concurrent use; the session loop owns it.
type Tracker struct {
	window int
	series []Point
	buys   []Point
	sells  []Point
}

// NewTracker creates a Tracker with the given window size. A non-positive
// window falls back to DefaultWindow.
func NewTracker(window int) *Tracker {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Tracker{window: window}
}

// Append adds a price point, evicting the oldest point when the window is
// exceeded and pruning markers that fall outside the retained range.
func (t *Tracker) Append(tick int, price float64) {
	t.series = append(t.series, Point{Tick: tick, Price: price})
	if len(t.series) <= t.window {
		return
	}

	t.series = t.series[1:]
	oldest := t.series[0].Tick
	t.buys = pruneBefore(t.buys, oldest)
	t.sells = pruneBefore(t.sells, oldest)
}

func pruneBefore(points []Point, oldest int) []Point {
	kept := points[:0]
	for _, p := range points {
		if p.Tick >= oldest {
			kept = append(kept, p)
		}
	}
	return kept
}

// MarkBuy records a buy annotation at the given tick and price.
func (t *Tracker) MarkBuy(tick int, price float64) {
	t.buys = append(t.buys, Point{Tick: tick, Price: price})
}

// MarkSell records a sell annotation and removes the matching buy marker,
// if any: the buy nearest in tick distance whose price is within 1% of the
// sell price. With no match within tolerance nothing is removed. This is a
// best-effort visual reconciliation, not lot accounting.
func (t *Tracker) MarkSell(tick int, price float64) {
	t.sells = append(t.sells, Point{Tick: tick, Price: price})

	closest := -1
	minDist := 0
	for i, b := range t.buys {
		if price == 0 {
			break
		}
		rel := (b.Price - price) / price
		if rel < 0 {
			rel = -rel
		}
		if rel >= priceTolerance {
			continue
		}
		dist := b.Tick - tick
		if dist < 0 {
			dist = -dist
		}
		if closest == -1 || dist < minDist {
			closest = i
			minDist = dist
		}
	}
	if closest != -1 {
		t.buys = append(t.buys[:closest], t.buys[closest+1:]...)
	}
}

// Len returns the current series length.
func (t *Tracker) Len() int { return len(t.series) }

// Snapshot is a copy of the tracker contents for rendering.
type Snapshot struct {
	Series []Point
	Buys   []Point
	Sells  []Point
}

// Snapshot returns copies of the series and marker lists.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Series: append([]Point(nil), t.series...),
		Buys:   append([]Point(nil), t.buys...),
		Sells:  append([]Point(nil), t.sells...),
	}
}
