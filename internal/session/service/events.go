package service

import (
	"github.com/google/uuid"

	"crypto-rush/internal/news"
	"crypto-rush/internal/session"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseRunning
	PhaseEnded
	PhaseRestarting
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseRunning:
		return "running"
	case PhaseEnded:
		return "ended"
	case PhaseRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// EventType identifies the kind of session event.
type EventType int

const (
	// EventTick reports applied price updates and the recomputed valuation.
	EventTick EventType = iota
	// EventTrade reports an executed buy or sell.
	EventTrade
	// EventTimer reports a countdown decrement.
	EventTimer
	// EventFlavor reports a cosmetic random headline.
	EventFlavor
	// EventPhase reports a lifecycle transition.
	EventPhase
	// EventEnded reports the final settlement.
	EventEnded
)

// Event is one session event published to subscribers.
type Event struct {
	Type EventType

	// EventTick
	Updates    []session.PriceUpdate
	TotalValue float64

	// EventTrade
	Trade session.Trade

	// EventTimer
	TimeLeft int

	// EventFlavor
	Item news.Item

	// EventPhase
	Phase Phase

	// EventEnded
	Result Result
}

// Result is the settlement of a finished session.
type Result struct {
	FinalBalance float64
	Profit       float64
	Trades       int
}

// Snapshot is a copy of the observable session state.
type Snapshot struct {
	Phase      Phase
	Generation uuid.UUID
	Balance    float64
	TotalValue float64
	Portfolio  map[string]int
	Prices     map[string]float64
	TickIndex  int
	TimeLeft   int
	Trades     int
}
