package service

import (
	"time"

	"crypto-rush/internal/chart"
)

// Config holds configuration for the session service.
type Config struct {
	// TickInterval is the interval between price replay ticks.
	TickInterval time.Duration
	// TimerInterval is the interval between countdown decrements.
	TimerInterval time.Duration
	// FlavorInterval is the interval between random flavor events.
	FlavorInterval time.Duration
	// ChartWindow is the number of price points kept per asset chart.
	ChartWindow int
	// FeedCapacity is the capacity of the events feed ring.
	FeedCapacity int
	// EventBuffer is the size of the session events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
	// Seed seeds the flavor RNG; 0 uses the current time.
	Seed int64
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		TickInterval:   time.Second,
		TimerInterval:  time.Second,
		FlavorInterval: 25 * time.Second,
		ChartWindow:    chart.DefaultWindow,
		FeedCapacity:   100,
		EventBuffer:    256,
		DropEvents:     true,
	}
}
