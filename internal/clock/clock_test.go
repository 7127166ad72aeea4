package clock

import (
	"testing"
	"time"
)

func TestManualTickerFiresOnAdvance(t *testing.T) {
	m := NewManual()
	tk := m.NewTicker(time.Second)

	select {
	case <-tk.C():
		t.Fatal("ticker fired before Advance")
	default:
	}

	m.Advance(time.Second)
	select {
	case <-tk.C():
	default:
		t.Fatal("ticker did not fire after Advance")
	}
}

func TestManualTickerMultipleIntervals(t *testing.T) {
	m := NewManual()
	tk := m.NewTicker(time.Second)

	m.Advance(3 * time.Second)

	fired := 0
	for {
		select {
		case <-tk.C():
			fired++
			continue
		default:
		}
		break
	}
	if fired != 3 {
		t.Errorf("expected 3 ticks, got %d", fired)
	}
}

func TestManualTickerStop(t *testing.T) {
	m := NewManual()
	tk := m.NewTicker(time.Second)
	tk.Stop()

	m.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestManualDifferentIntervals(t *testing.T) {
	m := NewManual()
	fast := m.NewTicker(time.Second)
	slow := m.NewTicker(25 * time.Second)

	m.Advance(25 * time.Second)

	fastFired := 0
	for {
		select {
		case <-fast.C():
			fastFired++
			continue
		default:
		}
		break
	}
	if fastFired != 25 {
		t.Errorf("expected 25 fast ticks, got %d", fastFired)
	}

	select {
	case <-slow.C():
	default:
		t.Error("slow ticker did not fire")
	}
}
