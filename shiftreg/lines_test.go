package shiftreg

import (
	"errors"
	"testing"
	"time"
)

var errTest = errors.New("line fault")

type timedOutput struct {
	state   bool
	changes []time.Time
	fail    bool
}

func (to *timedOutput) GetState() (bool, error) {
	return to.state, nil
}

func (to *timedOutput) Set(state bool) error {
	if to.fail {
		return errTest
	}
	to.state = state
	to.changes = append(to.changes, time.Now())
	return nil
}

func TestPulseLeavesLineLow(t *testing.T) {
	data, clock, latch := &timedOutput{}, &timedOutput{}, &timedOutput{}
	lines := NewLines(data, clock, latch, 0)

	lines.PulseClock()
	lines.PulseLatch()

	if clock.state || latch.state {
		t.Error("clock and latch should be low after a pulse")
	}
	if len(clock.changes) != 2 || len(latch.changes) != 2 {
		t.Errorf("expected high and low write per pulse, got %d and %d", len(clock.changes), len(latch.changes))
	}
	if len(data.changes) != 0 {
		t.Error("pulses should not touch the data line")
	}
}

func TestPulseWidth(t *testing.T) {
	clock := &timedOutput{}
	lines := NewLines(&timedOutput{}, clock, &timedOutput{}, 5*time.Millisecond)

	lines.PulseClock()

	if len(clock.changes) != 2 {
		t.Fatalf("got %d changes want 2", len(clock.changes))
	}
	held := clock.changes[1].Sub(clock.changes[0])
	if held < 5*time.Millisecond {
		t.Errorf("pulse held %s, want at least 5ms", held)
	}
}

func TestSetDataLine(t *testing.T) {
	data := &timedOutput{}
	lines := NewLines(data, &timedOutput{}, &timedOutput{}, 0)

	lines.SetDataLine(true)
	if !data.state {
		t.Error("data line should be high")
	}
	lines.SetDataLine(false)
	if data.state {
		t.Error("data line should be low")
	}
}

func TestLineErrors(t *testing.T) {
	lines := NewLines(&timedOutput{fail: true}, &timedOutput{fail: true}, &timedOutput{fail: true}, 0)

	if err := lines.SetDataLine(true); !errors.Is(err, errTest) {
		t.Errorf("SetDataLine got %v", err)
	}
	if err := lines.PulseClock(); !errors.Is(err, errTest) {
		t.Errorf("PulseClock got %v", err)
	}
	if err := lines.PulseLatch(); !errors.Is(err, errTest) {
		t.Errorf("PulseLatch got %v", err)
	}
}
