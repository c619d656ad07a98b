package shiftreg

import (
	"strings"
	"sync"
)

// Sim595 models a 74HC595 from the outside: feed it every line write
// (Observe fits drivers.StateListener) and it tracks the shift and
// storage stages the way the chip would.
type Sim595 struct {
	DataPin  uint16
	ClockPin uint16
	LatchPin uint16

	lock sync.Mutex

	data, clock, latch bool

	shift   uint8
	output  uint8
	clocks  int
	latches int
	sampled []bool
}

func NewSim595(dataPin, clockPin, latchPin uint16) *Sim595 {
	return &Sim595{DataPin: dataPin, ClockPin: clockPin, LatchPin: latchPin}
}

func (sim *Sim595) Observe(pin uint16, state bool) {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	switch pin {
	case sim.DataPin:
		sim.data = state
	case sim.ClockPin:
		if state && !sim.clock {
			sim.shift = sim.shift << 1
			if sim.data {
				sim.shift |= 1
			}
			sim.clocks++
			sim.sampled = append(sim.sampled, sim.data)
		}
		sim.clock = state
	case sim.LatchPin:
		if state && !sim.latch {
			sim.output = sim.shift
			sim.latches++
		}
		sim.latch = state
	}
}

// Output is the storage stage, what the parallel pins show.
func (sim *Sim595) Output() uint8 {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return sim.output
}

func (sim *Sim595) ShiftStage() uint8 {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return sim.shift
}

func (sim *Sim595) Levels() (data, clock, latch bool) {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return sim.data, sim.clock, sim.latch
}

func (sim *Sim595) Pulses() (clocks, latches int) {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return sim.clocks, sim.latches
}

// Sampled returns the data levels seen on each rising clock edge since
// the last Reset.
func (sim *Sim595) Sampled() []bool {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	return append([]bool(nil), sim.sampled...)
}

// Reset clears pulse counters and samples, register stages are kept.
func (sim *Sim595) Reset() {
	sim.lock.Lock()
	defer sim.lock.Unlock()

	sim.clocks = 0
	sim.latches = 0
	sim.sampled = nil
}

// Render draws the outputs Q7..Q0 as lit and dark cells.
func (sim *Sim595) Render() string {
	return RenderByte(sim.Output())
}

func RenderByte(value uint8) string {
	var sb strings.Builder
	for mask := msbMask; mask != 0; mask >>= 1 {
		if value&mask != 0 {
			sb.WriteString("■")
		} else {
			sb.WriteString("□")
		}
	}
	return sb.String()
}
