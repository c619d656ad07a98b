package shiftreg

import (
	"time"

	"github.com/pkg/errors"
)

// Output is a single digital output line.
type Output interface {
	Set(bool) error
}

// Lines owns the three outputs wired to the register: SER (data),
// SRCLK (clock) and RCLK (latch).
type Lines struct {
	data  Output
	clock Output
	latch Output

	// PulseWidth is the time a pulse is held high. Zero gives the
	// shortest pulse the driver can produce.
	PulseWidth time.Duration
}

func NewLines(data, clock, latch Output, pulseWidth time.Duration) *Lines {
	return &Lines{
		data:       data,
		clock:      clock,
		latch:      latch,
		PulseWidth: pulseWidth,
	}
}

func (l *Lines) SetDataLine(high bool) error {
	return errors.Wrap(l.data.Set(high), "set data line")
}

func (l *Lines) PulseClock() error {
	return errors.Wrap(l.pulse(l.clock), "pulse clock line")
}

func (l *Lines) PulseLatch() error {
	return errors.Wrap(l.pulse(l.latch), "pulse latch line")
}

func (l *Lines) pulse(line Output) error {
	err := line.Set(true)
	if err != nil {
		return err
	}
	if l.PulseWidth > 0 {
		time.Sleep(l.PulseWidth)
	}
	return line.Set(false)
}
