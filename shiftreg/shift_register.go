package shiftreg

import (
	"github.com/pkg/errors"
)

const registerWidth = 8
const msbMask = uint8(1) << (registerWidth - 1)

// LineWriter is the line level interface the register is driven through.
type LineWriter interface {
	SetDataLine(high bool) error
	PulseClock() error
	PulseLatch() error
}

// ShiftRegister drives a 74HC595 style serial-in/parallel-out register.
// The protocol is open loop: nothing is read back from the chip.
type ShiftRegister struct {
	lines LineWriter
}

func NewShiftRegister(lines LineWriter) *ShiftRegister {
	return &ShiftRegister{lines: lines}
}

// TransmitAndLatch shifts value out MSB first, one clock pulse per bit,
// and then pulses the latch so the byte shows on the parallel outputs.
// Clock and latch are left low, data keeps the level of bit 0.
func (sr *ShiftRegister) TransmitAndLatch(value uint8) error {
	frame := value
	for i := 0; i < registerWidth; i++ {
		err := sr.lines.SetDataLine(value&msbMask != 0)
		if err != nil {
			return errors.Wrapf(err, "bit %d of 0x%02x", i, frame)
		}

		err = sr.lines.PulseClock()
		if err != nil {
			return errors.Wrapf(err, "bit %d of 0x%02x", i, frame)
		}

		value = value << 1
	}

	err := sr.lines.PulseLatch()
	if err != nil {
		return errors.Wrapf(err, "latch 0x%02x", frame)
	}
	return nil
}

// Clear drives all register outputs low. It replaces the SRCLR pin, which
// then does not need a line of its own.
func (sr *ShiftRegister) Clear() error {
	return sr.TransmitAndLatch(0)
}
