//go:build tinygo

package pico

import (
	"errors"
	"machine"

	"github.com/hubertat/shiftkit/shiftreg"
)

const (
	picoType1 string = "PicoType1"
)

type Output struct {
	pin      machine.Pin
	inverted bool
}

func (o *Output) Set(on bool) error {
	if o.inverted {
		on = !on
	}

	o.pin.Set(on)
	return nil
}

// Board is a Pico wired straight to a 74HC595, no IO driver in between.
type Board struct {
	name string

	data  Output
	clock Output
	latch Output

	register *shiftreg.ShiftRegister
}

// PicoType1 uses GP2 for SER, GP3 for SRCLK and GP4 for RCLK.
func PicoType1() *Board {
	return &Board{
		name:  picoType1,
		data:  Output{pin: machine.GP2},
		clock: Output{pin: machine.GP3},
		latch: Output{pin: machine.GP4},
	}
}

func (b *Board) Setup() error {
	for _, out := range []*Output{&b.data, &b.clock, &b.latch} {
		out.pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	}

	b.register = shiftreg.NewShiftRegister(shiftreg.NewLines(&b.data, &b.clock, &b.latch, 0))
	return nil
}

func (b *Board) Name() string {
	return b.name
}

func (b *Board) Register() (*shiftreg.ShiftRegister, error) {
	if b.register == nil {
		return nil, errors.New("board not set up")
	}
	return b.register, nil
}
