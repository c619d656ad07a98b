package drivers

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const periphDriverName = "periph"
const defaultPeriphPinPrefix = "GPIO"

// PeriphIO resolves pins through the periph.io registry, so it works on
// any board periph/host knows about, not only the Raspberry Pi.
type PeriphIO struct {
	// PinPrefix is joined with the pin number to get the registry name,
	// "GPIO" by default (GPIO17, GPIO27...).
	PinPrefix     string
	InvertOutputs bool

	outputs []*PeriphOutput
	isReady bool
}

type PeriphOutput struct {
	id     uint16
	pin    gpio.PinIO
	invert bool
}

func (po *PeriphOutput) Set(state bool) error {
	if po.invert {
		state = !state
	}

	err := po.pin.Out(gpio.Level(state))
	if err != nil {
		return errors.Wrapf(err, "periph write to %s failed", po.pin)
	}
	return nil
}

func (po *PeriphOutput) GetState() (bool, error) {
	state := bool(po.pin.Read())
	if po.invert {
		state = !state
	}
	return state, nil
}

func (pio *PeriphIO) pinName(id uint16) string {
	prefix := pio.PinPrefix
	if len(prefix) == 0 {
		prefix = defaultPeriphPinPrefix
	}
	return fmt.Sprintf("%s%d", prefix, id)
}

func (pio *PeriphIO) Setup(ctx context.Context, outputs []uint16) error {
	_, err := host.Init()
	if err != nil {
		return errors.Wrap(err, "failed to init periph host drivers")
	}

	for _, outPin := range outputs {
		name := pio.pinName(outPin)
		pin := gpioreg.ByName(name)
		if pin == nil {
			return errors.Errorf("periph pin %s not found", name)
		}

		out := &PeriphOutput{id: outPin, pin: pin, invert: pio.InvertOutputs}
		err = out.Set(false)
		if err != nil {
			return errors.Wrapf(err, "failed to set %s as output", name)
		}
		pio.outputs = append(pio.outputs, out)
	}

	pio.isReady = true
	return nil
}

func (pio *PeriphIO) String() string {
	return periphDriverName
}

func (pio *PeriphIO) IsReady() bool {
	return pio.isReady
}

func (pio *PeriphIO) Close() (err error) {
	pio.isReady = false
	for _, output := range pio.outputs {
		setErr := output.Set(false)
		if setErr != nil && err == nil {
			err = setErr
		}
	}
	return
}

func (pio *PeriphIO) GetOutput(id uint16) (DigitalOutput, error) {
	for _, out := range pio.outputs {
		if out.id == id {
			return out, nil
		}
	}

	return nil, fmt.Errorf("PeriphIO Output (id: %d) not found", id)
}

func (pio *PeriphIO) GetAllIo() (outputs []uint16) {
	for _, output := range pio.outputs {
		outputs = append(outputs, output.id)
	}

	return
}
