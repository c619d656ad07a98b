package drivers

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/racerxdl/go-mcp23017"
)

const mcpioDriverName = "mcpio"

// McpIO puts the register lines on an MCP23017 expander. Every edge is an
// I2C write, so pulses are far wider than on the SoC pins.
type McpIO struct {
	device *mcp23017.Device

	outputs []McpOutput
	isReady bool

	BusNo         uint8
	DevNo         uint8
	InvertOutputs bool
}

type McpOutput struct {
	pin    uint8
	invert bool

	device *mcp23017.Device
}

func (mout *McpOutput) GetState() (state bool, err error) {
	rawState, err := mout.device.DigitalRead(mout.pin)
	if err != nil {
		return
	}

	if mout.invert {
		state = !bool(rawState)
	} else {
		state = bool(rawState)
	}
	return
}

func (mout *McpOutput) Set(state bool) (err error) {
	if mout.invert {
		state = !state
	}

	err = mout.device.DigitalWrite(mout.pin, mcp23017.PinLevel(state))
	if err != nil {
		err = errors.Wrapf(err, "mcpio write to pin %d failed", mout.pin)
	}

	return
}

func (mcp *McpIO) String() string {
	return mcpioDriverName
}

func (mcp *McpIO) IsReady() bool {
	return mcp.isReady
}

func (mcp *McpIO) Setup(ctx context.Context, outputs []uint16) (err error) {
	mcp.device, err = mcp23017.Open(mcp.BusNo, mcp.DevNo)
	if err != nil {
		return errors.Wrapf(err, "failed to open mcp23017 (bus: %d, dev: %d)", mcp.BusNo, mcp.DevNo)
	}

	for _, outputPin := range outputs {
		if outputPin > 15 {
			err = errors.Errorf("output pin %d out of range (mcp23017 has 16 pins)", outputPin)
			return
		}
		err = mcp.device.PinMode(uint8(outputPin), mcp23017.OUTPUT)
		if err != nil {
			return errors.Wrapf(err, "failed to set pin %d as output", outputPin)
		}
		mcp.outputs = append(mcp.outputs, McpOutput{pin: uint8(outputPin), invert: mcp.InvertOutputs, device: mcp.device})
	}

	mcp.isReady = true

	return
}

func (mcp *McpIO) GetOutput(id uint16) (output DigitalOutput, err error) {
	for i := range mcp.outputs {
		if mcp.outputs[i].pin == uint8(id) {
			output = &mcp.outputs[i]
			return
		}
	}

	err = fmt.Errorf("McpIO Output (id: %d) not found", id)
	return
}

func (mcp *McpIO) Close() error {
	mcp.isReady = false
	if mcp.device == nil {
		return nil
	}
	for _, output := range mcp.outputs {
		output.Set(false)
	}
	return mcp.device.Close()
}

func (mcp *McpIO) GetAllIo() (outputs []uint16) {
	for _, output := range mcp.outputs {
		outputs = append(outputs, uint16(output.pin))
	}

	return
}
