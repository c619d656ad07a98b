package drivers

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const mockDriverName = "mock_driver"

// StateListener is called on every Set of a mock output, also when the
// level does not change.
type StateListener func(pin uint16, state bool)

type MockOutput struct {
	state            bool
	pin              uint16
	writeTo          io.Writer
	writeStateChange bool
	driver           *MockIoDriver
}

func (mo *MockOutput) GetState() (bool, error) {
	return mo.state, nil
}

func (mo *MockOutput) Set(state bool) error {
	if mo.writeStateChange && state != mo.state {
		fmt.Fprintf(mo.writeTo, "[pin %d] state changed to %v\n", mo.pin, state)
	}
	mo.state = state
	if mo.driver != nil {
		mo.driver.notify(mo.pin, state)
	}
	return nil
}

type MockIoDriver struct {
	outputs []*MockOutput
	ready   bool

	lock      sync.Mutex
	listeners []StateListener
}

func (md *MockIoDriver) Setup(ctx context.Context, outputs []uint16) error {
	for _, outPin := range outputs {
		md.outputs = append(md.outputs, &MockOutput{pin: outPin, driver: md})
	}
	md.ready = true
	return nil
}

func (md *MockIoDriver) Close() error {
	md.ready = false
	for _, output := range md.outputs {
		output.Set(false)
	}
	return nil
}

func (md *MockIoDriver) String() string {
	return mockDriverName
}

func (md *MockIoDriver) IsReady() bool {
	return md.ready
}

func (md *MockIoDriver) GetOutput(pin uint16) (DigitalOutput, error) {
	for _, output := range md.outputs {
		if pin == output.pin {
			return output, nil
		}
	}
	return nil, fmt.Errorf("mock output %d not found", pin)
}

func (md *MockIoDriver) GetAllIo() (outputs []uint16) {
	for _, output := range md.outputs {
		outputs = append(outputs, output.pin)
	}
	return
}

func (md *MockIoDriver) MonitorStateChanges(writer io.Writer) {
	for _, out := range md.outputs {
		out.writeTo = writer
		out.writeStateChange = true
	}
}

func (md *MockIoDriver) Subscribe(listener StateListener) {
	md.lock.Lock()
	defer md.lock.Unlock()

	md.listeners = append(md.listeners, listener)
}

func (md *MockIoDriver) notify(pin uint16, state bool) {
	md.lock.Lock()
	listeners := md.listeners
	md.lock.Unlock()

	for _, listener := range listeners {
		listener(pin, state)
	}
}
