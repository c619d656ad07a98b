package drivers

import (
	"context"
)

type IoDriver interface {
	Setup(ctx context.Context, outputs []uint16) error
	Close() error
	String() string
	IsReady() bool
	GetOutput(pin uint16) (DigitalOutput, error)
	GetAllIo() (outputs []uint16)
}

func MapAllIoDrivers() map[string]IoDriver {
	drivers := []IoDriver{
		&GpIO{},
		&PeriphIO{},
		&McpIO{},
		&MockIoDriver{},
	}

	mapped := make(map[string]IoDriver)
	for _, driver := range drivers {
		mapped[driver.String()] = driver
	}
	return mapped
}

type DigitalOutput interface {
	GetState() (bool, error)
	Set(bool) error
}
