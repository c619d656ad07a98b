package shiftkit

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

const DefaultInterval = 300 * time.Millisecond

// Transmitter is what the counter loop drives, ShiftRegister in practice.
type Transmitter interface {
	TransmitAndLatch(value uint8) error
	Clear() error
}

// FrameListener is told about every latched value. It is called from the
// counter loop and must not block.
type FrameListener interface {
	FrameLatched(value uint8)
}

// Counter displays 0..255 on the register, one value per Interval, and
// wraps around forever.
type Counter struct {
	register  Transmitter
	interval  time.Duration
	listeners []FrameListener
	logger    *log.Logger
}

func NewCounter(register Transmitter, interval time.Duration, listeners ...FrameListener) *Counter {
	return &Counter{
		register:  register,
		interval:  interval,
		listeners: listeners,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "counter",
			Level:  log.GetLevel(),
		}),
	}
}

func (c *Counter) AddListener(listener FrameListener) {
	c.listeners = append(c.listeners, listener)
}

// Run clears the register and then steps the counter until ctx is done.
// Clear and transmit errors are logged and the loop goes on, there is no
// way to recover a frame on an open loop line.
func (c *Counter) Run(ctx context.Context) error {
	err := c.register.Clear()
	if err != nil {
		c.logger.Error("clear failed, counting anyway", "err", err)
	} else {
		c.logger.Info("register cleared, counting", "interval", c.interval)
	}

	var value uint8
	for {
		err = c.register.TransmitAndLatch(value)
		if err != nil {
			c.logger.Error("transmit failed", "value", value, "err", err)
		} else {
			c.logger.Debug("latched", "value", value)
			for _, listener := range c.listeners {
				listener.FrameLatched(value)
			}
		}

		value++

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.interval):
		}
	}
}
