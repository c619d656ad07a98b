package shiftkit

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hubertat/shiftkit/drivers"
	"github.com/hubertat/shiftkit/shiftreg"
)

// LinesFromDriver looks the three register pins up on an already set up
// driver.
func LinesFromDriver(driver drivers.IoDriver, dataPin, clockPin, latchPin uint16, pulseWidth time.Duration) (*shiftreg.Lines, error) {
	data, err := driver.GetOutput(dataPin)
	if err != nil {
		return nil, errors.Wrapf(err, "data line (pin %d, driver %s)", dataPin, driver)
	}
	clock, err := driver.GetOutput(clockPin)
	if err != nil {
		return nil, errors.Wrapf(err, "clock line (pin %d, driver %s)", clockPin, driver)
	}
	latch, err := driver.GetOutput(latchPin)
	if err != nil {
		return nil, errors.Wrapf(err, "latch line (pin %d, driver %s)", latchPin, driver)
	}

	return shiftreg.NewLines(data, clock, latch, pulseWidth), nil
}
