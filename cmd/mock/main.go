package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/hubertat/shiftkit"
	"github.com/hubertat/shiftkit/shiftreg"
)

var (
	Version string
	Build   string
)

// display prints the simulated register outputs after every latch.
type display struct {
	sim *shiftreg.Sim595
}

func (d *display) FrameLatched(value uint8) {
	fmt.Printf("\r%3d  %s ", value, d.sim.Render())
}

func main() {
	log.Info("shiftkit started", "version", Version)
	log.Info("mock instance for testing purposes, should work on MacOs")

	sk := &shiftkit.ShiftKit{
		Name:       "mock",
		DriverName: "mock_driver",
		DataPin:    5,
		ClockPin:   6,
		LatchPin:   7,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("will init shiftkit drivers...")
	err := sk.InitDrivers(ctx)
	defer sk.Close()
	if err != nil {
		log.Fatal("driver init failed", "err", err)
	}

	sim := shiftreg.NewSim595(sk.DataPin, sk.ClockPin, sk.LatchPin)
	sk.FakeDriver.Subscribe(sim.Observe)
	sk.AddListener(&display{sim: sim})

	sk.PrintIoStatus(os.Stdout)

	err = sk.Run(ctx)
	fmt.Println()
	log.Info("counter stopped", "reason", err)
}
