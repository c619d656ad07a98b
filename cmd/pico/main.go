//go:build tinygo

package main

import (
	"fmt"
	"machine"
	"time"

	"github.com/hubertat/shiftkit/pico"
)

const frameDelay = 300 * time.Millisecond

func main() {
	board := pico.PicoType1()
	err := board.Setup()
	if err != nil {
		fmt.Println("setup failed: ", err.Error())
		panic(err)
	}

	register, err := board.Register()
	if err != nil {
		panic(err)
	}

	fmt.Println("setup OK!", board.Name())

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	register.Clear()

	var value uint8
	for {
		register.TransmitAndLatch(value)
		led.Set(value&1 == 1)
		value++

		time.Sleep(frameDelay)
	}
}
