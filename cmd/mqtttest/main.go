package main

import (
	"context"
	"flag"
	"time"

	"github.com/charmbracelet/log"

	"github.com/hubertat/shiftkit"
	"github.com/hubertat/shiftkit/mqtt"
)

const clientID = "mq-shiftkit-test"

var (
	broker = flag.String("broker", "mqtt://10.100.10.55:1883", "mqtt broker url")
	topic  = flag.String("topic", "shiftkit/test/value", "topic to publish frames to")
	frames = flag.Int("frames", 16, "number of frames to publish")
)

// Publishes a short counter ramp without any register attached, handy to
// check broker settings before deploying.
func main() {
	flag.Parse()
	log.SetLevel(log.DebugLevel)

	mc, err := mqtt.NewMqttClient(*broker, clientID)
	if err != nil {
		log.Error("failed to create mqtt client", "error", err)
		return
	}

	err = mc.Connect(context.Background())
	if err != nil {
		log.Error("failed to connect to mqtt broker", "error", err)
		return
	}
	defer mc.Disconnect(context.Background())

	log.Info("mqtt client connected")

	publisher := shiftkit.NewMqttFramePublisher(mc, *topic)
	for i := 0; i < *frames; i++ {
		publisher.FrameLatched(uint8(i))
		time.Sleep(shiftkit.DefaultInterval)
	}
	publisher.Close()

	log.Info("done", "frames", *frames, "topic", *topic)
}
