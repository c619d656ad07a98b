package shiftkit

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/hubertat/shiftkit/mqtt"
)

// frameQueueSize frames may wait for a slow broker, older ones are dropped.
const frameQueueSize = 4

// MqttFramePublisher publishes every latched value as a retained decimal
// payload. A single worker publishes off the counter loop, in latch order.
type MqttFramePublisher struct {
	publisher mqtt.Publisher
	topic     string
	logger    *log.Logger

	frames chan uint8
	done   chan struct{}
}

func NewMqttFramePublisher(publisher mqtt.Publisher, topic string) *MqttFramePublisher {
	mfp := &MqttFramePublisher{
		publisher: publisher,
		topic:     topic,
		logger: log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "mqtt frames",
			Level:  log.GetLevel(),
		}),
		frames: make(chan uint8, frameQueueSize),
		done:   make(chan struct{}),
	}
	go mfp.run()

	return mfp
}

// FrameLatched queues the value without blocking. When the queue is full
// the oldest waiting frame is dropped, the retained topic only needs the
// latest one.
func (mfp *MqttFramePublisher) FrameLatched(value uint8) {
	select {
	case mfp.frames <- value:
		return
	default:
	}

	select {
	case dropped := <-mfp.frames:
		mfp.logger.Debug("queue full, frame dropped", "value", dropped)
	default:
	}

	select {
	case mfp.frames <- value:
	default:
		mfp.logger.Debug("queue full, frame dropped", "value", value)
	}
}

// Close publishes what is still queued and stops the worker. FrameLatched
// must not be called afterwards.
func (mfp *MqttFramePublisher) Close() {
	close(mfp.frames)
	<-mfp.done
}

func (mfp *MqttFramePublisher) run() {
	defer close(mfp.done)

	for value := range mfp.frames {
		mfp.publish(value)
	}
}

func (mfp *MqttFramePublisher) publish(value uint8) {
	err := mfp.publisher.Publish(mfp.topic, FramePayload(value), true)
	if err != nil {
		mfp.logger.Warn("failed to publish frame", "topic", mfp.topic, "value", value, "err", err)
	}
}

func FramePayload(value uint8) []byte {
	return []byte(strconv.Itoa(int(value)))
}
