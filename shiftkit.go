package shiftkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/hubertat/shiftkit/drivers"
	"github.com/hubertat/shiftkit/influx"
	"github.com/hubertat/shiftkit/mqtt"
	"github.com/hubertat/shiftkit/shiftreg"
	"github.com/hubertat/shiftkit/status"
)

const defaultName = "shiftkit"
const defaultDriverName = "gpio"

// ShiftKit is the service configuration, read from json, plus everything
// set up from it.
type ShiftKit struct {
	Name       string
	DriverName string

	DataPin  uint16
	ClockPin uint16
	LatchPin uint16

	PulseWidth string
	Interval   string

	Gpio       *drivers.GpIO
	Periph     *drivers.PeriphIO
	Mcp23017   *drivers.McpIO
	FakeDriver *drivers.MockIoDriver

	MqttBroker string
	MqttTopic  string

	Influx *influx.FrameWriter

	HttpAddr  string
	HttpToken string

	driver     drivers.IoDriver
	register   *shiftreg.ShiftRegister
	listeners  []FrameListener
	mqttClient *mqtt.MqttClient
	mqttFrames *MqttFramePublisher
	status     *status.Server
	pulseWidth time.Duration
	interval   time.Duration
	logger     *log.Logger
}

func ReadConfig(r io.Reader) (*ShiftKit, error) {
	sk := &ShiftKit{}
	err := json.NewDecoder(r).Decode(sk)
	if err != nil {
		return nil, errors.Wrap(err, "failed unmarshalling json config")
	}

	err = sk.Validate()
	if err != nil {
		return nil, err
	}
	return sk, nil
}

func LoadConfig(path string) (*ShiftKit, error) {
	configFile, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open config file (%s)", path)
	}
	defer configFile.Close()

	return ReadConfig(configFile)
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if len(value) == 0 {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrapf(err, "%s is not a valid duration", field)
	}
	if d < 0 {
		return 0, errors.Errorf("%s can't be negative (%s)", field, value)
	}
	return d, nil
}

// Validate fills in defaults and checks the configuration. It picks the
// driver named by DriverName, a missing driver section means the driver
// defaults.
func (sk *ShiftKit) Validate() (err error) {
	if len(sk.Name) == 0 {
		sk.Name = defaultName
	}
	if len(sk.DriverName) == 0 {
		sk.DriverName = defaultDriverName
	}
	if len(sk.MqttTopic) == 0 {
		sk.MqttTopic = fmt.Sprintf("shiftkit/%s/value", sk.Name)
	}

	sk.pulseWidth, err = parseDuration("PulseWidth", sk.PulseWidth, 0)
	if err != nil {
		return
	}
	sk.interval, err = parseDuration("Interval", sk.Interval, DefaultInterval)
	if err != nil {
		return
	}

	if sk.DataPin == sk.ClockPin || sk.DataPin == sk.LatchPin || sk.ClockPin == sk.LatchPin {
		return errors.Errorf("data, clock and latch pins must differ (got %d, %d, %d)", sk.DataPin, sk.ClockPin, sk.LatchPin)
	}

	sk.driver, err = sk.selectDriver()
	return
}

func (sk *ShiftKit) selectDriver() (drivers.IoDriver, error) {
	name := strings.ToLower(sk.DriverName)

	switch {
	case sk.Gpio != nil && name == sk.Gpio.String():
		return sk.Gpio, nil
	case sk.Periph != nil && name == sk.Periph.String():
		return sk.Periph, nil
	case sk.Mcp23017 != nil && name == sk.Mcp23017.String():
		return sk.Mcp23017, nil
	case sk.FakeDriver != nil && name == sk.FakeDriver.String():
		return sk.FakeDriver, nil
	}

	driver, found := drivers.MapAllIoDrivers()[name]
	if !found {
		return nil, errors.Errorf("unknown io driver: %s", sk.DriverName)
	}
	if mock, isMock := driver.(*drivers.MockIoDriver); isMock {
		sk.FakeDriver = mock
	}
	return driver, nil
}

func (sk *ShiftKit) PulseWidthDuration() time.Duration {
	return sk.pulseWidth
}

func (sk *ShiftKit) IntervalDuration() time.Duration {
	return sk.interval
}

func (sk *ShiftKit) Driver() drivers.IoDriver {
	return sk.driver
}

func (sk *ShiftKit) Register() *shiftreg.ShiftRegister {
	return sk.register
}

func (sk *ShiftKit) getLogger() *log.Logger {
	if sk.logger == nil {
		sk.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: sk.Name,
			Level:  log.GetLevel(),
		})
	}
	return sk.logger
}

// InitDrivers configures the data, clock and latch pins as outputs and
// builds the register on top of them.
func (sk *ShiftKit) InitDrivers(ctx context.Context) error {
	if sk.driver == nil {
		err := sk.Validate()
		if err != nil {
			return err
		}
	}

	err := sk.driver.Setup(ctx, []uint16{sk.DataPin, sk.ClockPin, sk.LatchPin})
	if err != nil {
		return errors.Wrapf(err, "failed to setup %s driver", sk.driver)
	}

	lines, err := LinesFromDriver(sk.driver, sk.DataPin, sk.ClockPin, sk.LatchPin, sk.pulseWidth)
	if err != nil {
		return errors.Wrap(err, "failed to get register lines")
	}

	sk.register = shiftreg.NewShiftRegister(lines)
	sk.getLogger().Info("register lines ready", "driver", sk.driver, "data", sk.DataPin, "clock", sk.ClockPin, "latch", sk.LatchPin, "pulse", sk.pulseWidth)

	return nil
}

func (sk *ShiftKit) AddListener(listener FrameListener) {
	sk.listeners = append(sk.listeners, listener)
}

func (sk *ShiftKit) InitMqtt(ctx context.Context) (err error) {
	if len(sk.MqttBroker) == 0 {
		err = errors.New("mqtt broker not set")
		return
	}

	mc, err := mqtt.NewMqttClient(sk.MqttBroker, sk.Name)
	if err != nil {
		err = errors.Wrap(err, "failed to create mqtt client")
		return
	}

	sk.mqttClient = mc

	err = mc.Connect(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to connect to mqtt broker")
		return
	}

	sk.mqttFrames = NewMqttFramePublisher(mc, sk.MqttTopic)
	sk.AddListener(sk.mqttFrames)
	return
}

func (sk *ShiftKit) InitInflux() error {
	if sk.Influx == nil {
		return errors.New("influx not configured")
	}

	if sk.Influx.Tags == nil {
		sk.Influx.Tags = map[string]string{"name": sk.Name}
	}

	err := sk.Influx.Setup()
	if err != nil {
		return errors.Wrap(err, "failed to setup influx frame writer")
	}

	sk.AddListener(sk.Influx)
	return nil
}

func (sk *ShiftKit) StartStatusServer() error {
	if len(sk.HttpAddr) == 0 {
		return errors.New("http address not set")
	}

	srv := &status.Server{HttpAddr: sk.HttpAddr, Token: sk.HttpToken}
	err := srv.Start()
	if err != nil {
		return errors.Wrap(err, "failed to start status server")
	}
	sk.status = srv
	sk.AddListener(srv)

	go func() {
		for err := range srv.Err() {
			sk.getLogger().Error("status server stopped", "err", err)
		}
	}()

	return nil
}

// Run drives the counter on the register until ctx is cancelled.
func (sk *ShiftKit) Run(ctx context.Context) error {
	if sk.register == nil {
		return errors.New("register not initialized, call InitDrivers first")
	}

	return NewCounter(sk.register, sk.interval, sk.listeners...).Run(ctx)
}

func (sk *ShiftKit) Close() (err error) {
	if sk.status != nil {
		closeErr := sk.status.Close()
		if closeErr != nil {
			err = errors.Wrap(closeErr, "status server")
		}
	}

	if sk.mqttFrames != nil {
		sk.mqttFrames.Close()
	}

	if sk.mqttClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		closeErr := sk.mqttClient.Disconnect(ctx)
		if closeErr != nil && err == nil {
			err = errors.Wrap(closeErr, "mqtt")
		}
	}

	if sk.Influx != nil {
		sk.Influx.Close()
	}

	if sk.driver != nil && sk.driver.IsReady() {
		closeErr := sk.driver.Close()
		if closeErr != nil && err == nil {
			err = errors.Wrapf(closeErr, "%s driver", sk.driver)
		}
	}

	return
}

func (sk *ShiftKit) PrintIoStatus(writer io.Writer) {
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "=== shift register ===")
	fmt.Fprintf(writer, "| driver: %s\n", sk.DriverName)
	if sk.driver != nil {
		fmt.Fprintf(writer, "| out pins: ")
		for _, outpin := range sk.driver.GetAllIo() {
			fmt.Fprintf(writer, "%d, ", outpin)
		}
		fmt.Fprintln(writer)
	}
	fmt.Fprintf(writer, "| data: %d clock: %d latch: %d\n", sk.DataPin, sk.ClockPin, sk.LatchPin)
	fmt.Fprintf(writer, "| pulse width: %s interval: %s\n", sk.pulseWidth, sk.interval)
	fmt.Fprintln(writer, "-----------------------------")
	fmt.Fprintln(writer)
}
