package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"

	"github.com/hubertat/shiftkit"
)

var (
	Version string
	Build   string

	skService = servicemaker.ServiceMaker{
		User:               "shiftkit",
		UserGroups:         []string{"gpio", "i2c"},
		ServicePath:        "/etc/systemd/system/shiftkit.service",
		ServiceDescription: "ShiftKit service: 8-bit counter on a 74HC595 shift register. github.com/hubertat/shiftkit",
		ExecDir:            "/srv/shiftkit",
		ExecName:           "shiftkit",
	}
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code. Deferred cleanup happens before main
// exits with it.
func run(args []string) int {
	flags := flag.NewFlagSet("shiftkit", flag.ContinueOnError)
	config := flags.String("config", "config.json", "path of the configuration file")
	flagInstall := flags.Bool("install", false, "Install service in os")
	logLevel := flags.String("log-level", "info", "log level (debug, info, warn, error)")

	err := flags.Parse(args)
	if err != nil {
		return 2
	}

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Error("invalid log level", "level", *logLevel, "err", err)
		return 2
	}
	log.SetLevel(level)
	log.Info("shiftkit started", "version", Version, "build", Build)

	if *flagInstall {
		err := skService.InstallService()
		if err != nil {
			log.Error("service install failed", "err", err)
			return 1
		}
		log.Info("service installed!")
		return 0
	}

	sk, err := shiftkit.LoadConfig(*config)
	if err != nil {
		log.Error("config failed, will terminate", "path", *config, "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("will init shiftkit driver...", "driver", sk.DriverName)
	err = sk.InitDrivers(ctx)
	defer sk.Close()
	if err != nil {
		log.Error("driver init failed", "err", err)
		return 1
	}

	if len(sk.MqttBroker) > 0 {
		err = sk.InitMqtt(ctx)
		if err != nil {
			log.Warn("mqtt init failed, we will proceed without it", "err", err)
		}
	} else {
		log.Info("mqtt not configured, disabled")
	}

	if sk.Influx != nil {
		err = sk.InitInflux()
		if err != nil {
			log.Warn("influx init failed, we will proceed without it", "err", err)
		}
	}

	if len(sk.HttpAddr) > 0 {
		err = sk.StartStatusServer()
		if err != nil {
			log.Warn("status server failed, we will proceed without it", "err", err)
		} else {
			log.Info("status server listening", "addr", sk.HttpAddr)
		}
	}

	sk.PrintIoStatus(os.Stdout)

	err = sk.Run(ctx)
	log.Info("counter stopped", "reason", err)
	return 0
}
