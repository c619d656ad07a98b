package influx

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/pkg/errors"
)

const defaultMeasurement = "shift_register"

// FrameWriter stores every latched value as a point. Writes are batched
// by the non-blocking write api.
type FrameWriter struct {
	Host         string
	Organization string
	Bucket       string
	Measurement  string
	Token        string

	Tags map[string]string

	client   influxdb2.Client
	writeApi api.WriteAPI
	logger   *log.Logger
	done     chan struct{}
}

func (fw *FrameWriter) Setup() error {
	if len(fw.Host) == 0 || len(fw.Bucket) == 0 {
		return errors.New("influx Host and Bucket are required")
	}
	if len(fw.Measurement) == 0 {
		fw.Measurement = defaultMeasurement
	}

	fw.logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "influx",
		Level:  log.GetLevel(),
	})

	fw.client = influxdb2.NewClient(fw.Host, fw.Token)
	fw.writeApi = fw.client.WriteAPI(fw.Organization, fw.Bucket)
	fw.done = make(chan struct{})

	errs := fw.writeApi.Errors()
	go func() {
		for {
			select {
			case err := <-errs:
				fw.logger.Warn("write failed", "err", err)
			case <-fw.done:
				return
			}
		}
	}()

	return nil
}

func (fw *FrameWriter) FrameLatched(value uint8) {
	if fw.writeApi == nil {
		return
	}
	fw.writeApi.WritePoint(fw.point(value, time.Now()))
}

func (fw *FrameWriter) point(value uint8, ts time.Time) *write.Point {
	return influxdb2.NewPoint(
		fw.Measurement,
		fw.Tags,
		map[string]interface{}{
			"value": int64(value),
		},
		ts,
	)
}

func (fw *FrameWriter) Close() error {
	if fw.client == nil {
		return nil
	}
	fw.writeApi.Flush()
	close(fw.done)
	fw.client.Close()
	return nil
}
