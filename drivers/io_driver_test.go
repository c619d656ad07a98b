package drivers

import "testing"

func TestMapAllIoDrivers(t *testing.T) {
	mapped := MapAllIoDrivers()

	for _, name := range []string{"gpio", "periph", "mcpio", "mock_driver"} {
		t.Run(name, func(t *testing.T) {
			driver, found := mapped[name]
			if !found {
				t.Fatalf("driver %s not mapped", name)
			}
			if driver.String() != name {
				t.Errorf("got %s want %s", driver.String(), name)
			}
			if driver.IsReady() {
				t.Errorf("driver %s should not be ready before Setup", name)
			}
		})
	}
}

func TestGetIoDriverByName(t *testing.T) {
	t.Run("McpIO", func(t *testing.T) {
		mcp := McpIO{}
		got := mcp.String()
		want := "mcpio"

		if got != want {
			t.Errorf("got %s want %s", got, want)
		}
	})

	t.Run("GpIO", func(t *testing.T) {
		gp := GpIO{}
		got := gp.String()
		want := "gpio"

		if got != want {
			t.Errorf("got %s want %s", got, want)
		}
	})

	t.Run("PeriphIO", func(t *testing.T) {
		pio := PeriphIO{}
		got := pio.String()
		want := "periph"

		if got != want {
			t.Errorf("got %s want %s", got, want)
		}
	})
}

func TestGpioOutputOutOfRange(t *testing.T) {
	gp := GpIO{}
	_, err := gp.GetOutput(300)
	if err == nil {
		t.Error("expected out of range error")
	}
}

func TestPeriphPinName(t *testing.T) {
	pio := PeriphIO{}
	if got := pio.pinName(17); got != "GPIO17" {
		t.Errorf("got %s want GPIO17", got)
	}

	pio.PinPrefix = "P1_"
	if got := pio.pinName(11); got != "P1_11" {
		t.Errorf("got %s want P1_11", got)
	}
}
