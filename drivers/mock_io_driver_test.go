package drivers

import (
	"bytes"
	"context"
	"testing"
)

func assertBools(t testing.TB, got, want bool) {
	t.Helper()

	if got != want {
		t.Errorf("got %v want %v", got, want)
	}
}

func assertUint16Slices(t testing.TB, got, want []uint16) {
	t.Helper()

	if len(got) != len(want) {
		t.Errorf("len(got) = %d len(want) = %d", len(got), len(want))
		return
	}

	for key, val := range got {
		if want[key] != val {
			t.Errorf("for key [%d] got: %d want: %d", key, val, want[key])
		}
	}
}

func TestMockOutputGetState(t *testing.T) {
	outEnabled := MockOutput{state: true}
	outDisable := MockOutput{state: false}

	stateTrue, _ := outEnabled.GetState()
	stateFalse, _ := outDisable.GetState()

	if stateTrue != true || stateFalse != false {
		t.Error("MockOutput GetState failed")
	}
}

func TestMockOutputSetState(t *testing.T) {
	out := MockOutput{}

	want := true
	out.Set(want)
	got, _ := out.GetState()
	assertBools(t, got, want)

	want = false
	out.Set(want)
	got, _ = out.GetState()
	assertBools(t, got, want)

	want = true
	out.Set(want)
	got, _ = out.GetState()
	assertBools(t, got, want)
}

func TestMockIoSetup(t *testing.T) {
	md := MockIoDriver{}

	want := false
	got := md.IsReady()
	assertBools(t, got, want)

	md.Setup(context.Background(), []uint16{2, 4})
	want = true
	got = md.IsReady()
	assertBools(t, got, want)

	md.Close()
	assertBools(t, md.IsReady(), false)
}

func TestMockIoCloseDrivesLow(t *testing.T) {
	md := MockIoDriver{}
	md.Setup(context.Background(), []uint16{2, 4})
	for _, pin := range md.GetAllIo() {
		out, _ := md.GetOutput(pin)
		out.Set(true)
	}

	md.Close()
	for _, pin := range md.GetAllIo() {
		out, _ := md.GetOutput(pin)
		got, _ := out.GetState()
		assertBools(t, got, false)
	}
}

func TestMockIoGetAllIo(t *testing.T) {
	md := MockIoDriver{}
	md.Setup(context.Background(), []uint16{5, 6, 7})
	outputs := md.GetAllIo()
	assertUint16Slices(t, outputs, []uint16{5, 6, 7})
}

func TestMockGetOutput(t *testing.T) {
	md := MockIoDriver{}
	md.Setup(context.Background(), []uint16{3})
	output, err := md.GetOutput(3)
	if err != nil {
		t.Errorf("GetOutput returned err: %v", err)
	}

	want := true
	output.Set(want)
	got, _ := output.GetState()
	assertBools(t, got, want)

	anotherOut, _ := md.GetOutput(3)
	got, _ = anotherOut.GetState()
	assertBools(t, got, want)

	want = false
	output.Set(want)
	got, _ = output.GetState()
	assertBools(t, got, want)

	_, err = md.GetOutput(4)
	if err == nil {
		t.Error("expected error for missing output")
	}
}

func TestMockSubscribe(t *testing.T) {
	md := MockIoDriver{}
	md.Setup(context.Background(), []uint16{1, 2})

	type change struct {
		pin   uint16
		state bool
	}
	changes := []change{}
	md.Subscribe(func(pin uint16, state bool) {
		changes = append(changes, change{pin, state})
	})

	out1, _ := md.GetOutput(1)
	out2, _ := md.GetOutput(2)
	out1.Set(true)
	out2.Set(false)
	out1.Set(true)

	want := []change{{1, true}, {2, false}, {1, true}}
	if len(changes) != len(want) {
		t.Fatalf("got %d changes want %d", len(changes), len(want))
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change [%d] got %+v want %+v", i, changes[i], want[i])
		}
	}
}

func TestMockMonitorStateChanges(t *testing.T) {
	md := MockIoDriver{}
	md.Setup(context.Background(), []uint16{9})

	buf := &bytes.Buffer{}
	md.MonitorStateChanges(buf)

	out, _ := md.GetOutput(9)
	out.Set(true)
	out.Set(true)
	out.Set(false)

	want := "[pin 9] state changed to true\n[pin 9] state changed to false\n"
	if buf.String() != want {
		t.Errorf("got %q want %q", buf.String(), want)
	}
}
