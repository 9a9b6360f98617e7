// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7006

import (
	"errors"
	"testing"

	"github.com/openeyes-lab/si7006-hwmon/hwmon"
)

func TestMonitorVisible(t *testing.T) {
	chip := getDev(t).Monitor()
	for _, st := range []hwmon.SensorType{hwmon.Temperature, hwmon.Humidity} {
		for _, a := range []hwmon.Attribute{hwmon.Input, hwmon.Min, hwmon.Max} {
			if m := chip.Visible(st, a, 0); m != hwmon.ModeRead {
				t.Errorf("Visible(%s, %s, 0)=%d expected ModeRead", st, a, m)
			}
			if m := chip.Visible(st, a, 1); m != hwmon.ModeNone {
				t.Errorf("Visible(%s, %s, 1)=%d expected ModeNone", st, a, m)
			}
		}
		if m := chip.Visible(st, hwmon.Attribute(42), 0); m != hwmon.ModeNone {
			t.Errorf("Visible(%s, unknown, 0)=%d expected ModeNone", st, m)
		}
	}
	if m := chip.Visible(hwmon.SensorType(42), hwmon.Input, 0); m != hwmon.ModeNone {
		t.Errorf("Visible(unknown, input, 0)=%d expected ModeNone", m)
	}
}

func TestMonitorRead(t *testing.T) {
	dev := getDev(t,
		pbMeasure(cmdMeasureTemperature, 0x6640), // 23335 mC
		pbMeasure(cmdMeasureHumidity, 0x7c80),    // 54791 m%
	)
	chip := dev.Monitor()

	v, err := chip.Read(hwmon.Temperature, hwmon.Input, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 23335 {
		t.Errorf("temperature input=%d expected 23335", v)
	}
	v, err = chip.Read(hwmon.Humidity, hwmon.Input, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 54791 {
		t.Errorf("humidity input=%d expected 54791", v)
	}

	// Min and max never address the bus; the playback is exhausted.
	for _, a := range []hwmon.Attribute{hwmon.Min, hwmon.Max} {
		v, err = chip.Read(hwmon.Temperature, a, 0)
		if err != nil {
			t.Fatal(err)
		}
		if v != 23335 {
			t.Errorf("temperature %s=%d expected 23335", a, v)
		}
		v, err = chip.Read(hwmon.Humidity, a, 0)
		if err != nil {
			t.Fatal(err)
		}
		if v != 54791 {
			t.Errorf("humidity %s=%d expected 54791", a, v)
		}
	}
}

func TestMonitorReadNotSupported(t *testing.T) {
	dev := getDev(t)
	chip := dev.Monitor()

	cases := []struct {
		t  hwmon.SensorType
		a  hwmon.Attribute
		ch int
	}{
		{hwmon.Temperature, hwmon.Attribute(42), 0},
		{hwmon.Temperature, hwmon.Input, 1},
		{hwmon.Humidity, hwmon.Input, 1},
		{hwmon.SensorType(42), hwmon.Input, 0},
	}
	for _, c := range cases {
		if _, err := chip.Read(c.t, c.a, c.ch); !errors.Is(err, hwmon.ErrNotSupported) {
			t.Errorf("Read(%s, %s, %d) err=%v expected ErrNotSupported", c.t, c.a, c.ch, err)
		}
	}
	// Rejected reads never mutate the cached state.
	if dev.temperature.valid || dev.humidity.valid {
		t.Error("unsupported read mutated the cached state")
	}

	// Min/max before any successful acquisition report no data rather than 0.
	var noData *NoDataError
	if _, err := chip.Read(hwmon.Temperature, hwmon.Min, 0); !errors.As(err, &noData) {
		t.Errorf("expected a NoDataError, got %v", err)
	}
	if _, err := chip.Read(hwmon.Humidity, hwmon.Max, 0); !errors.As(err, &noData) {
		t.Errorf("expected a NoDataError, got %v", err)
	}
}

func TestMonitorLabel(t *testing.T) {
	chip := getDev(t).Monitor()
	label, err := chip.Label(hwmon.Temperature, 0)
	if err != nil {
		t.Fatal(err)
	}
	if label != "BOARD TEMP" {
		t.Errorf("temperature label=%q", label)
	}
	label, err = chip.Label(hwmon.Humidity, 0)
	if err != nil {
		t.Fatal(err)
	}
	if label != "BOARD HR" {
		t.Errorf("humidity label=%q", label)
	}
	if _, err = chip.Label(hwmon.Temperature, 1); !errors.Is(err, hwmon.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for channel 1, got %v", err)
	}
	if _, err = chip.Label(hwmon.SensorType(42), 0); !errors.Is(err, hwmon.ErrNotSupported) {
		t.Errorf("expected ErrNotSupported for an unknown type, got %v", err)
	}
}
