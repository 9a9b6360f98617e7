// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package si7006

import (
	"github.com/openeyes-lab/si7006-hwmon/hwmon"
)

// Channel labels reported through the monitoring interface. The sensor sits
// on the carrier board, hence the board-centric names.
const (
	temperatureLabel = "BOARD TEMP"
	humidityLabel    = "BOARD HR"
)

// Monitor exposes the device through the hwmon chip contract: one read-only
// channel per quantity with input, min and max statistics. Values are
// reported in milli-units.
func (dev *Dev) Monitor() hwmon.Chip {
	return &monitor{dev: dev}
}

type monitor struct {
	dev *Dev
}

func (m *monitor) Visible(t hwmon.SensorType, a hwmon.Attribute, channel int) hwmon.Mode {
	if channel != 0 {
		return hwmon.ModeNone
	}
	switch t {
	case hwmon.Temperature, hwmon.Humidity:
		switch a {
		case hwmon.Input, hwmon.Min, hwmon.Max:
			return hwmon.ModeRead
		}
	}
	return hwmon.ModeNone
}

func (m *monitor) Read(t hwmon.SensorType, a hwmon.Attribute, channel int) (int64, error) {
	if channel != 0 {
		return 0, hwmon.ErrNotSupported
	}
	switch t {
	case hwmon.Temperature:
		return m.read(&m.dev.temperature, a)
	case hwmon.Humidity:
		return m.read(&m.dev.humidity, a)
	}
	return 0, hwmon.ErrNotSupported
}

// read serves one statistic of met. Input goes through the cache and may
// trigger a measurement, min and max never address the sensor.
func (m *monitor) read(met *metric, a hwmon.Attribute) (int64, error) {
	m.dev.mu.Lock()
	defer m.dev.mu.Unlock()
	switch a {
	case hwmon.Input:
		return m.dev.current(met)
	case hwmon.Min:
		if !met.valid {
			return 0, &NoDataError{}
		}
		return met.min, nil
	case hwmon.Max:
		if !met.valid {
			return 0, &NoDataError{}
		}
		return met.max, nil
	}
	return 0, hwmon.ErrNotSupported
}

func (m *monitor) Label(t hwmon.SensorType, channel int) (string, error) {
	if channel != 0 {
		return "", hwmon.ErrNotSupported
	}
	switch t {
	case hwmon.Temperature:
		return temperatureLabel, nil
	case hwmon.Humidity:
		return humidityLabel, nil
	}
	return "", hwmon.ErrNotSupported
}

var _ hwmon.Chip = &monitor{}
