// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hwmon defines a small hardware monitoring contract for sensor
// drivers: fixed sensor types, per-channel statistics, read-only visibility
// and textual labels, plus a process wide registry so tools can look up a
// monitored chip by name.
//
// Values read through a Chip are plain integers in milli-units of the sensor
// type: millidegree Celsius for temperature, milli-percent for relative
// humidity. This mirrors the convention used by kernel hardware monitoring
// interfaces and keeps the contract free of driver specific value types.
package hwmon

import (
	"errors"
	"fmt"
	"sync"
)

// SensorType identifies the physical quantity a channel measures.
type SensorType int

const (
	Temperature SensorType = iota
	Humidity
)

func (t SensorType) String() string {
	switch t {
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	}
	return fmt.Sprintf("SensorType(%d)", int(t))
}

// Attribute selects which statistic of a channel is accessed.
type Attribute int

const (
	// Input is the current reading.
	Input Attribute = iota
	// Min is the lowest reading observed since the chip was opened.
	Min
	// Max is the highest reading observed since the chip was opened.
	Max
)

func (a Attribute) String() string {
	switch a {
	case Input:
		return "input"
	case Min:
		return "min"
	case Max:
		return "max"
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

// Mode describes how a {type, attribute, channel} triple may be accessed.
type Mode int

const (
	// ModeNone marks an attribute that is not exposed at all.
	ModeNone Mode = iota
	// ModeRead marks a read-only attribute.
	ModeRead
)

// ErrNotSupported is returned when a read names a statistic or channel
// outside the fixed set a chip exposes.
var ErrNotSupported = errors.New("hwmon: operation not supported")

// Chip is the read contract a monitored device exposes.
type Chip interface {
	// Visible reports how the given attribute of a channel may be accessed.
	Visible(t SensorType, a Attribute, channel int) Mode
	// Read returns the value of the given attribute in milli-units.
	Read(t SensorType, a Attribute, channel int) (int64, error)
	// Label returns the fixed human readable name of a channel.
	Label(t SensorType, channel int) (string, error)
}

var (
	mu     sync.RWMutex
	byName = map[string]Chip{}
)

// Register makes a chip available to Open under the given name.
func Register(name string, c Chip) error {
	if name == "" {
		return errors.New("hwmon: can't register a chip with no name")
	}
	if c == nil {
		return errors.New("hwmon: can't register a nil chip")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[name]; ok {
		return fmt.Errorf("hwmon: registering the same chip %q twice", name)
	}
	byName[name] = c
	return nil
}

// Unregister removes a previously registered chip.
func Unregister(name string) error {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[name]; !ok {
		return fmt.Errorf("hwmon: unknown chip name %q", name)
	}
	delete(byName, name)
	return nil
}

// Open returns a chip registered under the given name.
func Open(name string) (Chip, error) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("hwmon: no chip registered as %q", name)
	}
	return c, nil
}

// All returns a snapshot of the registered chips keyed by name.
func All() map[string]Chip {
	mu.RLock()
	defer mu.RUnlock()
	out := make(map[string]Chip, len(byName))
	for k, v := range byName {
		out[k] = v
	}
	return out
}
