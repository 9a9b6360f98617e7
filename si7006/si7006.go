// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package si7006 interfaces with the Silicon Labs Si7006 temperature and
// relative humidity sensor.
//
// # Datasheet
//
// https://www.silabs.com/documents/public/data-sheets/Si7006-A20.pdf
//
// The driver keeps the most recent reading of each quantity in a cache and
// only addresses the sensor again once the cached value is older than a
// configurable window (one second by default). It also tracks the running
// minimum and maximum of every quantity for the lifetime of the device
// handle. The cached readings and extremes are exposed both as physic unit
// values and, through the hwmon adapter in monitor.go, as milli-unit
// integers.
//
// Measurements use the hold-master command variants, so a measurement
// transaction blocks the bus for the duration of the conversion (about 20ms
// at the fixed 12/14 bit resolution).
package si7006

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultAddress is the fixed I²C address of the Si7006.
const DefaultAddress uint16 = 0x40

const (
	// Byte commands for the device, hold-master variants.
	cmdMeasureHumidity    byte = 0xe5
	cmdMeasureTemperature byte = 0xe3
	// Returns the temperature sampled implicitly by the last humidity
	// conversion. Defined by the device, unused by this driver.
	cmdReadPreviousTemp byte = 0xe0
	cmdSoftReset        byte = 0xfe

	// First byte of the second serial number access. 0x06 identifies the
	// Si7006 device family.
	deviceFamily byte = 0x06

	// Conversion time for one humidity plus temperature measurement pair.
	minSampleInterval = 25 * time.Millisecond
)

// Second electronic ID access, returns the SNB serial number bytes.
var cmdReadID = []byte{0xfc, 0xc9}

// Opts holds the configuration options for the device.
type Opts struct {
	// MaxAge is how long a completed measurement is served from the cache
	// before the sensor is addressed again. Leave 0 for the default of one
	// second.
	MaxAge time.Duration
	// ValidateCRC enables checksum verification of the electronic ID
	// response. Default is true.
	ValidateCRC bool
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	MaxAge:      time.Second,
	ValidateCRC: true,
}

// metric is the cached state of one measured quantity. Values are milli-units:
// millidegree Celsius or milli-percent relative humidity.
type metric struct {
	cmd     byte
	convert func(code uint16) int64
	valid   bool
	value   int64
	min     int64
	max     int64
	updated time.Time
}

// Dev represents a Si7006 sensor.
type Dev struct {
	d    *i2c.Dev
	opts Opts

	// mu guards both metrics. A refresh of one quantity blocks readers of
	// the other for the duration of the bus transaction.
	mu          sync.Mutex
	temperature metric
	humidity    metric
	shutdown    chan struct{}
}

// New returns a driver for a Si7006 on the given bus. It reads the electronic
// ID from the device and fails with an IdentificationError if the device
// family byte does not identify a Si7006. The Opts can be nil.
func New(bus i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultOpts.MaxAge
	}
	dev := &Dev{d: &i2c.Dev{Bus: bus, Addr: addr}, opts: o}
	dev.temperature = metric{cmd: cmdMeasureTemperature, convert: countToMilliCelsius}
	dev.humidity = metric{cmd: cmdMeasureHumidity, convert: countToMilliPercent}

	id, err := dev.readID()
	if err != nil {
		return nil, fmt.Errorf("si7006: error identifying device: %w", err)
	}
	if id[0] != deviceFamily {
		return nil, &IdentificationError{Got: id[0]}
	}
	return dev, nil
}

// countToMilliCelsius converts a raw conversion result to millidegrees
// Celsius. The multiply-divide-subtract order matches the transfer function
// from the datasheet and must not be reordered.
func countToMilliCelsius(code uint16) int64 {
	return int64(code)*175720/65536 - 46850
}

// countToMilliPercent converts a raw conversion result to milli-percent
// relative humidity. The raw transfer function can produce values slightly
// outside 0..100%; they are reported as-is.
func countToMilliPercent(code uint16) int64 {
	return int64(code)*125000/65536 - 6000
}

func milliCelsius(v int64) physic.Temperature {
	return physic.ZeroCelsius + physic.Temperature(v)*physic.MilliKelvin
}

func milliPercent(v int64) physic.RelativeHumidity {
	return physic.RelativeHumidity(v) * (physic.PercentRH / 1000)
}

// crc8 implements the checksum used by the Si70xx electronic ID reads.
// Polynomial x⁸+x⁵+x⁴+1, zero initialization.
func crc8(bytes []byte) byte {
	var crc byte
	for _, b := range bytes {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = (crc << 1) ^ 0x31
			}
		}
	}
	return crc
}

// readID performs the second electronic ID access and returns the raw 6 byte
// response: SNB_3, SNB_2, CRC, SNB_1, SNB_0, CRC.
func (dev *Dev) readID() ([]byte, error) {
	if err := dev.d.Tx(cmdReadID, nil); err != nil {
		return nil, fmt.Errorf("error sending id command: %w", err)
	}
	r := make([]byte, 6)
	if err := dev.d.Tx(nil, r); err != nil {
		return nil, fmt.Errorf("error reading id: %w", err)
	}
	if dev.opts.ValidateCRC {
		// The second CRC covers all four serial number bytes.
		if crc8(r[:2]) != r[2] || crc8([]byte{r[0], r[1], r[3], r[4]}) != r[5] {
			return nil, errors.New("id crc mismatch")
		}
	}
	return r, nil
}

// refresh runs one measurement transaction for m and folds the result into
// the cached state. On failure the cached state is left untouched. The caller
// must hold dev.mu.
func (dev *Dev) refresh(m *metric) error {
	if err := dev.d.Tx([]byte{m.cmd}, nil); err != nil {
		return fmt.Errorf("si7006: error sending measurement command: %w", err)
	}
	r := make([]byte, 2)
	if err := dev.d.Tx(nil, r); err != nil {
		return fmt.Errorf("si7006: error reading measurement: %w", err)
	}
	value := m.convert(uint16(r[0])<<8 | uint16(r[1]))
	m.value = value
	m.updated = time.Now()
	if m.valid {
		if value < m.min {
			m.min = value
		}
		if value > m.max {
			m.max = value
		}
	} else {
		m.min = value
		m.max = value
		m.valid = true
	}
	return nil
}

// current returns the cached reading for m, refreshing it first when it is
// stale or was never acquired. The caller must hold dev.mu; the staleness
// check deliberately happens under the lock so that readers queued behind a
// refresh re-evaluate it against the fresh timestamp.
func (dev *Dev) current(m *metric) (int64, error) {
	if m.valid && time.Since(m.updated) < dev.opts.MaxAge {
		return m.value, nil
	}
	if err := dev.refresh(m); err != nil {
		if m.valid {
			// Serve the last known good reading alongside the error.
			return m.value, err
		}
		return 0, errors.Join(&NoDataError{}, err)
	}
	return m.value, nil
}

// Temperature returns the current temperature, served from the cache when the
// last reading is younger than Opts.MaxAge. If a refresh fails but an earlier
// reading exists, the stale reading is returned alongside the error.
func (dev *Dev) Temperature() (physic.Temperature, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	v, err := dev.current(&dev.temperature)
	if err != nil && !dev.temperature.valid {
		return 0, err
	}
	return milliCelsius(v), err
}

// Humidity returns the current relative humidity with the same caching and
// failure behavior as Temperature.
func (dev *Dev) Humidity() (physic.RelativeHumidity, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	v, err := dev.current(&dev.humidity)
	if err != nil && !dev.humidity.valid {
		return 0, err
	}
	return milliPercent(v), err
}

// TemperatureExtremes returns the lowest and highest temperature observed
// since the device was opened. It never addresses the sensor and returns a
// NoDataError before the first successful measurement.
func (dev *Dev) TemperatureExtremes() (min, max physic.Temperature, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if !dev.temperature.valid {
		return 0, 0, &NoDataError{}
	}
	return milliCelsius(dev.temperature.min), milliCelsius(dev.temperature.max), nil
}

// HumidityExtremes returns the lowest and highest relative humidity observed
// since the device was opened. It never addresses the sensor and returns a
// NoDataError before the first successful measurement.
func (dev *Dev) HumidityExtremes() (min, max physic.RelativeHumidity, err error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if !dev.humidity.valid {
		return 0, 0, &NoDataError{}
	}
	return milliPercent(dev.humidity.min), milliPercent(dev.humidity.max), nil
}

// Sense reads temperature and humidity from the device through the cache.
// The pressure is always 0, the Si7006 does not measure it. Unlike the cached
// accessors, Sense fails outright on a refresh error.
func (dev *Dev) Sense(e *physic.Env) error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	e.Pressure = 0
	t, err := dev.current(&dev.temperature)
	if err != nil {
		return err
	}
	h, err := dev.current(&dev.humidity)
	if err != nil {
		return err
	}
	e.Temperature = milliCelsius(t)
	e.Humidity = milliPercent(h)
	return nil
}

// SenseContinuous continuously reads from the device and sends the output to
// the returned channel. Readings closer together than Opts.MaxAge repeat the
// cached values. To terminate the read, call Dev.Halt().
func (dev *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		return nil, errors.New("si7006: SenseContinuous already running")
	}
	if interval < minSampleInterval {
		return nil, errors.New("si7006: sample interval is shorter than the device conversion time")
	}
	shutdown := make(chan struct{})
	dev.shutdown = shutdown
	ch := make(chan physic.Env, 16)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		defer close(ch)
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				var e physic.Env
				if err := dev.Sense(&e); err == nil {
					ch <- e
				}
			}
		}
	}()
	return ch, nil
}

// Halt terminates a SenseContinuous command if one is running. Implements
// conn.Resource. The cached readings and extremes are kept.
func (dev *Dev) Halt() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if dev.shutdown != nil {
		close(dev.shutdown)
		dev.shutdown = nil
	}
	return nil
}

// Reset issues a soft reset to the device and waits out the power-up time.
// The cached readings and extremes are not touched; stale values refresh on
// the next read.
func (dev *Dev) Reset() error {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	if err := dev.d.Tx([]byte{cmdSoftReset}, nil); err != nil {
		return fmt.Errorf("si7006: error resetting: %w", err)
	}
	time.Sleep(15 * time.Millisecond)
	return nil
}

// SerialNumber returns the SNB half of the device serial number set at the
// factory. Its most significant byte is the device family code.
func (dev *Dev) SerialNumber() (uint32, error) {
	dev.mu.Lock()
	defer dev.mu.Unlock()
	r, err := dev.readID()
	if err != nil {
		return 0, fmt.Errorf("si7006: error reading serial number: %w", err)
	}
	return uint32(r[0])<<24 | uint32(r[1])<<16 | uint32(r[3])<<8 | uint32(r[4]), nil
}

// Precision returns the smallest change in readings the transfer functions
// can produce. Implements physic.SenseEnv.
func (dev *Dev) Precision(e *physic.Env) {
	// One count is 175720/65536 ≈ 2.7 mC and 125000/65536 ≈ 1.9 m%.
	e.Temperature = 3 * physic.MilliKelvin
	e.Humidity = 2 * (physic.PercentRH / 1000)
	e.Pressure = 0
}

// String returns a string representation of the device.
func (dev *Dev) String() string {
	return "si7006"
}

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
