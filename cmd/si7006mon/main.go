// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// si7006mon periodically reads a Si7006 board sensor and prints the current
// reading and the running extremes of each channel to the terminal, with a
// color block indicating where the current value sits in the channel range.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/openeyes-lab/si7006-hwmon/hwmon"
	"github.com/openeyes-lab/si7006-hwmon/si7006"
)

// scale maps a milli-unit value onto a cold-to-warm color ramp.
func scale(v, low, high int64) color.NRGBA {
	if v < low {
		v = low
	} else if v > high {
		v = high
	}
	f := float64(v-low) / float64(high-low)
	return color.NRGBA{R: uint8(255 * f), G: 0, B: uint8(255 * (1 - f)), A: 255}
}

func colorFor(t hwmon.SensorType, v int64) color.NRGBA {
	if t == hwmon.Temperature {
		// -10C to 50C.
		return scale(v, -10000, 50000)
	}
	// 0% to 100% RH.
	return scale(v, 0, 100000)
}

func printReadout(w io.Writer, chip hwmon.Chip) error {
	for _, st := range []hwmon.SensorType{hwmon.Temperature, hwmon.Humidity} {
		label, err := chip.Label(st, 0)
		if err != nil {
			return err
		}
		cur, err := chip.Read(st, hwmon.Input, 0)
		if err != nil {
			return fmt.Errorf("reading %s: %w", st, err)
		}
		min, err := chip.Read(st, hwmon.Min, 0)
		if err != nil {
			return fmt.Errorf("reading %s min: %w", st, err)
		}
		max, err := chip.Read(st, hwmon.Max, 0)
		if err != nil {
			return fmt.Errorf("reading %s max: %w", st, err)
		}
		block := ansi256.Default.Block(colorFor(st, cur))
		fmt.Fprintf(w, "%s\033[0m %-10s %9.3f  min %9.3f  max %9.3f\n",
			block, label, float64(cur)/1000, float64(min)/1000, float64(max)/1000)
	}
	return nil
}

func mainImpl() error {
	busName := flag.String("bus", "", "I²C bus to use (default: the first available)")
	addr := flag.Int("addr", int(si7006.DefaultAddress), "I²C address of the sensor")
	interval := flag.Duration("interval", 2*time.Second, "time between readouts")
	once := flag.Bool("once", false, "print a single readout and exit")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := si7006.New(bus, uint16(*addr), nil)
	if err != nil {
		return err
	}
	if err := hwmon.Register(dev.String(), dev.Monitor()); err != nil {
		return err
	}
	chip, err := hwmon.Open(dev.String())
	if err != nil {
		return err
	}

	out := colorable.NewColorableStdout()
	for {
		if err := printReadout(out, chip); err != nil {
			log.Print(err)
		}
		if *once {
			return nil
		}
		time.Sleep(*interval)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		log.Fatalf("si7006mon: %s", err)
	}
}
