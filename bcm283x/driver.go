// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Default returns the Controller mapped by the driver, or nil if the driver
// didn't load.
func Default() *Controller {
	drv.mu.Lock()
	defer drv.mu.Unlock()
	return drv.c
}

// RegisterPins adds every Pin of c to gpioreg and returns them.
//
// On failure the pins registered so far are removed again.
func RegisterPins(c *Controller) ([]*Pin, error) {
	pins := c.Pins()
	for i, p := range pins {
		if err := gpioreg.Register(p); err != nil {
			for _, r := range pins[:i] {
				_ = gpioreg.Unregister(r.Name())
			}
			return nil, errors.Wrap(err, "bcm283x")
		}
	}
	return pins, nil
}

// driverGPIO implements periph.Driver.
type driverGPIO struct {
	mu   sync.Mutex
	c    *Controller
	pins []*Pin
	// detect and open are mocked in tests.
	detect func() bool
	open   func() (*Controller, error)
}

func (d *driverGPIO) String() string {
	return "bcm283x-gpio"
}

func (d *driverGPIO) Prerequisites() []string {
	return nil
}

func (d *driverGPIO) After() []string {
	return nil
}

// Init maps the register block and registers the pins.
//
// The driver is skipped when neither /dev/gpiomem nor /dev/mem exist.
func (d *driverGPIO) Init() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.detect() {
		return false, errors.New("bcm283x CPU not detected")
	}
	c, err := d.open()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, err
		}
		return true, err
	}
	pins, err := RegisterPins(c)
	if err != nil {
		_ = c.Close()
		return true, err
	}
	d.c = c
	d.pins = pins
	return true, nil
}

func (d *driverGPIO) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.pins {
		_ = gpioreg.Unregister(p.Name())
	}
	if d.c != nil {
		_ = d.c.Close()
	}
	d.c = nil
	d.pins = nil
	d.detect = func() bool {
		return isBCM283x(deviceTreeRoot)
	}
	d.open = func() (*Controller, error) {
		return OpenMapped(0, nil)
	}
}

func init() {
	drv.reset()
	driverreg.MustRegister(&drv)
}

var drv driverGPIO
