// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pin is one GPIO line of a Controller. Pin implements gpio.PinIO and
// pin.PinFunc.
//
// Every call holds the Controller lock for its duration.
type Pin struct {
	number int
	name   string
	c      *Controller
}

// Pins returns one Pin per GPIO line, named GPIO0 to GPIO53.
func (c *Controller) Pins() []*Pin {
	out := make([]*Pin, NumPins)
	for i := range out {
		out[i] = &Pin{number: i, name: "GPIO" + strconv.Itoa(i), c: c}
	}
	return out
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource. There is nothing to stop.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.number
}

// Deprecated: Use PinFunc.Func. Will be removed in v4. Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	p.c.Lock()
	defer p.c.Unlock()
	f, err := p.c.Function(p.number)
	if err != nil {
		return pin.FuncNone
	}
	switch f {
	case Input:
		if l, _ := p.c.ReadValue(p.number); l {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case Output:
		if l, _ := p.c.ReadValue(p.number); l {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	}
	return f.Func()
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	out := []pin.Func{gpio.IN, gpio.OUT}
	for _, a := range alternates {
		out = append(out, a.Func())
	}
	return out
}

// SetFunc implements pin.PinFunc.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	}
	fn, ok := functionFromFunc(f)
	if !ok {
		return p.wrap(errors.Errorf("unsupported function %q", f))
	}
	p.c.Lock()
	defer p.c.Unlock()
	return p.wrap(p.c.SetFunction(p.number, fn))
}

// In implements gpio.PinIn.
//
// Pull resistors and edge detection are not driven by this package.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if pull != gpio.PullNoChange && pull != gpio.Float {
		return p.wrap(errors.New("doesn't support pull-up/pull-down"))
	}
	if edge != gpio.NoEdge {
		return p.wrap(errors.New("doesn't support edge detection"))
	}
	p.c.Lock()
	defer p.c.Unlock()
	return p.wrap(p.c.SetFunction(p.number, Input))
}

// Read implements gpio.PinIn.
func (p *Pin) Read() gpio.Level {
	p.c.Lock()
	defer p.c.Unlock()
	l, err := p.c.ReadValue(p.number)
	if err != nil {
		return gpio.Low
	}
	return l
}

// WaitForEdge implements gpio.PinIn. Edge detection is not supported.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
func (p *Pin) Pull() gpio.Pull {
	return gpio.PullNoChange
}

// DefaultPull implements gpio.PinIn.
func (p *Pin) DefaultPull() gpio.Pull {
	return gpio.PullNoChange
}

// Out implements gpio.PinOut.
//
// The level is latched before the pin is switched to Output so it doesn't
// glitch.
func (p *Pin) Out(l gpio.Level) error {
	p.c.Lock()
	defer p.c.Unlock()
	if err := p.c.SetValue(p.number, l); err != nil {
		return p.wrap(err)
	}
	if f, err := p.c.Function(p.number); err != nil || f == Output {
		return p.wrap(err)
	}
	return p.wrap(p.c.SetFunction(p.number, Output))
}

// PWM implements gpio.PinOut.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return p.wrap(errors.New("PWM() not implemented"))
}

// MarshalJSON reports the pin number, name and current function.
func (p *Pin) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Number   int      `json:"Number"`
		Name     string   `json:"Name"`
		Function pin.Func `json:"Function"`
	}{
		Number:   p.number,
		Name:     p.name,
		Function: p.Func(),
	})
}

func (p *Pin) wrap(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "bcm283x-gpio (%s)", p)
}

// Ensure that Interfaces for these types are implemented fully.
var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
