// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"io"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/ledmisc/internal/logging"
	"periph.io/x/ledmisc/pmem"
)

var (
	// ErrPinRange is returned for pin numbers outside [0, NumPins).
	ErrPinRange = errors.New("bcm283x: pin out of range")
	// ErrClosed is returned once the register block was unmapped.
	ErrClosed = errors.New("bcm283x: controller is closed")
)

// DefaultPins are switched to Output by InitDefaults. This is the LED board
// wiring, not something the hardware needs.
var DefaultPins = []int{2, 3, 4, 17}

// Controller owns one GPIO register block.
//
// Copying a *Controller shares access to the block, it doesn't duplicate the
// mapping. Close releases the mapping; every later operation returns
// ErrClosed.
type Controller struct {
	mu     sync.Mutex
	regs   Registers
	region io.Closer
	log    *logrus.Entry
}

// NewController returns a Controller over regs. It doesn't own any mapping.
func NewController(regs Registers, log *logrus.Entry) *Controller {
	if log == nil {
		log = logging.Default("bcm283x")
	}
	return &Controller{regs: regs, log: log}
}

// Open returns a Controller over a mapped register window. The Controller
// takes ownership of r and unmaps it on Close.
func Open(r *pmem.Region, log *logrus.Entry) (*Controller, error) {
	regs, err := newMappedRegisters(r.Bytes())
	if err != nil {
		return nil, err
	}
	c := NewController(regs, log)
	c.region = r
	c.log.WithField("region", r.String()).Info("register block mapped")
	return c, nil
}

// OpenMapped maps the register block at the physical address base and
// returns a Controller owning it. A zero base is resolved from the device
// tree.
func OpenMapped(base uint64, log *logrus.Entry) (*Controller, error) {
	if base == 0 {
		base = gpioBaseAddress(deviceTreeRoot)
	}
	r, err := pmem.MapGPIO(base, BlockSize)
	if err != nil {
		return nil, errors.Wrap(err, "bcm283x")
	}
	c, err := Open(r, log)
	if err != nil {
		_ = r.Close()
		return nil, err
	}
	return c, nil
}

// Lock acquires exclusive access to the register block.
func (c *Controller) Lock() {
	c.mu.Lock()
}

// Unlock releases the access acquired by Lock.
func (c *Controller) Unlock() {
	c.mu.Unlock()
}

// SetFunction programs the function of pin.
//
// It is a read-modify-write of the function select register so the nine
// other pins packed in the same register keep their function.
func (c *Controller) SetFunction(pin int, f Function) error {
	if err := c.check(pin); err != nil {
		return err
	}
	index := pin / 10
	shift := uint(pin%10) * 3
	v := c.regs.FunctionSelect(index)
	v &^= functionMask << shift
	v |= (uint32(f) & functionMask) << shift
	c.regs.SetFunctionSelect(index, v)
	return nil
}

// Function returns the function currently programmed for pin.
func (c *Controller) Function(pin int) (Function, error) {
	if err := c.check(pin); err != nil {
		return 0, err
	}
	shift := uint(pin%10) * 3
	return Function((c.regs.FunctionSelect(pin/10) >> shift) & functionMask), nil
}

// SetValue drives pin high or low.
//
// High writes the pin's bit to the set register, Low to the clear register.
// Both are write-only and ignore zero bits, so no read is needed.
func (c *Controller) SetValue(pin int, l gpio.Level) error {
	if err := c.check(pin); err != nil {
		return err
	}
	bit := uint32(1) << uint(pin%32)
	if l {
		c.regs.OutputSet(pin/32, bit)
	} else {
		c.regs.OutputClear(pin/32, bit)
	}
	return nil
}

// ReadValue returns the electrical level of pin.
func (c *Controller) ReadValue(pin int) (gpio.Level, error) {
	if err := c.check(pin); err != nil {
		return gpio.Low, err
	}
	shift := uint(pin % 32)
	return gpio.Level((c.regs.Level(pin/32)>>shift)&1 == 1), nil
}

// InitDefaults switches DefaultPins to Output.
func (c *Controller) InitDefaults() error {
	for _, p := range DefaultPins {
		if err := c.SetFunction(p, Output); err != nil {
			return err
		}
	}
	c.log.WithField("pins", DefaultPins).Debug("default pins set to output")
	return nil
}

// Close unmaps the register block if the Controller owns it.
//
// Close takes the lock itself and waits for the operation in progress, so
// the caller must not hold it.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.regs == nil {
		return ErrClosed
	}
	c.regs = nil
	if c.region == nil {
		return nil
	}
	err := c.region.Close()
	c.region = nil
	c.log.Info("register block unmapped")
	return err
}

func (c *Controller) check(pin int) error {
	if c.regs == nil {
		return ErrClosed
	}
	if pin < 0 || pin >= NumPins {
		c.log.WithField("pin", pin).Warn("pin out of range")
		return errors.Wrapf(ErrPinRange, "pin %d", pin)
	}
	return nil
}
