// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Emulator is a software register block behaving like the hardware one.
//
// Writes to the set and clear registers update an output latch. The level
// of a pin programmed as Output is its latch bit; any other pin reports the
// level last given to Drive.
type Emulator struct {
	mu     sync.Mutex
	fsel   [6]uint32
	latch  [2]uint32
	driven [2]uint32
}

// NewEmulator returns an Emulator with every pin as Input and low.
func NewEmulator() *Emulator {
	return &Emulator{}
}

// Drive sets the external level seen on a pin that is not an output.
func (e *Emulator) Drive(pin int, l gpio.Level) {
	e.mu.Lock()
	defer e.mu.Unlock()
	bit := uint32(1) << uint(pin%32)
	if l {
		e.driven[pin/32] |= bit
	} else {
		e.driven[pin/32] &^= bit
	}
}

func (e *Emulator) FunctionSelect(i int) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fsel[i]
}

func (e *Emulator) SetFunctionSelect(i int, v uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fsel[i] = v
}

func (e *Emulator) OutputSet(i int, v uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latch[i] |= v
}

func (e *Emulator) OutputClear(i int, v uint32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.latch[i] &^= v
}

func (e *Emulator) Level(i int) uint32 {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out uint32
	for bit := 0; bit < 32; bit++ {
		p := i*32 + bit
		if p >= NumPins {
			break
		}
		src := e.driven[i]
		if Function((e.fsel[p/10]>>(uint(p%10)*3))&functionMask) == Output {
			src = e.latch[i]
		}
		out |= src & (1 << uint(bit))
	}
	return out
}

var _ Registers = &Emulator{}
