// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// NumPins is the number of GPIO lines of the controller.
	NumPins = 54
	// BlockSize is the size of the mapped register block, including the
	// reserved words that trail the named registers.
	BlockSize = 0xB4
)

// Registers is the accessor surface of the register block. It is the only
// place register indexes turn into memory accesses.
//
// Set and clear are write-only and act on the bits written as 1; the level
// registers are read-only.
type Registers interface {
	FunctionSelect(i int) uint32
	SetFunctionSelect(i int, v uint32)
	OutputSet(i int, v uint32)
	OutputClear(i int, v uint32)
	Level(i int) uint32
}

// gpioMap is the layout of the register block.
//
// Page 90.
type gpioMap struct {
	// 0x00 RW GPIO Function Select 0..5
	functionSelect [6]uint32
	// 0x18 -
	_ uint32
	// 0x1C WO GPIO Pin Output Set 0..1
	outputSet [2]uint32
	// 0x24 -
	_ uint32
	// 0x28 WO GPIO Pin Output Clear 0..1
	outputClear [2]uint32
	// 0x30 -
	_ uint32
	// 0x34 RO GPIO Pin Level 0..1
	level [2]uint32
	// 0x3C -
	_ uint32
	// 0x40 RW GPIO Pin Event Detect Status 0..1
	eventDetectStatus [2]uint32
	// 0x48 -
	_ uint32
	// 0x4C RW GPIO Pin Rising Edge Detect Enable 0..1
	risingEdgeDetectEnable [2]uint32
	// 0x54 -
	_ uint32
	// 0x58 RW GPIO Pin Falling Edge Detect Enable 0..1
	fallingEdgeDetectEnable [2]uint32
	// 0x60 -
	_ uint32
	// 0x64 RW GPIO Pin High Detect Enable 0..1
	highDetectEnable [2]uint32
	// 0x6C -
	_ uint32
	// 0x70 RW GPIO Pin Low Detect Enable 0..1
	lowDetectEnable [2]uint32
	// 0x78 -
	_ uint32
	// 0x7C RW GPIO Pin Async Rising Edge Detect 0..1
	asyncRisingEdgeDetectEnable [2]uint32
	// 0x84 -
	_ uint32
	// 0x88 RW GPIO Pin Async Falling Edge Detect 0..1
	asyncFallingEdgeDetectEnable [2]uint32
	// 0x90 -
	_ uint32
	// 0x94 RW GPIO Pin Pull-up/down Enable
	pullEnable uint32
	// 0x98 RW GPIO Pin Pull-up/down Enable Clock 0..1
	pullEnableClock [2]uint32
	// 0xA0 - up to BlockSize, including the test register
	_ [5]uint32
}

// mappedRegisters reads and writes a gpioMap laid over mapped memory.
type mappedRegisters struct {
	m *gpioMap
}

func newMappedRegisters(b []byte) (*mappedRegisters, error) {
	if len(b) < int(unsafe.Sizeof(gpioMap{})) {
		return nil, errors.Errorf("bcm283x: register window is %d bytes, need %d", len(b), unsafe.Sizeof(gpioMap{}))
	}
	if uintptr(unsafe.Pointer(&b[0]))%4 != 0 {
		return nil, errors.New("bcm283x: register window is not 32 bits aligned")
	}
	return &mappedRegisters{m: (*gpioMap)(unsafe.Pointer(&b[0]))}, nil
}

func (r *mappedRegisters) FunctionSelect(i int) uint32 {
	return r.m.functionSelect[i]
}

func (r *mappedRegisters) SetFunctionSelect(i int, v uint32) {
	r.m.functionSelect[i] = v
}

func (r *mappedRegisters) OutputSet(i int, v uint32) {
	r.m.outputSet[i] = v
}

func (r *mappedRegisters) OutputClear(i int, v uint32) {
	r.m.outputClear[i] = v
}

func (r *mappedRegisters) Level(i int) uint32 {
	return r.m.level[i]
}

var _ Registers = &mappedRegisters{}
