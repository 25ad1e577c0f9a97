// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"strconv"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
)

// Function is the 3 bit mode programmed in a pin's function select field.
//
// The alternate function codes are not in numerical order; this is how the
// hardware encodes them.
type Function uint32

const (
	Input  Function = 0b000
	Output Function = 0b001
	Alt0   Function = 0b100
	Alt1   Function = 0b101
	Alt2   Function = 0b110
	Alt3   Function = 0b111
	Alt4   Function = 0b010
	Alt5   Function = 0b011
)

const functionMask = 0b111

var alternates = [...]Function{Alt0, Alt1, Alt2, Alt3, Alt4, Alt5}

func (f Function) String() string {
	switch f {
	case Input:
		return "In"
	case Output:
		return "Out"
	}
	for i, a := range alternates {
		if f == a {
			return "Alt" + strconv.Itoa(i)
		}
	}
	return "Function(" + strconv.Itoa(int(f)) + ")"
}

// Func returns the periph name of the function.
func (f Function) Func() pin.Func {
	switch f {
	case Input:
		return gpio.IN
	case Output:
		return gpio.OUT
	}
	for i, a := range alternates {
		if f == a {
			return pin.Func("ALT" + strconv.Itoa(i))
		}
	}
	return pin.FuncNone
}

// functionFromFunc is the inverse of Function.Func.
func functionFromFunc(f pin.Func) (Function, bool) {
	switch f {
	case gpio.IN:
		return Input, true
	case gpio.OUT:
		return Output, true
	}
	for _, a := range alternates {
		if a.Func() == f {
			return a, true
		}
	}
	return 0, false
}
