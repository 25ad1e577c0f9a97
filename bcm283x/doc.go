// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x drives the GPIO controller of the Broadcom BCM2835, BCM2836
// and BCM2837 through its memory mapped register block.
//
// # Datasheet
//
// https://www.raspberrypi.org/documentation/hardware/raspberrypi/bcm2835/BCM2835-ARM-Peripherals.pdf
//
// Page 89 onward describes the GPIO registers. Each of the 54 pins has a 3
// bit function select field packed ten per register, and one bit in each of
// the set, clear and level register pairs.
//
// The Controller is a thin shim: it does not lock by itself. Callers that
// share a Controller between goroutines serialize through Lock and Unlock.
// Pin, the periph gpio.PinIO adapter, does so for every call.
package bcm283x
