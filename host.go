// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledmisc exposes an LED wired to a Raspberry Pi GPIO line through a
// memory backed character device.
//
// The register driver lives in bcm283x, the device in miscdev.
package ledmisc

import "periph.io/x/conn/v3/driver/driverreg"

// Init calls driverreg.Init() and returns it as-is.
//
// The only difference is that by calling ledmisc.Init(), you are guaranteed
// to have the bcm283x driver implicitly loaded on ARM hosts.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}
