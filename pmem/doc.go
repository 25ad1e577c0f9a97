// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pmem maps physical memory windows into the process.
//
// A Region is the single owner of one mapping. Drivers hand out views of the
// mapped bytes but never a second mapping; the window stays valid until
// Region.Close is called, which unmaps it exactly once.
//
// On a Raspberry Pi /dev/gpiomem exposes only the GPIO block and does not
// require root, while /dev/mem exposes all of physical memory. MapGPIO tries
// the former first.
package pmem
