// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package miscdev implements a character device backed by a 4096 bytes
// memory buffer that drives an LED.
//
// A Device is the shared context of one device node: the buffer and the GPIO
// controller, each behind its own lock. Register publishes a Device under a
// name; every Open returns a File referencing the same Device.
//
// Writing "1" at any offset drives the LED pin high, "0" drives it low. Any
// other first byte is stored but answered with ErrInvalid.
//
// # Locking
//
// The buffer lock is always taken before the GPIO lock. Write takes the GPIO
// lock while still holding the buffer lock and drops the buffer lock before
// touching the pin, so LED updates are applied in the order the buffer saw
// them while readers are not held up by register accesses.
package miscdev
