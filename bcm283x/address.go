// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"encoding/binary"
	"os"
	"path"
	"strings"
)

const (
	deviceTreeRoot = "/proc/device-tree"
	// defaultPeripheralBase is the BCM2836/BCM2837 (Pi 2, Pi 3) value.
	defaultPeripheralBase = 0x3F000000
	// gpioOffset is the GPIO block offset inside the peripheral window.
	gpioOffset = 0x200000
)

// gpioBaseAddress returns the physical address of the GPIO register block.
//
// The peripheral base comes from soc/ranges in the device tree. Its first
// cell is the bus address, followed by the CPU address as one cell on
// 32 bits SoCs or two on the BCM2711. Defaults to defaultPeripheralBase.
func gpioBaseAddress(root string) uint64 {
	return peripheralBase(root) + gpioOffset
}

func peripheralBase(root string) uint64 {
	b, err := os.ReadFile(path.Join(root, "soc/ranges"))
	if err != nil || len(b) < 8 {
		return defaultPeripheralBase
	}
	if base := binary.BigEndian.Uint32(b[4:8]); base != 0 {
		return uint64(base)
	}
	if len(b) < 12 {
		return defaultPeripheralBase
	}
	if base := binary.BigEndian.Uint32(b[8:12]); base != 0 {
		return uint64(base)
	}
	return defaultPeripheralBase
}

// isBCM283x reports whether the device tree describes a Broadcom SoC with
// this GPIO block.
func isBCM283x(root string) bool {
	b, err := os.ReadFile(path.Join(root, "compatible"))
	if err != nil {
		return false
	}
	// The file is a list of NUL terminated strings.
	for _, c := range strings.Split(string(b), "\x00") {
		switch c {
		case "brcm,bcm2835", "brcm,bcm2836", "brcm,bcm2837":
			return true
		}
	}
	return false
}
