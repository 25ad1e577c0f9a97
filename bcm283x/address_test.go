// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"os"
	"path"
	"testing"
)

func createRanges(t *testing.T, root string, content []byte) string {
	if err := os.MkdirAll(path.Join(root, "soc"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path.Join(root, "soc/ranges"), content, 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestGPIOBaseAddress_default(t *testing.T) {
	want := uint64(0x3F200000)
	if address := gpioBaseAddress("/dev/null"); address != want {
		t.Errorf("Expected 0x%x received 0x%x", want, address)
	}
}

func TestGPIOBaseAddress_pi1(t *testing.T) {
	root := createRanges(t, t.TempDir(), []byte{
		0x7e, 0x00, 0x00, 0x00,
		0x20, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	})
	want := uint64(0x20200000)
	if address := gpioBaseAddress(root); address != want {
		t.Errorf("Expected 0x%x received 0x%x", want, address)
	}
}

func TestGPIOBaseAddress_pi4(t *testing.T) {
	// Two cells for the CPU address, the first being zero.
	root := createRanges(t, t.TempDir(), []byte{
		0x7e, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0xfe, 0x00, 0x00, 0x00,
		0x01, 0x80, 0x00, 0x00,
	})
	want := uint64(0xFE200000)
	if address := gpioBaseAddress(root); address != want {
		t.Errorf("Expected 0x%x received 0x%x", want, address)
	}
}

func TestGPIOBaseAddress_truncated(t *testing.T) {
	root := createRanges(t, t.TempDir(), []byte{0x7e, 0x00})
	want := uint64(0x3F200000)
	if address := gpioBaseAddress(root); address != want {
		t.Errorf("Expected 0x%x received 0x%x", want, address)
	}
}

func TestIsBCM283x(t *testing.T) {
	root := t.TempDir()
	if isBCM283x(root) {
		t.Error("expected false without a compatible file")
	}
	if err := os.WriteFile(path.Join(root, "compatible"), []byte("raspberrypi,3-model-b\x00brcm,bcm2837\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	if !isBCM283x(root) {
		t.Error("expected brcm,bcm2837 to be detected")
	}
	if err := os.WriteFile(path.Join(root, "compatible"), []byte("allwinner,sun50i-h6\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	if isBCM283x(root) {
		t.Error("expected allwinner to be rejected")
	}
}
