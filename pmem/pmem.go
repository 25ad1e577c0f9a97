// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"fmt"
	"os"
	"sync"

	mmap "github.com/edsrzf/mmap-go"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	// DevGPIOMem only maps the GPIO block; the file offset is relative to it.
	DevGPIOMem = "/dev/gpiomem"
	// DevMem maps physical memory; the file offset is the physical address.
	DevMem = "/dev/mem"
)

// ErrUnmapped is returned when a Region is used after Close.
var ErrUnmapped = errors.New("pmem: region is not mapped")

// Region is a mapped window of memory.
//
// The zero value is not usable; use Map or MapGPIO.
type Region struct {
	mu   sync.Mutex
	path string
	phys uint64
	m    mmap.MMap // whole page aligned mapping
	b    []byte    // requested window inside m
}

// Map maps size bytes of the file at path starting at offset.
//
// offset doesn't need to be page aligned; the mapping is widened to page
// boundaries and the returned Region only exposes the requested window.
func Map(path string, offset uint64, size int) (*Region, error) {
	if size <= 0 {
		return nil, errors.Errorf("pmem: invalid size %d", size)
	}
	page := uint64(unix.Getpagesize())
	aligned := offset &^ (page - 1)
	delta := int(offset - aligned)
	length := (delta + size + int(page) - 1) &^ (int(page) - 1)

	f, err := os.OpenFile(path, os.O_RDWR|unix.O_SYNC, 0)
	if err != nil {
		return nil, errors.Wrap(err, "pmem: open")
	}
	// The mapping outlives the file descriptor.
	defer f.Close()
	m, err := mmap.MapRegion(f, length, mmap.RDWR, 0, int64(aligned))
	if err != nil {
		return nil, errors.Wrapf(err, "pmem: mapping %s at 0x%x", path, offset)
	}
	return &Region{path: path, phys: offset, m: m, b: m[delta : delta+size]}, nil
}

// MapGPIO maps the GPIO register block at the physical address base.
//
// It tries DevGPIOMem first, then falls back to DevMem which requires root.
func MapGPIO(base uint64, size int) (*Region, error) {
	r, err := Map(DevGPIOMem, 0, size)
	if err == nil {
		r.phys = base
		return r, nil
	}
	r, err2 := Map(DevMem, base, size)
	if err2 != nil {
		return nil, errors.Wrapf(err2, "pmem: %s also failed (%v)", DevMem, err)
	}
	return r, nil
}

// Bytes returns the mapped window, or nil once the Region is closed.
func (r *Region) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.b
}

// Phys returns the physical address the window starts at.
func (r *Region) Phys() uint64 {
	return r.phys
}

// Len returns the size of the window in bytes.
func (r *Region) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.b)
}

// Close unmaps the window. Calling Close more than once returns ErrUnmapped.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.m == nil {
		return ErrUnmapped
	}
	err := r.m.Unmap()
	r.m = nil
	r.b = nil
	return errors.Wrap(err, "pmem: unmap")
}

func (r *Region) String() string {
	return fmt.Sprintf("%s@0x%08x", r.path, r.phys)
}
