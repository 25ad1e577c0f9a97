// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package miscdev

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Registration is a live device node. Closing it removes the node; handles
// already open keep working until they are closed.
type Registration struct {
	name string
	dev  *Device
}

// Register publishes dev under name and takes over the reference returned
// by New.
func Register(name string, dev *Device) (*Registration, error) {
	if len(name) == 0 {
		return nil, errors.Wrap(unix.EINVAL, "miscdev: can't register a device with no name")
	}
	mu.Lock()
	defer mu.Unlock()
	if _, ok := byName[name]; ok {
		return nil, errors.Wrapf(unix.EEXIST, "miscdev: device %q", name)
	}
	r := &Registration{name: name, dev: dev}
	byName[name] = r
	dev.log.WithField("name", name).Info("registered")
	return r, nil
}

// Name returns the device node name.
func (r *Registration) Name() string {
	return r.name
}

// Device returns the registered Device.
func (r *Registration) Device() *Device {
	return r.dev
}

// Close unregisters the device node and drops its reference.
func (r *Registration) Close() error {
	mu.Lock()
	if byName[r.name] != r {
		mu.Unlock()
		return errors.Wrapf(ErrNoDevice, "miscdev: device %q", r.name)
	}
	delete(byName, r.name)
	mu.Unlock()
	r.dev.log.WithField("name", r.name).Info("unregistered")
	return r.dev.put()
}

// Open opens the device node registered as name.
func Open(name string) (*File, error) {
	mu.Lock()
	r, ok := byName[name]
	mu.Unlock()
	if !ok {
		return nil, errors.Wrapf(ErrNoDevice, "miscdev: device %q", name)
	}
	return r.dev.Open()
}

// Names returns the names of the registered device nodes, sorted.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, 0, len(byName))
	for n := range byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

var (
	mu     sync.Mutex
	byName = map[string]*Registration{}
)
