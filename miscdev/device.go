// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package miscdev

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/ledmisc/internal/logging"
)

const (
	// BufferSize is the size of the device storage.
	BufferSize = 0x1000
	// DefaultPin is the GPIO line the LED is wired to.
	DefaultPin = 17
)

var (
	// ErrFault is returned when an access does not fit in the buffer.
	ErrFault error = unix.EFAULT
	// ErrInvalid is returned when a write starts with a byte other than '0'
	// or '1'.
	ErrInvalid error = unix.EINVAL
	// ErrNoDevice is returned when opening a device that was torn down or
	// never registered.
	ErrNoDevice error = unix.ENODEV
)

// PinDriver is the GPIO side of a Device. *bcm283x.Controller implements it.
// A Device without a PinDriver is a plain memory device.
//
// SetValue is only called with the lock held.
type PinDriver interface {
	sync.Locker
	SetValue(pin int, l gpio.Level) error
}

// Option configures a Device.
type Option func(d *Device)

// WithPin selects the GPIO line driven by writes.
func WithPin(pin int) Option {
	return func(d *Device) {
		d.pin = pin
	}
}

// WithStrictCommands rejects a write before it reaches the buffer when its
// first byte is not a command. By default the bytes are stored first.
func WithStrictCommands() Option {
	return func(d *Device) {
		d.strict = true
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(d *Device) {
		d.log = log
	}
}

// WithRelease sets a function run once the last reference is dropped, for
// example to unmap the GPIO registers.
func WithRelease(release func() error) Option {
	return func(d *Device) {
		d.release = release
	}
}

// Device is the state shared by every File of a device node.
type Device struct {
	mu  sync.Mutex
	buf [BufferSize]byte

	gpio   PinDriver
	pin    int
	strict bool
	log    *logrus.Entry

	refMu   sync.Mutex
	refs    int
	release func() error
}

// New returns a Device driving gpio, holding one reference owned by the
// caller. With a nil gpio, writes are only stored and never parsed.
// Register takes over that reference; an unregistered Device is dropped with
// Close.
func New(gpio PinDriver, opts ...Option) *Device {
	d := &Device{gpio: gpio, pin: DefaultPin, refs: 1}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = logging.Default("miscdev")
	}
	return d
}

// Open returns a new File on d. The buffer is shared, not copied.
func (d *Device) Open() (*File, error) {
	if !d.get() {
		return nil, ErrNoDevice
	}
	f := newFile(d)
	d.log.WithField("file", f.id).Debug("open")
	return f, nil
}

// Close drops the caller's reference obtained from New.
func (d *Device) Close() error {
	return d.put()
}

// Read copies the buffer from offset off into dst and returns the number of
// bytes copied, which is short when dst goes past the end of the buffer.
func (d *Device) Read(dst []byte, off int64) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if off < 0 || off > BufferSize {
		return 0, errors.Wrapf(ErrFault, "read at offset %d", off)
	}
	n := copy(dst, d.buf[off:])
	d.log.WithFields(logrus.Fields{"offset": off, "len": n}).Debug("read")
	return n, nil
}

// Write stores src at offset off and applies the command found at off.
//
// It fails with ErrFault and leaves the buffer untouched when src does not
// fit. The bytes are committed before the command is parsed, so an
// ErrInvalid write still changed the buffer unless WithStrictCommands is
// set.
func (d *Device) Write(src []byte, off int64) (int, error) {
	d.mu.Lock()
	if off < 0 || off > BufferSize || int64(len(src)) > BufferSize-off {
		d.mu.Unlock()
		return 0, errors.Wrapf(ErrFault, "write of %d bytes at offset %d", len(src), off)
	}
	if len(src) == 0 {
		d.mu.Unlock()
		return 0, nil
	}
	if d.strict && d.gpio != nil {
		if _, ok := parseCommand(src[0]); !ok {
			d.mu.Unlock()
			return 0, d.invalid(src[0])
		}
	}
	copy(d.buf[off:], src)
	cmd := d.buf[off]
	d.log.WithFields(logrus.Fields{"offset": off, "len": len(src)}).Debug("write")
	if d.gpio == nil {
		d.mu.Unlock()
		return len(src), nil
	}

	d.gpio.Lock()
	d.mu.Unlock()
	defer d.gpio.Unlock()
	l, ok := parseCommand(cmd)
	if !ok {
		return 0, d.invalid(cmd)
	}
	if err := d.gpio.SetValue(d.pin, l); err != nil {
		return 0, errors.Wrapf(err, "miscdev: driving pin %d", d.pin)
	}
	return len(src), nil
}

func (d *Device) invalid(b byte) error {
	d.log.WithField("byte", b).Warn("invalid command")
	return errors.Wrapf(ErrInvalid, "command byte %q", b)
}

func parseCommand(b byte) (gpio.Level, bool) {
	switch b {
	case '0':
		return gpio.Low, true
	case '1':
		return gpio.High, true
	default:
		return gpio.Low, false
	}
}

// get adds a reference unless the Device was already released.
func (d *Device) get() bool {
	d.refMu.Lock()
	defer d.refMu.Unlock()
	if d.refs == 0 {
		return false
	}
	d.refs++
	return true
}

func (d *Device) put() error {
	d.refMu.Lock()
	if d.refs == 0 {
		d.refMu.Unlock()
		return ErrNoDevice
	}
	d.refs--
	last := d.refs == 0
	d.refMu.Unlock()
	if !last {
		return nil
	}
	d.log.Info("released")
	if d.release != nil {
		return d.release()
	}
	return nil
}
