// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package miscdev

import (
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// File is one open handle on a Device. It keeps its own position for Read,
// Write and Seek; ReadAt and WriteAt ignore it.
//
// Close releases the handle. It must be called exactly once.
type File struct {
	id  uuid.UUID
	dev *Device

	mu     sync.Mutex
	pos    int64
	closed bool
}

func newFile(d *Device) *File {
	return &File{id: uuid.New(), dev: d}
}

// ID identifies the handle in logs.
func (f *File) ID() uuid.UUID {
	return f.id
}

func (f *File) String() string {
	return "miscdev file " + f.id.String()
}

// ReadAt implements io.ReaderAt. Reads that reach the end of the buffer
// return io.EOF.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.isClosed() {
		return 0, os.ErrClosed
	}
	n, err := f.dev.Read(p, off)
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

// WriteAt implements io.WriterAt.
func (f *File) WriteAt(p []byte, off int64) (int, error) {
	if f.isClosed() {
		return 0, os.ErrClosed
	}
	return f.dev.Write(p, off)
}

// Read implements io.Reader, starting at the current position.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	n, err := f.dev.Read(p, f.pos)
	f.pos += int64(n)
	if err == nil && n == 0 && len(p) != 0 {
		err = io.EOF
	}
	return n, err
}

// Write implements io.Writer, starting at the current position. The
// position only moves when the write succeeds.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	n, err := f.dev.Write(p, f.pos)
	if err == nil {
		f.pos += int64(n)
	}
	return n, err
}

// Seek implements io.Seeker. The end of the file is BufferSize.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return 0, os.ErrClosed
	}
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = f.pos + offset
	case io.SeekEnd:
		pos = BufferSize + offset
	default:
		return f.pos, errors.Wrapf(ErrInvalid, "whence %d", whence)
	}
	if pos < 0 {
		return f.pos, errors.Wrapf(ErrInvalid, "negative position %d", pos)
	}
	f.pos = pos
	return pos, nil
}

// Close releases the handle's reference on the Device.
func (f *File) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return os.ErrClosed
	}
	f.closed = true
	f.mu.Unlock()
	f.dev.log.WithField("file", f.id).Debug("release")
	return f.dev.put()
}

func (f *File) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

var _ io.ReadWriteSeeker = &File{}
var _ io.ReaderAt = &File{}
var _ io.WriterAt = &File{}
var _ io.Closer = &File{}
