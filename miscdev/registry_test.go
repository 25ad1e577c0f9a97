// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package miscdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"periph.io/x/ledmisc/bcm283x"
	"periph.io/x/ledmisc/internal/logging"
)

func TestRegistrationLifetime(t *testing.T) {
	released := 0
	c := bcm283x.NewController(bcm283x.NewEmulator(), logging.Discard())
	d := New(c, WithLogger(logging.Discard()), WithRelease(func() error {
		released++
		return c.Close()
	}))
	reg, err := Register("lifetime", d)
	require.NoError(t, err)
	assert.Equal(t, "lifetime", reg.Name())
	assert.Same(t, d, reg.Device())
	assert.Contains(t, Names(), "lifetime")

	a, err := Open("lifetime")
	require.NoError(t, err)
	b, err := Open("lifetime")
	require.NoError(t, err)

	require.NoError(t, reg.Close())
	assert.NotContains(t, Names(), "lifetime")
	_, err = Open("lifetime")
	assert.ErrorIs(t, err, ErrNoDevice)
	assert.ErrorIs(t, reg.Close(), ErrNoDevice)

	// Open handles survive the registration.
	_, err = a.WriteAt([]byte("1"), 0)
	require.NoError(t, err)
	require.NoError(t, a.Close())
	assert.Equal(t, 0, released)
	require.NoError(t, b.Close())
	assert.Equal(t, 1, released)

	_, err = d.Open()
	assert.ErrorIs(t, err, ErrNoDevice)
}

func TestRegisterErrors(t *testing.T) {
	d := New(bcm283x.NewController(bcm283x.NewEmulator(), logging.Discard()), WithLogger(logging.Discard()))
	_, err := Register("", d)
	assert.ErrorIs(t, err, unix.EINVAL)

	reg, err := Register("dup", d)
	require.NoError(t, err)
	defer reg.Close()
	_, err = Register("dup", d)
	assert.ErrorIs(t, err, unix.EEXIST)
}

func TestOpenUnknown(t *testing.T) {
	_, err := Open("nonexistent")
	assert.ErrorIs(t, err, ErrNoDevice)
}
