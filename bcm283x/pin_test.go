// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"

	"periph.io/x/ledmisc/internal/logging"
)

func newPins(t *testing.T) (*Emulator, []*Pin) {
	e := NewEmulator()
	pins := NewController(e, logging.Discard()).Pins()
	require.Len(t, pins, NumPins)
	return e, pins
}

func TestPinNames(t *testing.T) {
	_, pins := newPins(t)
	assert.Equal(t, "GPIO0", pins[0].Name())
	assert.Equal(t, "GPIO17", pins[17].String())
	assert.Equal(t, 53, pins[53].Number())
}

func TestPinOut(t *testing.T) {
	_, pins := newPins(t)
	p := pins[17]
	assert.Equal(t, gpio.IN_LOW, p.Func())
	require.NoError(t, p.Out(gpio.High))
	assert.Equal(t, gpio.OUT_HIGH, p.Func())
	assert.Equal(t, gpio.High, p.Read())
	require.NoError(t, p.Out(gpio.Low))
	assert.Equal(t, gpio.OUT_LOW, p.Func())
	assert.Equal(t, gpio.Low, p.Read())
}

func TestPinIn(t *testing.T) {
	e, pins := newPins(t)
	p := pins[5]
	require.NoError(t, p.Out(gpio.High))
	require.NoError(t, p.In(gpio.PullNoChange, gpio.NoEdge))
	e.Drive(5, gpio.High)
	assert.Equal(t, gpio.IN_HIGH, p.Func())
	assert.Error(t, p.In(gpio.PullUp, gpio.NoEdge))
	assert.Error(t, p.In(gpio.Float, gpio.RisingEdge))
	assert.False(t, p.WaitForEdge(0))
}

func TestPinSetFunc(t *testing.T) {
	_, pins := newPins(t)
	p := pins[14]
	require.NoError(t, p.SetFunc("ALT0"))
	assert.Equal(t, pin.Func("ALT0"), p.Func())
	require.NoError(t, p.SetFunc(gpio.OUT_HIGH))
	assert.Equal(t, gpio.OUT_HIGH, p.Func())
	require.NoError(t, p.SetFunc(gpio.IN))
	assert.Equal(t, gpio.IN_LOW, p.Func())
	assert.Error(t, p.SetFunc("UART0_TX"))
	assert.Len(t, p.SupportedFuncs(), 8)
	assert.Error(t, p.PWM(gpio.DutyHalf, 0))
}

func TestPinMarshalJSON(t *testing.T) {
	_, pins := newPins(t)
	require.NoError(t, pins[17].Out(gpio.High))
	b, err := json.Marshal(pins[17])
	require.NoError(t, err)
	assert.JSONEq(t, `{"Number":17,"Name":"GPIO17","Function":"Out/High"}`, string(b))
}

func TestPinOutDuringClose(t *testing.T) {
	c := NewController(NewEmulator(), logging.Discard())
	p := c.Pins()[17]
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			if err := p.Out(gpio.High); err != nil {
				assert.ErrorIs(t, err, ErrClosed)
				return
			}
		}
	}()
	require.NoError(t, c.Close())
	close(stop)
	<-done
	assert.ErrorIs(t, p.Out(gpio.Low), ErrClosed)
	assert.Equal(t, gpio.Low, p.Read())
}
