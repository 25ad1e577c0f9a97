// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"testing"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New(logrus.WarnLevel)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	f, ok := logger.Formatter.(*prefixed.TextFormatter)
	if assert.True(t, ok) {
		assert.True(t, f.FullTimestamp)
	}
}

func TestComponent(t *testing.T) {
	logger := New(logrus.InfoLevel)
	var out bytes.Buffer
	logger.SetOutput(&out)
	e := Component(logger, "miscdev")
	assert.Equal(t, "miscdev", e.Data["prefix"])
	e.Info("registered")
	assert.Contains(t, out.String(), "registered")
}

func TestDiscard(t *testing.T) {
	Discard().Error("dropped")
}
