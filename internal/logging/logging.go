// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package logging builds the logrus loggers shared by the drivers and tools.
package logging

import (
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing prefixed text lines at level.
func New(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	f := new(prefixed.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05"
	f.FullTimestamp = true
	logger.SetFormatter(f)
	return logger
}

// Component tags every entry of logger with the component name.
func Component(logger *logrus.Logger, name string) *logrus.Entry {
	return logger.WithField("prefix", name)
}

// Default is the entry used by packages that were not given a logger.
func Default(name string) *logrus.Entry {
	return logrus.StandardLogger().WithField("prefix", name)
}

// Discard returns an entry that drops everything; used by tests.
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}
