// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// ledmisc registers the LED character device and drives it.
//
// The device lives as long as the process, so a single invocation runs one
// command; "session" reads commands from stdin to keep the buffer between
// them:
//
//	ledmisc write 1
//	ledmisc -sim session <<EOF
//	write 1abc 0
//	read 4 0
//	EOF
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"periph.io/x/ledmisc/bcm283x"
	"periph.io/x/ledmisc/internal/logging"
	"periph.io/x/ledmisc/miscdev"
)

func main() {
	if err := mainImpl(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ledmisc: %s.\n", err)
		os.Exit(1)
	}
}

func mainImpl(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("ledmisc", flag.ContinueOnError)
	sim := fs.Bool("sim", false, "use a software register block instead of the hardware")
	base := fs.Uint64("base", 0, "physical address of the GPIO registers; 0 reads it from the device tree")
	name := fs.String("name", "rust_misc_gpio", "device node name")
	pin := fs.Int("pin", miscdev.DefaultPin, "GPIO line driven by the device")
	strict := fs.Bool("strict", false, "reject invalid commands before storing them")
	loglevel := fs.Int("loglevel", int(logrus.InfoLevel), "The loglevel to use. Valid values are from 0 to 6. Higher values output more information")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: ledmisc [flags] <%s> [args]\n", strings.Join(commandNames(), "|"))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	if *loglevel < int(logrus.PanicLevel) || *loglevel > int(logrus.TraceLevel) {
		fs.Usage()
		return errors.Errorf("invalid -loglevel %d", *loglevel)
	}

	logger := logging.New(logrus.Level(*loglevel))
	c, err := openController(*sim, *base, logging.Component(logger, "bcm283x"))
	if err != nil {
		return err
	}
	c.Lock()
	err = c.InitDefaults()
	c.Unlock()
	if err != nil {
		_ = c.Close()
		return err
	}

	opts := []miscdev.Option{
		miscdev.WithPin(*pin),
		miscdev.WithLogger(logging.Component(logger, "miscdev")),
		miscdev.WithRelease(c.Close),
	}
	if *strict {
		opts = append(opts, miscdev.WithStrictCommands())
	}
	dev := miscdev.New(c, opts...)
	reg, err := miscdev.Register(*name, dev)
	if err != nil {
		_ = dev.Close()
		return err
	}
	defer reg.Close()

	e := &env{name: *name, c: c, in: in, out: out}
	return e.run(fs.Args())
}

func openController(sim bool, base uint64, log *logrus.Entry) (*bcm283x.Controller, error) {
	if sim {
		return bcm283x.NewController(bcm283x.NewEmulator(), log), nil
	}
	return bcm283x.OpenMapped(base, log)
}
