// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/google/shlex"
	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"periph.io/x/ledmisc/bcm283x"
	"periph.io/x/ledmisc/miscdev"
)

type env struct {
	name string
	c    *bcm283x.Controller
	in   io.Reader
	out  io.Writer
}

type command func(e *env, args []string) error

var commands map[string]command

func init() {
	commands = map[string]command{
		"write":   (*env).write,
		"read":    (*env).read,
		"blink":   (*env).blink,
		"pins":    (*env).pins,
		"session": (*env).session,
	}
}

func commandNames() []string {
	out := make([]string, 0, len(commands))
	for n := range commands {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (e *env) run(args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return errors.Errorf("unknown command %q", args[0])
	}
	return cmd(e, args[1:])
}

// write <data> [offset]
func (e *env) write(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: write <data> [offset]")
	}
	off, err := optInt(args, 1, 0)
	if err != nil {
		return err
	}
	f, err := miscdev.Open(e.name)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := f.WriteAt([]byte(args[0]), off)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.out, "wrote %d bytes at %d\n", n, off)
	return err
}

// read [length] [offset]
func (e *env) read(args []string) error {
	if len(args) > 2 {
		return errors.New("usage: read [length] [offset]")
	}
	length, err := optInt(args, 0, 16)
	if err != nil {
		return err
	}
	off, err := optInt(args, 1, 0)
	if err != nil {
		return err
	}
	if length < 0 {
		return errors.Errorf("invalid length %d", length)
	}
	f, err := miscdev.Open(e.name)
	if err != nil {
		return err
	}
	defer f.Close()
	b := make([]byte, length)
	n, err := f.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return err
	}
	_, err = fmt.Fprintf(e.out, "%q\n", b[:n])
	return err
}

// blink <count> [period]
func (e *env) blink(args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: blink <count> [period]")
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrap(err, "count")
	}
	period := 500 * time.Millisecond
	if len(args) == 2 {
		if period, err = time.ParseDuration(args[1]); err != nil {
			return errors.Wrap(err, "period")
		}
	}
	f, err := miscdev.Open(e.name)
	if err != nil {
		return err
	}
	defer f.Close()
	for i := 0; i < count; i++ {
		for _, cmd := range []string{"1", "0"} {
			if _, err := f.WriteAt([]byte(cmd), 0); err != nil {
				return err
			}
			time.Sleep(period / 2)
		}
	}
	return nil
}

// pins lists every GPIO line and its function as JSON lines.
func (e *env) pins(args []string) error {
	if len(args) != 0 {
		return errors.New("usage: pins")
	}
	pins, err := bcm283x.RegisterPins(e.c)
	if err != nil {
		return err
	}
	defer func() {
		for _, p := range pins {
			_ = gpioreg.Unregister(p.Name())
		}
	}()
	for _, p := range gpioreg.All() {
		b, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(e.out, "%s\n", b); err != nil {
			return err
		}
	}
	return nil
}

// session runs one command per input line until EOF.
func (e *env) session(args []string) error {
	if len(args) != 0 {
		return errors.New("usage: session")
	}
	s := bufio.NewScanner(e.in)
	for s.Scan() {
		words, err := shlex.Split(s.Text())
		if err != nil {
			return err
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "session" {
			return errors.New("session can't be nested")
		}
		if err := e.run(words); err != nil {
			// Per command failures are reported like a shell would.
			if _, err := fmt.Fprintf(e.out, "error: %s\n", err); err != nil {
				return err
			}
		}
	}
	return s.Err()
}

func optInt(args []string, i int, def int64) (int64, error) {
	if len(args) <= i {
		return def, nil
	}
	v, err := strconv.ParseInt(args[i], 0, 64)
	return v, errors.Wrapf(err, "argument %d", i+1)
}
