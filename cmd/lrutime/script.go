// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	lru "github.com/craumix/golang-lrutime"
	"github.com/fatih/color"
	"github.com/go-errors/errors"
)

// runner executes script commands against a cache. Every result line is
// recorded; unless quiet it is also printed as it happens.
type runner struct {
	cache   *lru.Cache[string, string]
	out     io.Writer
	quiet   bool
	sleep   func(time.Duration)
	results []string
}

var (
	hit  = color.New(color.FgGreen)
	miss = color.New(color.FgYellow)
)

func (r *runner) exec(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := r.command(strings.Fields(text)); err != nil {
			return errors.Errorf("line %d: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Errorf("read script: %w", err)
	}
	return nil
}

func (r *runner) command(args []string) error {
	name, args := args[0], args[1:]
	want := map[string]int{
		"set": 2, "get": 1, "peek": 1, "has": 1, "del": 1,
		"keys": 0, "len": 0, "purge": 0, "clear": 0, "sleep": 1,
	}
	n, ok := want[name]
	if !ok {
		return errors.Errorf("unknown command %q", name)
	}
	if len(args) != n {
		return errors.Errorf("%s takes %d argument(s), got %d", name, n, len(args))
	}

	switch name {
	case "set":
		if prev, replaced := r.cache.Add(args[0], args[1]); replaced {
			r.report(hit, "set %s = %s (was %s)", args[0], args[1], prev)
		} else {
			r.report(hit, "set %s = %s", args[0], args[1])
		}
	case "get":
		r.lookup(name, args[0], r.cache.Get)
	case "peek":
		r.lookup(name, args[0], r.cache.Peek)
	case "has":
		r.report(hit, "has %s: %t", args[0], r.cache.Contains(args[0]))
	case "del":
		if v, ok := r.cache.Remove(args[0]); ok {
			r.report(hit, "del %s (was %s)", args[0], v)
		} else {
			r.report(miss, "del %s: miss", args[0])
		}
	case "keys":
		r.report(hit, "keys %s", strings.Join(r.cache.Keys(), " "))
	case "len":
		r.report(hit, "len %d", r.cache.Len())
	case "purge":
		r.report(hit, "purge %d", r.cache.Purge())
	case "clear":
		r.cache.Clear()
		r.report(hit, "clear")
	case "sleep":
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return errors.Errorf("sleep: %w", err)
		}
		if r.sleep != nil {
			r.sleep(d)
		} else {
			time.Sleep(d)
		}
		r.report(hit, "sleep %s", d)
	}
	return nil
}

func (r *runner) lookup(name, key string, fn func(string) (string, bool)) {
	if v, ok := fn(key); ok {
		r.report(hit, "%s %s = %s", name, key, v)
	} else {
		r.report(miss, "%s %s: miss", name, key)
	}
}

func (r *runner) report(c *color.Color, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.results = append(r.results, msg)
	if !r.quiet {
		c.Fprintln(r.out, msg)
	}
}
