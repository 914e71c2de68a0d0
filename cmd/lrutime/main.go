// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command lrutime runs a scripted workload against a cache bounded by size
// and/or time and prints what the cache holds afterwards.
//
// Commands are read one per line from -script or stdin:
//
//	set <key> <value>   get <key>    peek <key>   has <key>
//	del <key>           keys         len          purge
//	clear               sleep <duration>
//
// Blank lines and lines starting with # are ignored.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	lru "github.com/craumix/golang-lrutime"
	"github.com/craumix/golang-lrutime/simplelru"
	"github.com/fatih/color"
	"github.com/go-errors/errors"
	"github.com/hashicorp/go-hclog"
	jsoniter "github.com/json-iterator/go"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type flags struct {
	config   string
	capacity int
	ttl      string
	logLevel string
	script   string
	json     bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var f flags
	fs := flag.NewFlagSet("lrutime", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "YAML file setting capacity and ttl")
	fs.IntVar(&f.capacity, "capacity", -1, "maximum number of entries, overrides the config file (-1 keeps it)")
	fs.StringVar(&f.ttl, "ttl", "", "expiry duration since last use, e.g. 30s; overrides the config file")
	fs.StringVar(&f.logLevel, "log-level", "info", "trace, debug, info, warn or error")
	fs.StringVar(&f.script, "script", "", "file with one command per line (default: stdin)")
	fs.BoolVar(&f.json, "json", false, "print results and final contents as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "lrutime",
		Level:  hclog.LevelFromString(f.logLevel),
		Output: stderr,
	})

	cfg, err := resolveConfig(f)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return 1
	}

	cache, err := lru.NewWithConfig[string, string](cfg, lru.WithLogger(logger))
	if err != nil {
		logger.Error("cannot create cache", "error", err)
		return 1
	}
	cache.OnEvict(func(key, _ string, reason simplelru.EvictReason) {
		logger.Info("evicted", "key", key, "reason", reason)
	})
	logger.Debug("cache ready", "capacity", capacityString(cfg), "ttl", cfg.TTL)

	in := stdin
	if f.script != "" {
		file, err := os.Open(f.script)
		if err != nil {
			logger.Error("cannot open script", "error", err)
			return 1
		}
		defer file.Close()
		in = file
	}

	r := &runner{cache: cache, out: stdout, quiet: f.json}
	if err := r.exec(in); err != nil {
		logger.Error("script failed", "error", err)
		return 1
	}

	if f.json {
		err = writeJSON(stdout, r.results, cache.Snapshot())
	} else {
		writeText(stdout, cache.Snapshot())
	}
	if err != nil {
		logger.Error("cannot write output", "error", err)
		return 1
	}
	return 0
}

func resolveConfig(f flags) (lru.Config, error) {
	var cfg lru.Config
	if f.config != "" {
		var err error
		// Flags may supply the bound the file leaves out, so skip validation here.
		if cfg, err = readConfig(f.config); err != nil {
			return cfg, err
		}
	}
	if f.capacity >= 0 {
		capacity := f.capacity
		cfg.Capacity = &capacity
	}
	if f.ttl != "" {
		cfg.TTL = f.ttl
	}
	return cfg, cfg.Validate()
}

func readConfig(path string) (lru.Config, error) {
	cfg, err := lru.LoadConfig(path)
	if errors.Is(err, lru.ErrNoBounds) {
		return cfg, nil
	}
	return cfg, err
}

func capacityString(cfg lru.Config) string {
	if cfg.Capacity == nil {
		return "unbounded"
	}
	return strconv.Itoa(*cfg.Capacity)
}

type dump struct {
	Results []string                  `json:"results"`
	Entries []lru.Pair[string, string] `json:"entries"`
}

func writeJSON(w io.Writer, results []string, entries []lru.Pair[string, string]) error {
	if results == nil {
		results = []string{}
	}
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(dump{Results: results, Entries: entries})
}

func writeText(w io.Writer, entries []lru.Pair[string, string]) {
	header := color.New(color.Bold)
	key := color.New(color.FgCyan)
	header.Fprintf(w, "%d entries, most recently used first\n", len(entries))
	for i, e := range entries {
		key.Fprintf(w, "%3d  %s", i+1, e.Key)
		fmt.Fprintf(w, " = %s\n", e.Value)
	}
}
