/*
NAME
  config.go

DESCRIPTION
  config.go defines the showplay host configuration: which skyb file
  to load, how fast to drive wall-clock time, and how to wire the
  optional pyro GPIO driver. A plain struct of named fields with sane
  zero values, loaded from a flag-provided JSON file.

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/

// Package main implements showplay, a CLI host for the skyplay
// playback engine: it loads a skyb file into a screenplay, drives a
// showcontrol.Controller either once over a fixed range ("play"), in
// a long-running systemd-supervised loop ("serve"), or with
// hot-reload on file change ("watch").
package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ausocean/utils/logging"
)

// Logging configuration.
const (
	logPath      = "/var/log/showplay/showplay.log"
	logMaxSize   = 50 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
)

// Config provides parameters relevant to a showplay host. A new Config
// must be decoded (via -config-file) or built directly by a caller
// that wants the zero-value defaults below.
type Config struct {
	// SkybPath is the location of the skyb file to load. Required.
	SkybPath string

	// LogLevel is the showplay logging verbosity.
	// Valid values are logging.Debug, logging.Info, logging.Warning,
	// logging.Error, logging.Fatal.
	LogLevel int8

	// TickInterval is how often "serve" recomputes the control output.
	// Zero defaults to 20ms (50Hz), a plausible flight-control cadence.
	TickInterval time.Duration

	// WatchdogInterval is the period "serve" notifies systemd's
	// watchdog at. Zero disables watchdog notification.
	WatchdogInterval time.Duration

	// PyroPins maps each pyro-mask bit (the light program's
	// SET_PYRO/CLEAR_PYRO channel) to a GPIO pin number; a negative
	// entry leaves that channel unwired. Only consulted by "serve".
	PyroPins [8]int
}

// defaultTickInterval is used when Config.TickInterval is unset.
const defaultTickInterval = 20 * time.Millisecond

func defaultConfig() Config {
	cfg := Config{LogLevel: logging.Info, TickInterval: defaultTickInterval}
	for i := range cfg.PyroPins {
		cfg.PyroPins[i] = -1
	}
	return cfg
}

// loadConfig decodes a Config from the JSON file at path, filling any
// field JSON leaves zero with defaultConfig's values where the field
// is one that has no sensible Go zero value (TickInterval, PyroPins).
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.TickInterval == 0 {
		cfg.TickInterval = defaultTickInterval
	}
	return cfg, nil
}
