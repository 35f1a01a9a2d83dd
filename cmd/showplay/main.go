/*
DESCRIPTION
  showplay is a command-line host for the skyplay playback engine. It
  loads a compiled skyb show file and drives a show controller either
  once over a fixed time range ("play"), in a long-running
  systemd-supervised loop ("serve"), or with hot-reload on file change
  ("watch").

AUTHOR
  Mara Voss <mara@windlass.aero>

LICENSE
  Copyright (C) 2026 Windlass Aero. All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of Windlass Aero.
*/
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/utils/logging"

	"github.com/windlass-aero/skyplay/screenplay"
)

// Current software version.
const version = "v0.1.0"

const pkg = "showplay: "

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "-version", "--version":
		fmt.Println(version)
		return
	case "play":
		runPlay(os.Args[2:])
	case "serve":
		runServe(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: showplay <play|serve|watch> [flags]")
}

// newLogger builds the standard showplay logger: a lumberjack
// file-rotation writer, optionally teed to stderr for interactive use.
func newLogger(cfg Config, stderrAlso bool) logging.Logger {
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	var w io.Writer = fileLog
	if stderrAlso {
		w = io.MultiWriter(fileLog, os.Stderr)
	}
	return logging.New(cfg.LogLevel, w, true)
}

// loadShow reads path and parses it into a realtime, single-scene
// screenplay.
func loadShow(path string) (*screenplay.Screenplay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(pkg+"read %s: %w", path, err)
	}
	sp, err := screenplay.LoadFile(data)
	if err != nil {
		return nil, fmt.Errorf(pkg+"parse %s: %w", path, err)
	}
	return sp, nil
}

// hostFlags is the pair of flags ("-config-file", "-file") every
// subcommand accepts, registered but not yet parsed so the caller can
// add subcommand-specific flags to the same FlagSet first.
type hostFlags struct {
	fs       *flag.FlagSet
	cfgPath  *string
	skybPath *string
}

func newHostFlags(name string) hostFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return hostFlags{
		fs:       fs,
		cfgPath:  fs.String("config-file", "", "path to a JSON showplay config file"),
		skybPath: fs.String("file", "", "path to a .skyb show file (overrides the config file's SkybPath)"),
	}
}

// resolve parses args against hf's FlagSet and returns the effective
// Config (defaults, or decoded from -config-file) with SkybPath
// overridden by -file when given.
func (hf hostFlags) resolve(args []string) (Config, error) {
	hf.fs.Parse(args)

	cfg := defaultConfig()
	if *hf.cfgPath != "" {
		var err error
		cfg, err = loadConfig(*hf.cfgPath)
		if err != nil {
			return Config{}, err
		}
	}
	if *hf.skybPath != "" {
		cfg.SkybPath = *hf.skybPath
	}
	if cfg.SkybPath == "" {
		return Config{}, fmt.Errorf(pkg + "no show file given (-file or -config-file with SkybPath)")
	}
	return cfg, nil
}
