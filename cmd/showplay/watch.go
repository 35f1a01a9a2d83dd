/*
NAME
  watch.go

DESCRIPTION
  watch.go implements the "watch" subcommand: a development
  convenience that watches the directory holding the configured skyb
  file and hot-swaps the running show controller whenever that file is
  rewritten, without restarting the process. Uses fsnotify in place of
  a manual poll loop.

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
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/utils/logging"

	"github.com/windlass-aero/skyplay/showcontrol"
)

func runWatch(args []string) {
	hf := newHostFlags("watch")
	cfg, err := hf.resolve(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := newLogger(cfg, true)

	sp, err := loadShow(cfg.SkybPath)
	if err != nil {
		log.Fatal(pkg+"could not load show", "error", err.Error())
	}

	ctl := showcontrol.NewController(sp)
	ctl.SetLogger(log)
	var current atomic.Pointer[showcontrol.Controller]
	current.Store(ctl)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Fatal(pkg+"could not create watcher", "error", err.Error())
	}
	defer watcher.Close()

	dir := filepath.Dir(cfg.SkybPath)
	if err := watcher.Add(dir); err != nil {
		log.Fatal(pkg+"could not watch directory", "dir", dir, "error", err.Error())
	}

	target, err := filepath.Abs(cfg.SkybPath)
	if err != nil {
		log.Fatal(pkg+"could not resolve show path", "error", err.Error())
	}

	go watchReload(watcher, target, &current, log)

	log.Info(pkg+"watching for changes", "file", cfg.SkybPath)
	watchLoop(&current, cfg, log)
}

// watchReload drains watcher events, reloading and atomically
// swapping in a new Controller whenever target is written to. A
// reload that fails to parse leaves the previous controller in place.
func watchReload(watcher *fsnotify.Watcher, target string, current *atomic.Pointer[showcontrol.Controller], log logging.Logger) {
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || abs != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			reloadOne(target, current, log)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warning(pkg+"watch error", "error", err.Error())
		}
	}
}

func reloadOne(target string, current *atomic.Pointer[showcontrol.Controller], log logging.Logger) {
	// Give the writer a moment to finish; editors/compilers commonly
	// emit several events for one logical save.
	time.Sleep(50 * time.Millisecond)

	sp, err := loadShow(target)
	if err != nil {
		log.Warning(pkg+"reload failed, keeping previous show", "error", err.Error())
		return
	}
	ctl := showcontrol.NewController(sp)
	ctl.SetLogger(log)
	current.Store(ctl)
	log.Info(pkg + "reloaded show")
}

// watchLoop mirrors serveLoop's tick-and-drain-events shape, but
// re-reads current on every tick (rather than closing over one
// Controller) so a reload swapped in by watchReload takes effect on
// the next tick with no restart. No pyro output: "watch" is a
// development aid, not a flight-ready host.
func watchLoop(current *atomic.Pointer[showcontrol.Controller], cfg Config, log logger) {
	start := time.Now()
	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctl := current.Load()
		wallMS := uint32(time.Since(start).Milliseconds())

		if err := ctl.UpdateTimeMsec(wallMS); err != nil {
			log.Warning(pkg+"update failed", "wall_ms", wallMS, "error", err.Error())
			continue
		}

		for {
			ev, ok := ctl.GetNextEvent()
			if !ok {
				break
			}
			log.Debug(pkg+"event due", "type", ev.Type, "subtype", ev.Subtype, "payload", ev.Payload)
		}
	}
}
