/*
NAME
  serve.go

DESCRIPTION
  serve.go implements the "serve" subcommand: a long-running,
  systemd-supervised loop that drives a show controller off the wall
  clock at Config.TickInterval, notifying readiness and (optionally)
  the watchdog, and applying the controller's pyro-mask output to GPIO
  pins via the pyro package.

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
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/kidoman/embd"

	"github.com/windlass-aero/skyplay/pyro"
	"github.com/windlass-aero/skyplay/showcontrol"
)

func runServe(args []string) {
	hf := newHostFlags("serve")
	cfg, err := hf.resolve(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := newLogger(cfg, false)
	log.Info(pkg+"starting showplay serve", "version", version, "file", cfg.SkybPath)

	sp, err := loadShow(cfg.SkybPath)
	if err != nil {
		log.Fatal(pkg+"could not load show", "error", err.Error())
	}
	ctl := showcontrol.NewController(sp)
	ctl.SetLogger(log)

	var drv *pyro.Driver
	if hasAnyPin(cfg.PyroPins) {
		if err := embd.InitGPIO(); err != nil {
			log.Fatal(pkg+"could not init GPIO", "error", err.Error())
		}
		defer embd.CloseGPIO()
		drv, err = pyro.NewDriver(func(pin int) (embd.DigitalPin, error) {
			return embd.NewDigitalPin(pin)
		}, cfg.PyroPins)
		if err != nil {
			log.Fatal(pkg+"could not init pyro driver", "error", err.Error())
		}
		defer drv.Close()
	}

	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		log.Warning(pkg+"systemd notify failed", "error", err.Error())
	} else if sent {
		log.Debug(pkg + "notified systemd ready")
	}

	serveLoop(ctl, drv, cfg, log)
}

// hasAnyPin reports whether any pyro channel has a wired pin number.
func hasAnyPin(pins [8]int) bool {
	for _, p := range pins {
		if p >= 0 {
			return true
		}
	}
	return false
}

// serveLoop runs until the process is killed, ticking the controller
// at cfg.TickInterval off the wall clock elapsed since start, and
// periodically notifying the systemd watchdog if configured.
func serveLoop(ctl *showcontrol.Controller, drv *pyro.Driver, cfg Config, log logger) {
	start := time.Now()
	ticker := time.NewTicker(cfg.TickInterval)
	defer ticker.Stop()

	var lastWatchdog time.Time
	for range ticker.C {
		wallMS := uint32(time.Since(start).Milliseconds())

		if err := ctl.UpdateTimeMsec(wallMS); err != nil {
			log.Warning(pkg+"update failed", "wall_ms", wallMS, "error", err.Error())
			continue
		}

		if drv != nil {
			if err := drv.Apply(ctl.PyroMask()); err != nil {
				log.Error(pkg+"pyro apply failed", "error", err.Error())
			}
		}

		for {
			ev, ok := ctl.GetNextEvent()
			if !ok {
				break
			}
			log.Debug(pkg+"event due", "type", ev.Type, "subtype", ev.Subtype, "payload", ev.Payload)
		}

		if cfg.WatchdogInterval > 0 && time.Since(lastWatchdog) >= cfg.WatchdogInterval {
			if _, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog); err != nil {
				log.Warning(pkg+"watchdog notify failed", "error", err.Error())
			}
			lastWatchdog = time.Now()
		}
	}
}

// logger is the subset of logging.Logger this package depends on.
type logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
