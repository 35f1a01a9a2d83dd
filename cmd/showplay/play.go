/*
NAME
  play.go

DESCRIPTION
  play.go implements the "play" subcommand: it loads a skyb file once,
  steps a show controller across a fixed wall-clock range, and prints
  the resulting control output and any due events to stdout. Intended
  for offline inspection of a show.

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

	"github.com/windlass-aero/skyplay/showcontrol"
)

func runPlay(args []string) {
	hf := newHostFlags("play")
	startPtr := hf.fs.Uint("start-ms", 0, "wall-clock start time, milliseconds")
	endPtr := hf.fs.Uint("end-ms", 30_000, "wall-clock end time, milliseconds")
	stepPtr := hf.fs.Uint("step-ms", 100, "wall-clock step between samples, milliseconds")

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
	step := uint32(*stepPtr)
	if step == 0 {
		step = 1
	}
	for t := uint32(*startPtr); t <= uint32(*endPtr); t += step {
		if err := ctl.UpdateTimeMsec(t); err != nil {
			log.Warning(pkg+"update failed", "wall_ms", t, "error", err.Error())
			continue
		}
		out := ctl.Output()
		fmt.Printf("t=%6dms scene=%d pos=(%.1f,%.1f,%.1f) yaw=%.1f color=#%02X%02X%02X\n",
			t, ctl.OutputTime().SceneIndex,
			out.Position.X, out.Position.Y, out.Position.Z, out.Position.Yaw,
			out.Color.R, out.Color.G, out.Color.B)

		for {
			ev, ok := ctl.GetNextEvent()
			if !ok {
				break
			}
			fmt.Printf("         event type=%d subtype=%d payload=%d at %dms\n",
				ev.Type, ev.Subtype, ev.Payload, ev.TimeMS)
		}
	}
}
