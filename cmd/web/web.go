/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/rip8"
	"github.com/guslan/rip8/web"
	"github.com/retroenv/retrogolib/app"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	port := flag.Int("port", 9999, "The port of the server (default = 9999)")
	speed := flag.Uint("speed", rip8.DefaultSpeed, "Speed in cycles per second")
	cyclesPerFrame := flag.Uint("xframes", rip8.DefaultCyclesPerFrame, "The number of cycles that run between each timer tick")
	history := flag.Int("history", rip8.DefaultHistorySize, "The number of snapshots kept for rewinding")
	rewindEvery := flag.Uint("rewind-every", rip8.DefaultRewindInterval, "The number of cycles between two snapshots, 0 disables them")
	fault := flag.String("fault", rip8.FaultHalt.String(), "What to do when an instruction fails: halt, reset or rewind")
	static := flag.String("static", "./static", "Directory of the page served at /")
	debug := flag.Bool("debug", false, "Stream the machine state on /debugger")
	stats := flag.String("stats", "", "Address to serve the runtime stats on, empty to disable")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatalln("must provide the path to a rom as an argument")
	}

	faultPolicy, ok := rip8.ParseFaultPolicy(*fault)
	if !ok {
		log.Fatalln("unknown fault policy", *fault)
	}

	if *stats != "" {
		web.LaunchStats(*stats)
	}

	server := web.NewServer(func(config *web.ServerConfig) {
		config.UseDebugger = *debug
		config.StaticDir = *static
		config.Console = append(config.Console, func(config *rip8.ConsoleConfig) {
			config.Speed = *speed
			config.CyclesPerFrame = *cyclesPerFrame
			config.HistorySize = *history
			config.RewindInterval = *rewindEvery
			config.FaultPolicy = faultPolicy
		})
	})

	if err := server.LoadProgramFromFile(flag.Arg(0)); err != nil {
		log.Fatalln(err)
	}
	if err := server.Listen(app.Context(), *port); err != nil {
		log.Fatalln(err)
	}
}
