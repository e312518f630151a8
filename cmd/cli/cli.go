/*
 *   Copyright (c) 2024 Gustavo Lopez <git.gustavolopez.xyz@gmail.com>
 *   All rights reserved.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/rip8"
	"github.com/guslan/rip8/web"
	"github.com/retroenv/retrogolib/app"
)

func main() {
	noTerm := flag.Bool("noterm", false, "turn off the terminal display of the emulator")
	speed := flag.Uint("speed", rip8.DefaultSpeed, fmt.Sprintf("Speed in cycles per second, in the range [%d, %d] (default = %d)", rip8.MinSpeed, rip8.MaxSpeed, rip8.DefaultSpeed))
	cyclesPerFrame := flag.Uint("xframes", rip8.DefaultCyclesPerFrame, "The number of cycles that run between each timer tick")
	history := flag.Int("history", rip8.DefaultHistorySize, "The number of snapshots kept for rewinding")
	rewindEvery := flag.Uint("rewind-every", rip8.DefaultRewindInterval, "The number of cycles between two snapshots, 0 disables them")
	fault := flag.String("fault", rip8.FaultHalt.String(), "What to do when an instruction fails: halt, reset or rewind")
	seed := flag.Int64("seed", 0, "Seed of the random number generator, 0 uses the system source")
	stats := flag.String("stats", "", "Address to serve the runtime stats on, empty to disable")
	debug := flag.Bool("debug", false, "Log debug information to stderr")
	flag.Parse()

	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	// stdout belongs to the screen
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

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

	kb := rip8.NewTerminalKeyboard()
	var d rip8.Display
	if *noTerm {
		d = rip8.NewDefaultInMemoryDisplay()
	} else {
		d = rip8.NewDefaultTerminalDisplay()
	}

	console := rip8.NewConsole(d, kb, rip8.NewDummyBuzzer(), func(config *rip8.ConsoleConfig) {
		config.Speed = *speed
		config.CyclesPerFrame = *cyclesPerFrame
		config.HistorySize = *history
		config.RewindInterval = *rewindEvery
		config.FaultPolicy = faultPolicy
		if *seed != 0 {
			config.Random = rip8.NewSeededRandom(*seed)
		}
	})

	if err := console.Boot(); err != nil {
		log.Fatalln(err)
	}

	if err := console.LoadProgramFromFile(flag.Arg(0)); err != nil {
		kb.Close()
		log.Fatalln(err)
	}

	err := run(app.Context(), console, kb)
	kb.Close()
	if err != nil {
		log.Fatalln(err)
	}
}

// run drives the console and handles the terminal commands until one of them quits
func run(ctx context.Context, console *rip8.Console, kb *rip8.TerminalKeyboard) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- console.Loop(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-done:
			return err

		case cmd := <-kb.Commands():
			switch cmd {
			case rip8.CommandQuit:
				return nil
			case rip8.CommandPause:
				console.TogglePause()
			case rip8.CommandRewind:
				if err := console.Rewind(); err != nil {
					slog.Warn("Could not rewind", slog.Any("error", err))
				}
			case rip8.CommandFaster:
				console.SetSpeedInHz(console.SpeedInHz() + 50)
			case rip8.CommandSlower:
				console.SetSpeedInHz(console.SpeedInHz() - min(50, console.SpeedInHz()))
			}
		}
	}
}
