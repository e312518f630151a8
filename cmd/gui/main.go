package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/guslan/rip8"
	"github.com/guslan/rip8/gui"
)

func init() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{})))
}

func main() {
	autostart := flag.Bool("start", false, "Starts the console automatically if there is a program loaded (defaults = false).")
	debug := flag.Bool("debug", false, "Show debug information for the console (defaults = false).")
	initialSpeed := flag.Uint("speed", rip8.DefaultSpeed, fmt.Sprintf("The starting speed of the CPU in Hz. It has to be in the range [%d, %d] (defaults = %d).", rip8.MinSpeed, rip8.MaxSpeed, rip8.DefaultSpeed))
	cyclesPerFrame := flag.Uint("xframes", rip8.DefaultCyclesPerFrame, fmt.Sprintf("The number of cycles that run between each frame (defaults = %d).", rip8.DefaultCyclesPerFrame))
	history := flag.Int("history", rip8.DefaultHistorySize, fmt.Sprintf("The number of snapshots kept for rewinding (defaults = %d).", rip8.DefaultHistorySize))
	rewindEvery := flag.Uint("rewind-every", rip8.DefaultRewindInterval, fmt.Sprintf("The number of cycles between two snapshots (defaults = %d).", rip8.DefaultRewindInterval))
	fault := flag.String("fault", rip8.FaultHalt.String(), "What to do when an instruction fails: halt, reset or rewind (defaults = halt).")
	seed := flag.Int64("seed", 0, "Seed of the random number generator, 0 uses the system source (defaults = 0).")

	flag.Parse()

	faultPolicy, ok := rip8.ParseFaultPolicy(*fault)
	if !ok {
		log.Fatalln("unknown fault policy", *fault)
	}

	app := gui.NewApp(func(config *gui.AppConfig) {
		config.Speed = max(*initialSpeed, rip8.MinSpeed)
		config.UseDebugger = *debug
		config.CyclesPerFrame = *cyclesPerFrame
		config.HistorySize = *history
		config.RewindInterval = *rewindEvery
		config.FaultPolicy = faultPolicy
		config.Seed = *seed
	})

	if flag.NArg() > 0 {
		app.Load(flag.Arg(0))
	}

	app.Run(*autostart)
}
