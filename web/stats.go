package web

import (
	"log/slog"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

const statsPath = "/debug/statsview"

// LaunchStats serves the runtime charts of the process on addr
func LaunchStats(addr string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	slog.Info("Stats server available", slog.String("url", "http://"+addr+statsPath))
}
