package gui

import (
	"github.com/guslan/rip8"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var ScreenBgColor = rl.Gold
var ScreenPixelColor = rl.Yellow

// Boot implements rip8.Display.
func (app *App) Boot() error {
	return nil
}

// Render implements rip8.Display.
// It runs on the console goroutine, the window reads the pixels on its own.
func (app *App) Render(screen rip8.Screen, settings rip8.ScreenSettings) error {
	app.screenMu.Lock()
	screen.Unpack(app.screen)
	app.screenMu.Unlock()

	return nil
}

// Play implements rip8.Buzzer.
func (app *App) Play() {
	app.isBeeping.Store(true)
}

// Stop implements rip8.Buzzer.
func (app *App) Stop() {
	app.isBeeping.Store(false)
}

func (app *App) drawScreen() {
	app.screenMu.Lock()
	defer app.screenMu.Unlock()

	for y := 0; y < rip8.ScreenHeight; y++ {
		for x := 0; x < rip8.ScreenWidth; x++ {
			color := ScreenBgColor
			if app.screen[y*rip8.ScreenWidth+x] > 0 {
				color = ScreenPixelColor
			}

			rl.DrawRectangle(
				ScreenPositionX+ScreenPixelSize*int32(x),
				ScreenPositionY+ScreenPixelSize*int32(y),
				ScreenPixelSize,
				ScreenPixelSize,
				color)
		}
	}
}
