package gui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/guslan/rip8"
)

const (
	ToolbarGap       = 5
	ToolbarBtnWidth  = 80
	ToolbarBtnHeight = 40
	ToolbarHeight    = 50
	ToolbarBtnOffset = ToolbarBtnWidth + ToolbarGap

	ScreenPixelSize = 15
	ScreenPositionX = 0
	ScreenPositionY = ToolbarHeight + 1

	MessageBarGap   = 5
	MessageBarHeigh = 30
)

var MessageBarBgColor = rl.DarkGray
var MessageBarInfoColor = rl.SkyBlue
var MessageBarSuccessColor = rl.Lime
var MessageBarWarningColor = rl.Gold
var MessageBarErrorColor = rl.Red
var MessageBarDebugColor = rl.LightGray

type MessageType byte

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type AppConfig struct {
	Speed          uint
	CyclesPerFrame uint
	HistorySize    int
	RewindInterval uint
	FaultPolicy    rip8.FaultPolicy
	Seed           int64
	// Show the registers in the message bar
	UseDebugger bool

	KeyboardLayout rip8.KeyboardLayout
}
type AppConfigCb func(config *AppConfig)

type App struct {
	*rip8.InMemoryKeyboard
	// The underlying console
	Console *rip8.Console
	// Speed in Hz
	speed float32

	// Unpacked screen representation
	screen   []byte
	screenMu sync.Mutex

	isBeeping   atomic.Bool
	useDebugger bool

	keyboardLookupMap map[ScanCode]byte

	// Window width and height
	winW, winH int

	// Toolbar
	startBtn, stopBtn, stepBtn, restBtn, rewindBtn bool

	loadedProgramPath string

	msgMu            sync.Mutex
	lastMessage      string
	lastMessageColor rl.Color
}

func NewApp(configs ...AppConfigCb) *App {
	config := &AppConfig{
		Speed:          rip8.DefaultSpeed,
		CyclesPerFrame: rip8.DefaultCyclesPerFrame,
		HistorySize:    rip8.DefaultHistorySize,
		RewindInterval: rip8.DefaultRewindInterval,
		FaultPolicy:    rip8.FaultHalt,
		KeyboardLayout: rip8.DefaultKeyboardLayout,
	}
	for _, cb := range configs {
		cb(config)
	}

	app := &App{
		InMemoryKeyboard:  rip8.NewInMemoryKeyboard(),
		speed:             float32(config.Speed),
		screen:            make([]byte, rip8.ScreenWidth*rip8.ScreenHeight),
		useDebugger:       config.UseDebugger,
		keyboardLookupMap: map[ScanCode]byte{},
	}

	app.Console = rip8.NewConsole(app, app.InMemoryKeyboard, app, func(c *rip8.ConsoleConfig) {
		c.Speed = config.Speed
		c.CyclesPerFrame = config.CyclesPerFrame
		c.HistorySize = config.HistorySize
		c.RewindInterval = config.RewindInterval
		c.FaultPolicy = config.FaultPolicy
		if config.Seed != 0 {
			c.Random = rip8.NewSeededRandom(config.Seed)
		}
	})
	app.Console.Stop()

	app.updateKeyboardLookupMap(config.KeyboardLayout)
	app.updateWindowSize()

	return app
}

// Run opens the window and runs the console until the window is closed
func (app *App) Run(autostart bool) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Console.Boot(); err != nil {
		slog.Error("Error booting the console", slog.Any("error", err))
		return
	}

	go func(console *rip8.Console) {
		slog.Info("Starting console loop on pause")
		if err := console.Loop(ctx); err != nil {
			app.showMessage(err.Error(), MessageError)
			slog.Error("Console halted", slog.Any("error", err))
		}
	}(app.Console)

	if autostart && app.hasProgramLoaded() {
		app.Console.Start()
	}

	rl.InitWindow(int32(app.winW), int32(app.winH), "rip8")
	defer rl.CloseWindow()

	gui.LoadStyleDefault()
	rl.SetTargetFPS(60)
	for !rl.WindowShouldClose() {
		rl.BeginDrawing()

		rl.ClearBackground(rl.Black)

		app.handleFileLoad()
		app.handleActions()
		app.handleKeyPress()
		app.updateConsoleSpeed()

		// Sections get rendered from bottom to the top
		app.drawMessageBar()
		app.drawScreen()
		app.drawToolbar()

		rl.EndDrawing()
	}
}

func (app *App) Load(path string) {
	if err := app.Console.LoadProgramFromFile(path); err != nil {
		slog.Error("Error loading program", slog.String("path", path), slog.Any("error", err))
		app.showMessage(err.Error(), MessageError)
		return
	}

	app.loadedProgramPath = path
	app.showMessage(fmt.Sprintf("Program '%s' loaded", app.loadedProgramPath), MessageInfo)
}

func (app *App) updateWindowSize() {
	app.winW = rip8.ScreenWidth * ScreenPixelSize
	app.winH = rip8.ScreenHeight*ScreenPixelSize + ToolbarHeight + MessageBarHeigh
	slog.Info("Updating window size", slog.Int("width", app.winW), slog.Int("height", app.winH))
}

func (app *App) updateKeyboardLookupMap(layout rip8.KeyboardLayout) {
	for r, k := range rip8.LookupMap(layout) {
		scanCode, ok := runeToKey[r]
		if !ok {
			slog.Warn("Key cannot be mapped", slog.String("key", string(r)))
			continue
		}
		app.keyboardLookupMap[scanCode] = k
	}
}

func (app *App) handleFileLoad() {
	if rl.IsFileDropped() {
		files := rl.LoadDroppedFiles()
		defer rl.UnloadDroppedFiles()

		slog.Info("Files were dropped", "files", strings.Join(files, ","))

		app.Load(files[0])
		app.Console.Start()
	}
}

func (app *App) hasProgramLoaded() bool {
	return len(app.loadedProgramPath) > 0
}

func (app *App) handleActions() {
	if app.startBtn {
		if app.hasProgramLoaded() {
			app.Console.Start()
			slog.Info("Starting the console")
		} else {
			app.showMessage("There is no program loaded", MessageError)
		}
	}
	if app.stopBtn {
		app.Console.Stop()
		slog.Info("Stopping the console")
	}
	if app.restBtn {
		app.Console.Reset()
		app.showMessage("Program reset", MessageInfo)
		slog.Info("Resetting the program to the beginning")
	}
	if app.stepBtn {
		if err := app.Console.LoopOnce(); err != nil {
			app.showMessage(err.Error(), MessageError)
		}
		slog.Info("Running a single cycle")
	}
	if app.rewindBtn || rl.IsKeyPressed(rewindKey) {
		app.rewind()
	}

	if rl.IsKeyPressed(pauseKey) {
		if app.Console.TogglePause() {
			app.showMessage("Paused", MessageWarning)
		} else {
			app.showMessage("Running", MessageInfo)
		}
	}
	if rl.IsKeyPressed(fasterKey) {
		app.Console.SetCyclesPerFrame(app.Console.CyclesPerFrame() + 1)
		app.showMessage(fmt.Sprintf("%d cycles per frame", app.Console.CyclesPerFrame()), MessageInfo)
	}
	if rl.IsKeyPressed(slowerKey) {
		app.Console.SetCyclesPerFrame(app.Console.CyclesPerFrame() - 1)
		app.showMessage(fmt.Sprintf("%d cycles per frame", app.Console.CyclesPerFrame()), MessageInfo)
	}
}

func (app *App) rewind() {
	if err := app.Console.Rewind(); err != nil {
		app.showMessage(err.Error(), MessageError)
		return
	}
	app.showMessage(fmt.Sprintf("Rewound, %d snapshots left", app.Console.History()), MessageSuccess)
}

func (app *App) handleKeyPress() {
	for scanCode, key := range app.keyboardLookupMap {
		app.InMemoryKeyboard.Set(key, rl.IsKeyDown(scanCode))
	}
}

func (app *App) updateConsoleSpeed() {
	app.Console.SetSpeedInHz(uint(app.speed))
}

const (
	MinSpeed = float32(rip8.MinSpeed)
	MaxSpeed = float32(rip8.MaxSpeed)
)

func (app *App) drawToolbar() {
	rl.DrawRectangle(0, 0, int32(rl.GetScreenWidth()), ToolbarHeight, rl.Gray)

	app.startBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*0, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PLAY, "Start"),
	)
	app.stopBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*1, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_STOP, "Stop"),
	)
	app.stepBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*2, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_NEXT, "Step"),
	)
	app.restBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*3, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_ROTATE, "Reset"),
	)
	app.rewindBtn = gui.Button(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*4, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		gui.IconText(gui.ICON_PLAYER_PREVIOUS, "Rewind"),
	)

	status := "Stopped"
	if app.Console.IsRunning() {
		status = "Running"
	}
	if app.isBeeping.Load() {
		status += " *"
	}
	gui.Label(
		rl.NewRectangle(ToolbarGap+ToolbarBtnOffset*5, ToolbarGap, ToolbarBtnWidth, ToolbarBtnHeight),
		status,
	)

	gui.Label(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, 26, 50, 20),
		fmt.Sprintf("%.0f Hz", app.speed),
	)

	if gui.Button(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150+50, 26, 50, 20),
		gui.IconText(gui.ICON_ROTATE, ""),
	) {
		app.speed = float32(rip8.DefaultSpeed)
	}

	app.speed = gui.Slider(
		rl.NewRectangle(float32(app.winW)-ToolbarGap-150, ToolbarGap, 100, 20),
		fmt.Sprintf("%d Hz", rip8.MinSpeed), fmt.Sprintf("%d Hz", rip8.MaxSpeed),
		app.speed,
		MinSpeed,
		MaxSpeed,
	)
}

func (app *App) showMessage(msg string, mType MessageType) {
	app.msgMu.Lock()
	defer app.msgMu.Unlock()

	app.lastMessage = msg
	switch mType {
	case MessageInfo:
		app.lastMessageColor = MessageBarInfoColor

	case MessageSuccess:
		app.lastMessageColor = MessageBarSuccessColor

	case MessageWarning:
		app.lastMessageColor = MessageBarWarningColor

	case MessageError:
		app.lastMessageColor = MessageBarErrorColor
	}
}

func (app *App) drawMessageBar() {
	rl.DrawRectangle(
		0,
		int32(app.winH)-MessageBarHeigh,
		int32(app.winW),
		MessageBarHeigh,
		MessageBarBgColor,
	)

	app.msgMu.Lock()
	msg, color := app.lastMessage, app.lastMessageColor
	app.msgMu.Unlock()

	rl.DrawText(
		msg,
		MessageBarGap,
		int32(app.winH)-MessageBarHeigh+MessageBarGap,
		16,
		color,
	)

	if app.useDebugger {
		s := app.Console.Snapshot()
		rl.DrawText(
			fmt.Sprintf("PC=%03X I=%03X SP=%d DT=%d ST=%d", s.Pc, s.I, s.Sp, s.Dt, s.St),
			int32(app.winW)/2,
			int32(app.winH)-MessageBarHeigh+MessageBarGap,
			16,
			MessageBarDebugColor,
		)
	}
}
