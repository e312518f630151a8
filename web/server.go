package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/guslan/rip8"
)

type Server struct {
	*rip8.InMemoryKeyboard
	*rip8.DummyBuzzer

	console  *rip8.Console
	debugger *HttpDebugger

	socket  *websocket.Conn
	wsMutex sync.Mutex
	// last frame rendered, sent to every new display connection
	lastScreen rip8.Screen

	staticDir string
}

type ServerConfig struct {
	UseDebugger bool
	// Directory served at /
	StaticDir string
	Console   []rip8.ConsoleConfigCb
}
type ServerConfigCb func(config *ServerConfig)

func NewServer(configs ...ServerConfigCb) *Server {
	config := &ServerConfig{
		UseDebugger: false,
		StaticDir:   "./static",
	}
	for _, cb := range configs {
		cb(config)
	}

	s := &Server{
		InMemoryKeyboard: rip8.NewInMemoryKeyboard(),
		DummyBuzzer:      rip8.NewDummyBuzzer(),

		staticDir: config.StaticDir,
	}

	s.console = rip8.NewConsole(s, s.InMemoryKeyboard, s.DummyBuzzer, config.Console...)
	if config.UseDebugger {
		s.debugger = NewHttpDebugger(s.console)
	}

	return s
}

// Console gives access to the console the server drives
func (server *Server) Console() *rip8.Console {
	return server.console
}

func (server *Server) Speed(s int) {
	server.console.SetSpeedInHz(uint(s))
}

// LoadProgram loads the program into memory and sets the PC to the start-of-program address
func (server *Server) LoadProgram(program []byte) error {
	return server.console.LoadProgram(program)
}

func (server *Server) LoadProgramFromFile(path string) error {
	return server.console.LoadProgramFromFile(path)
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Expose-Headers", "Content-Type")

	w.Header().Set("Cache-Control", "no-cache")
}

// Handler returns the routes of the server. The console starts paused; /start resumes it.
func (server *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/", http.FileServer(http.Dir(server.staticDir)))

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		slog.Info("Starting")
		server.console.Start()
	})
	mux.HandleFunc("/stop", func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		slog.Info("Stopping")
		server.console.Stop()
	})
	mux.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		slog.Info("Stopping and resetting")
		server.console.Stop()
		server.console.Reset()
	})
	mux.HandleFunc("/step", func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		slog.Info("Single cycle")
		if err := server.console.LoopOnce(); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
		}
	})
	mux.HandleFunc("/rewind", func(w http.ResponseWriter, r *http.Request) {
		noCache(w)

		if err := server.console.Rewind(); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
		}
	})
	mux.HandleFunc("/display", server.serveDisplay)

	if server.debugger != nil {
		mux.HandleFunc("/debugger", server.debugger.serve)
	}

	return mux
}

// Listen boots the console, runs it and serves the routes until ctx is done
func (server *Server) Listen(ctx context.Context, port int) error {
	if err := server.console.Boot(); err != nil {
		return err
	}
	server.console.Stop()

	go func() {
		if err := server.console.Loop(ctx); err != nil {
			slog.Error("Console halted", slog.Any("error", err))
		}
	}()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: server.Handler(),
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening on port", slog.Int("port", port))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
