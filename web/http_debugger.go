package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/guslan/rip8"
)

// HttpDebugger streams the machine state to a websocket after every cycle
type HttpDebugger struct {
	CurrentOpCode uint16

	SendEvery uint
	cycle     uint
	send      chan []byte
}

// NewHttpDebugger creates a new debugger
// This method will pause the console, register the hooks and set the console cycles per frame to 1
func NewHttpDebugger(console *rip8.Console) *HttpDebugger {
	deb := &HttpDebugger{
		CurrentOpCode: 0,
		SendEvery:     1,
		send:          make(chan []byte, 64),
	}

	console.AddBeforeCycleHook(deb.beforeCycle)
	console.AddAfterCycleHook(deb.afterCycle)
	console.AddErrorHook(deb.afterCycle)
	console.SetCyclesPerFrame(1)

	console.Stop()

	return deb
}

func (d *HttpDebugger) serve(w http.ResponseWriter, r *http.Request) {
	slog.Info("Connecting to debugger")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Could not upgrade the connection", slog.Any("error", err))
		return
	}
	defer conn.Close()

	slog.Info("Listening for events")
	for {
		select {
		case event := <-d.send:
			if err := conn.WriteMessage(websocket.BinaryMessage, event); err != nil {
				slog.Error("Error writing debugger message", slog.Any("error", err))
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

func (d *HttpDebugger) beforeCycle(cpu *rip8.Cpu) {
	opCode, err := cpu.CurrentOpCode()
	if err != nil {
		opCode = 0
	}
	d.CurrentOpCode = opCode
}

func (d *HttpDebugger) afterCycle(cpu *rip8.Cpu) {
	d.cycle++
	if d.cycle%max(d.SendEvery, 1) != 0 {
		return
	}

	// events are dropped while nobody listens
	select {
	case d.send <- d.formatAsEvent(cpu.State):
	default:
	}
}

// formatAsEvent encodes the state big endian:
// opcode, PC, V0-VF, I, SP, the stack, DT, ST, screen width and height.
func (d *HttpDebugger) formatAsEvent(s *rip8.State) []byte {
	buf := make([]byte, 0, 60)

	buf = append(buf, byte(d.CurrentOpCode>>8), byte(d.CurrentOpCode))
	buf = append(buf, byte(s.Pc>>8), byte(s.Pc))
	buf = append(buf, s.V[:]...)
	buf = append(buf, byte(s.I>>8), byte(s.I))
	buf = append(buf, s.Sp)
	for _, b := range s.Stack {
		buf = append(buf, byte(b>>8), byte(b))
	}
	buf = append(buf, s.Dt)
	buf = append(buf, s.St)
	buf = append(buf, byte(rip8.SmallScreen.Width))
	buf = append(buf, byte(rip8.SmallScreen.Height))

	return buf
}
