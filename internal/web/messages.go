package web

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/ufoflap/internal/loop"
	"github.com/tomz197/ufoflap/internal/loop/server"
)

// Command types accepted from the browser.
const (
	CommandStart       = "start"
	CommandFlap        = "flap"
	CommandPause       = "pause"
	CommandResume      = "resume"
	CommandTogglePause = "togglePause"
	CommandNextLevel   = "nextLevel"
	CommandRestart     = "restart"
)

// Frame types sent to the browser.
const (
	FrameState = "state"
	FrameError = "error"
)

// Command is one player action sent by the browser as a JSON text message.
type Command struct {
	Type   string `json:"type" jsonschema:"enum=start,enum=flap,enum=pause,enum=resume,enum=togglePause,enum=nextLevel,enum=restart"`
	Mode   string `json:"mode,omitempty" jsonschema:"enum=single,enum=challenge,description=Match mode for start; defaults to single"`
	Player int    `json:"player,omitempty" jsonschema:"minimum=0,maximum=1,description=Player slot for flap"`
}

// Frame is one server message: the session's state after a tick and the
// events the tick produced.
type Frame struct {
	Type     string              `json:"type" jsonschema:"enum=state,enum=error"`
	Tick     uint64              `json:"tick"`
	Snapshot *loop.Snapshot      `json:"snapshot,omitempty"`
	Events   []loop.Event        `json:"events,omitempty"`
	Hub      *server.HubSnapshot `json:"hub,omitempty"`
	Error    string              `json:"error,omitempty"`
}

// Protocol documents both directions of the websocket feed.
type Protocol struct {
	Command Command `json:"command" jsonschema:"description=Client to server text message"`
	Frame   Frame   `json:"frame" jsonschema:"description=Server to client message; JSON text or msgpack binary"`
}

// codec encodes frames for one connection.
type codec interface {
	Encode(f *Frame) ([]byte, error)
	MessageType() int
}

func newCodec(name string) (codec, error) {
	switch name {
	case "", "json":
		return jsonCodec{}, nil
	case "msgpack":
		c := &msgpackCodec{}
		c.enc = msgpack.NewEncoder(&c.buf)
		c.enc.SetCustomStructTag("json")
		return c, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}

type jsonCodec struct{}

func (jsonCodec) Encode(f *Frame) ([]byte, error) {
	return json.Marshal(f)
}

func (jsonCodec) MessageType() int { return websocket.TextMessage }

// msgpackCodec reuses one encoder and buffer; it is not safe for concurrent use.
type msgpackCodec struct {
	buf bytes.Buffer
	enc *msgpack.Encoder
}

func (c *msgpackCodec) Encode(f *Frame) ([]byte, error) {
	c.buf.Reset()
	if err := c.enc.Encode(f); err != nil {
		return nil, err
	}
	return c.buf.Bytes(), nil
}

func (c *msgpackCodec) MessageType() int { return websocket.BinaryMessage }

// parseMode maps a command's mode name to a loop.Mode.
func parseMode(name string) (loop.Mode, error) {
	switch name {
	case "", "single":
		return loop.ModeSingle, nil
	case "challenge":
		return loop.ModeChallenge, nil
	default:
		return loop.ModeSingle, fmt.Errorf("unknown mode %q", name)
	}
}

// apply runs one command against the game.
func apply(g *loop.Game, cmd Command) error {
	switch cmd.Type {
	case CommandStart:
		mode, err := parseMode(cmd.Mode)
		if err != nil {
			return err
		}
		g.Start(mode)
	case CommandFlap:
		if cmd.Player < 0 || cmd.Player >= g.Mode().Players() {
			return fmt.Errorf("player %d out of range", cmd.Player)
		}
		g.Flap(cmd.Player)
	case CommandPause:
		g.Pause()
	case CommandResume:
		g.Resume()
	case CommandTogglePause:
		g.TogglePause()
	case CommandNextLevel:
		g.NextLevel()
	case CommandRestart:
		g.Restart()
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}
