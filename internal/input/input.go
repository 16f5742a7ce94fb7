// Package input turns raw terminal bytes into per-frame game actions.
package input

import (
	"bufio"
)

// Input represents the actions pressed since the previous frame.
// Every field is edge-triggered: a key press is reported exactly once.
type Input struct {
	Quit    bool
	Flap    [2]bool // Flap[0] player one, Flap[1] player two
	Pause   bool
	Enter   bool
	Escape  bool
	Number  int // Last digit pressed, -1 if none
	Pressed []byte
}

// Any reports whether any byte arrived this frame.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// Closed reports whether the underlying reader has ended.
func (s *Stream) Closed() bool {
	return s.closed
}

// ReadInput drains all available bytes from the stream (non-blocking).
// A closed stream reports Quit so the caller's loop can end.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	if s.closed {
		in.Quit = true
	}
	return in
}

// Parse converts a batch of raw bytes into actions.
// Arrow-up (ESC [ A) flaps player two; a lone ESC is Escape.
func Parse(buf []byte) Input {
	in := Input{Number: -1, Pressed: buf}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				in.Flap[1] = true
			}
			// Other CSI sequences are consumed and ignored.
			i += 2
			continue
		}

		applyByte(&in, b)
	}
	return in
}

// applyByte records the action bound to a single byte.
func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case ' ', 'w', 'W':
		in.Flap[0] = true
	case 'i', 'I', 'o', 'O':
		in.Flap[1] = true
	case 'p', 'P':
		in.Pause = true
	case '\n', '\r':
		in.Enter = true
	case '\x1b':
		in.Escape = true
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		in.Number = int(b - '0')
	}
}
