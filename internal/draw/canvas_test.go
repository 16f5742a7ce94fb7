package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestFillRectClipsToCanvas(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.FillRect(Point{X: -5, Y: -5}, Point{X: 2, Y: 1})

	if !c.Pixel(0, 0) || !c.Pixel(2, 1) {
		t.Error("expected pixels inside rect to be set")
	}
	if c.Pixel(3, 0) || c.Pixel(0, 2) {
		t.Error("pixels outside rect should stay clear")
	}
}

func TestRenderWritesFullRows(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetOffset(2, 1)
	c.SetFloat(0, 0) // top half of row 1, col 1
	c.SetFloat(1, 0)
	c.SetFloat(1, 1) // bottom half of row 1, col 2

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()

	if !strings.HasPrefix(out, "\033[2;3H▀█  ") {
		t.Errorf("unexpected first row: %q", out)
	}
	if !strings.Contains(out, "\033[3;3H    ") {
		t.Errorf("expected blank second row, got %q", out)
	}
}

func TestClearResetsPixels(t *testing.T) {
	c := NewScaledCanvas(3, 3, 3, 6)
	c.DrawLine(Point{X: 0, Y: 0}, Point{X: 2, Y: 5})
	c.Clear()
	for y := 0; y < 6; y++ {
		for x := 0; x < 3; x++ {
			if c.Pixel(x, y) {
				t.Fatalf("pixel (%d,%d) still set after Clear", x, y)
			}
		}
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	c.DrawPolygon([]Point{{X: 1, Y: 1}, {X: 8, Y: 1}, {X: 8, Y: 8}, {X: 1, Y: 8}}, true)
	if !c.Pixel(4, 4) {
		t.Error("interior pixel should be filled")
	}
	if c.Pixel(9, 9) {
		t.Error("exterior pixel should be clear")
	}
}

func TestLogicalToTerminalAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(20, 10, 40, 40)
	c.SetOffset(20, 0)
	col, row := c.LogicalToTerminal(0, 0)
	if col != 21 || row != 1 {
		t.Errorf("LogicalToTerminal(0,0) = (%d,%d), want (21,1)", col, row)
	}
	if !c.Contains(21, 1) || c.Contains(20, 1) {
		t.Error("Contains does not respect offset")
	}
}

func TestChunkWriterFlush(t *testing.T) {
	var buf bytes.Buffer
	cw := NewChunkWriter(&buf)
	cw.WriteAt(3, 2, "hi")
	cw.WriteColorAt(1, 1, ColorRed, "x")
	cw.WriteAt(0, 1, "skipped")
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[2;3Hhi\033[1;1H" + string(ColorRed) + "x" + string(ColorReset)
	if buf.String() != want {
		t.Errorf("flushed %q, want %q", buf.String(), want)
	}
	if cw.Len() != 0 {
		t.Error("buffer not reset after flush")
	}
}
