// Package object holds the game entities: the craft, the obstacle track and
// the cosmetic particles and labels drawn on top of them.
package object

import (
	"unicode/utf8"

	"github.com/tomz197/ufoflap/internal/draw"
)

// Vec is a point in world space. X runs along the scroll axis, Y is height.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Camera represents the viewport position in world space.
type Camera struct {
	X, Y   float64 // Camera center position in world coordinates
	Mirror bool    // Flip the horizontal axis
}

// Mirrored returns the camera with the same position and a flipped horizontal axis.
func (c Camera) Mirrored() Camera {
	c.Mirror = !c.Mirror
	return c
}

// Screen represents logical viewport dimensions.
type Screen struct {
	Width   int
	Height  int
	CenterX int
	CenterY int
}

// NewScreen returns a Screen with its center precomputed.
func NewScreen(width, height int) Screen {
	return Screen{Width: width, Height: height, CenterX: width / 2, CenterY: height / 2}
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // Half-block canvas for shapes
	Writer *draw.ChunkWriter // Text overlay output
	Camera Camera            // Camera position and orientation
	View   Screen            // Logical viewport dimensions
	Scale  float64           // Logical units per world unit
}

// Drawable is anything that renders itself into a DrawContext.
type Drawable interface {
	Draw(ctx DrawContext) error
}

// ToScreen converts a world position to logical canvas coordinates.
// Screen Y grows downward while world height grows upward.
func (ctx DrawContext) ToScreen(p Vec) draw.Point {
	dx := (p.X - ctx.Camera.X) * ctx.Scale
	if ctx.Camera.Mirror {
		dx = -dx
	}
	dy := (p.Y - ctx.Camera.Y) * ctx.Scale
	return draw.Point{
		X: float64(ctx.View.CenterX) + dx,
		Y: float64(ctx.View.CenterY) - dy,
	}
}

// OnScreen reports whether a logical point lies within the view plus margin.
func (ctx DrawContext) OnScreen(pt draw.Point, margin float64) bool {
	return pt.X >= -margin && pt.X <= float64(ctx.View.Width)+margin &&
		pt.Y >= -margin && pt.Y <= float64(ctx.View.Height)+margin
}

// Text writes s centered on a world position, clipped to the canvas.
func (ctx DrawContext) Text(p Vec, color draw.Color, s string) {
	if ctx.Canvas == nil || ctx.Writer == nil || s == "" {
		return
	}
	pt := ctx.ToScreen(p)
	col, row := ctx.Canvas.LogicalToTerminal(pt.X, pt.Y)
	n := utf8.RuneCountInString(s)
	col -= n / 2
	if !ctx.Canvas.Contains(col, row) || !ctx.Canvas.Contains(col+n-1, row) {
		return
	}
	ctx.Writer.WriteColorAt(col, row, color, s)
}
