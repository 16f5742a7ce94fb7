package object

import (
	"math"

	"github.com/tomz197/ufoflap/internal/draw"
	"github.com/tomz197/ufoflap/internal/physics"
)

// Flight model. Height is the only simulated axis; the craft stays at CraftX
// while the track scrolls past it.
const (
	Gravity         = -15.0 // Units per second squared
	JumpVelocity    = 6.0   // Velocity set by a flap
	UpperLimit      = 8.0   // Height clamp, no crash
	LowerLimit      = -8.0  // Crossing this crashes the craft
	MaxTilt         = math.Pi / 4
	TiltPerVelocity = 0.12 // Radians of pitch per unit/s of vertical speed
	CraftRadius     = 0.8  // Pickup radius and box half-width
	CraftHalfHeight = 0.4
	CraftX          = 0.0
)

// Bound tells which height limit, if any, a Step ran into.
type Bound int

const (
	BoundNone  Bound = iota
	BoundUpper       // Clamped at UpperLimit
	BoundLower       // Fell below LowerLimit and crashed
)

// Craft is one player's flying saucer.
type Craft struct {
	Player   int
	Pos      Vec
	Velocity float64
	Tilt     float64 // Cosmetic pitch in radians
	Visible  bool
	Crashed  bool
}

// NewCraft creates a visible craft at its start position.
func NewCraft(player int) *Craft {
	c := &Craft{Player: player, Visible: true}
	c.Reset()
	return c
}

// Reset returns the craft to its start position at rest.
func (c *Craft) Reset() {
	if c == nil {
		return
	}
	c.Pos = Vec{X: CraftX, Y: 0}
	c.Velocity = 0
	c.Tilt = 0
	c.Crashed = false
}

// Flap sets the vertical velocity to JumpVelocity regardless of its previous value.
func (c *Craft) Flap() {
	if c == nil || c.Crashed {
		return
	}
	c.Velocity = JumpVelocity
}

// Step integrates one tick of dt seconds.
// It returns BoundLower only on the tick the craft crashes; a crashed craft
// no longer moves until Reset.
func (c *Craft) Step(dt float64) Bound {
	if c == nil || c.Crashed {
		return BoundNone
	}

	c.Velocity += Gravity * dt
	c.Pos.Y += c.Velocity * dt

	bound := BoundNone
	if c.Pos.Y > UpperLimit {
		c.Pos.Y = UpperLimit
		c.Velocity = 0
		bound = BoundUpper
	}
	if c.Pos.Y < LowerLimit {
		c.Pos.Y = LowerLimit
		c.Crashed = true
		return BoundLower
	}

	c.Tilt = physics.Clamp(c.Velocity*TiltPerVelocity, -MaxTilt, MaxTilt)
	return bound
}

// Crash marks the craft as crashed after an obstacle hit.
func (c *Craft) Crash() {
	if c != nil {
		c.Crashed = true
	}
}

// Bounds returns the craft's collision box.
func (c *Craft) Bounds() physics.AABB {
	return physics.BoxAround(c.Pos.X, c.Pos.Y, CraftRadius, CraftHalfHeight)
}

// Saucer outline relative to the craft center: disc then dome.
var (
	saucerDisc = []Vec{
		{-0.8, 0}, {-0.5, -0.3}, {0.5, -0.3}, {0.8, 0}, {0.5, 0.15}, {-0.5, 0.15},
	}
	saucerDome = []Vec{
		{-0.35, 0.15}, {-0.2, 0.45}, {0.2, 0.45}, {0.35, 0.15},
	}
)

// Draw renders the saucer pitched by its tilt.
func (c *Craft) Draw(ctx DrawContext) error {
	if c == nil || !c.Visible || ctx.Canvas == nil {
		return nil
	}

	sin, cos := math.Sincos(c.Tilt)
	project := func(shape []Vec) []draw.Point {
		pts := ctx.Canvas.BorrowPoints(len(shape))
		for i, v := range shape {
			rotated := Vec{
				X: c.Pos.X + v.X*cos - v.Y*sin,
				Y: c.Pos.Y + v.X*sin + v.Y*cos,
			}
			pts[i] = ctx.ToScreen(rotated)
		}
		return pts
	}

	ctx.Canvas.DrawPolygon(project(saucerDisc), true)
	ctx.Canvas.DrawPolygon(project(saucerDome), false)

	if c.Crashed {
		ctx.Text(Vec{X: c.Pos.X, Y: c.Pos.Y + 1.2}, draw.ColorRed, "✖")
	}
	return nil
}
