package object

import (
	"github.com/tomz197/ufoflap/internal/draw"
	"github.com/tomz197/ufoflap/internal/physics"
)

// Segment geometry.
const (
	PipeWidth    = 2.0
	BarrierReach = 30.0 // Barriers extend this far from the center line
	PickupRadius = 0.5
	pickupSlots  = 2
)

// PickupKind distinguishes rewards from traps.
type PickupKind int

const (
	PickupReward PickupKind = iota
	PickupTrap
)

func (k PickupKind) String() string {
	if k == PickupTrap {
		return "trap"
	}
	return "reward"
}

// MarshalText encodes the kind by name.
func (k PickupKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Pickup is a collectible point in space.
type Pickup struct {
	Pos     Vec
	Radius  float64
	Kind    PickupKind
	Visible bool
}

// Collect hides the pickup. It reports true only the first time, so a pickup
// yields at most one event until its segment is recycled.
func (p *Pickup) Collect() bool {
	if p == nil || !p.Visible {
		return false
	}
	p.Visible = false
	return true
}

// Segment is one recyclable unit of track: a barrier pair and its pickups.
type Segment struct {
	X         float64 // Scroll-axis position of the barrier center
	GapCenter float64
	GapSize   float64
	Width     float64
	Pickups   []Pickup
	Passed    bool // Set once the segment crossed the craft position

	pickupBuf [pickupSlots]Pickup
}

// Upper returns the box of the upper barrier.
func (s *Segment) Upper() physics.AABB {
	return physics.AABB{
		MinX: s.X - s.Width/2,
		MaxX: s.X + s.Width/2,
		MinY: s.GapCenter + s.GapSize/2,
		MaxY: BarrierReach,
	}
}

// Lower returns the box of the lower barrier.
func (s *Segment) Lower() physics.AABB {
	return physics.AABB{
		MinX: s.X - s.Width/2,
		MaxX: s.X + s.Width/2,
		MinY: -BarrierReach,
		MaxY: s.GapCenter - s.GapSize/2,
	}
}

// shift moves the segment and its pickups along the scroll axis.
func (s *Segment) shift(dx float64) {
	s.X += dx
	for i := range s.Pickups {
		s.Pickups[i].Pos.X += dx
	}
}

// Draw renders both barriers and any visible pickups.
func (s *Segment) Draw(ctx DrawContext) error {
	if ctx.Canvas == nil {
		return nil
	}
	center := ctx.ToScreen(Vec{X: s.X, Y: ctx.Camera.Y})
	if !ctx.OnScreen(center, s.Width/2*ctx.Scale) {
		return nil
	}
	for _, box := range [2]physics.AABB{s.Upper(), s.Lower()} {
		p1 := ctx.ToScreen(Vec{X: box.MinX, Y: box.MinY})
		p2 := ctx.ToScreen(Vec{X: box.MaxX, Y: box.MaxY})
		ctx.Canvas.FillRect(p1, p2)
	}
	for i := range s.Pickups {
		p := &s.Pickups[i]
		if !p.Visible {
			continue
		}
		if p.Kind == PickupTrap {
			ctx.Text(p.Pos, draw.ColorMagenta, "☠")
		} else {
			ctx.Text(p.Pos, draw.ColorBrightYellow, "●")
		}
	}
	return nil
}
