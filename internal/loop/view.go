package loop

import "github.com/tomz197/ufoflap/internal/object"

// Viewport is one render pass: a camera, the horizontal slice of the screen
// it fills and which crafts it may show.
type Viewport struct {
	Player int
	Camera object.Camera
	Left   float64 // Left edge as a fraction of the screen width
	Width  float64 // Width as a fraction of the screen width
	Show   [2]bool // Craft visibility for this pass, by player
}

// Layout returns the render passes for the current mode. Challenge matches
// split the screen: player 1 on the left through the primary camera, player 2
// on the right through its mirror. Everything else is one full pass with the
// second craft hidden.
func (g *Game) Layout(primary object.Camera) []Viewport {
	if g.inMatch && g.mode == ModeChallenge {
		return []Viewport{
			{Player: 0, Camera: primary, Left: 0, Width: 0.5, Show: [2]bool{true, false}},
			{Player: 1, Camera: primary.Mirrored(), Left: 0.5, Width: 0.5, Show: [2]bool{false, true}},
		}
	}
	return []Viewport{
		{Player: 0, Camera: primary, Left: 0, Width: 1, Show: [2]bool{true, false}},
	}
}

// Apply sets each craft's visibility for this pass. Nil crafts are skipped.
func (v Viewport) Apply(crafts ...*object.Craft) {
	for i, c := range crafts {
		if c == nil || i >= len(v.Show) {
			continue
		}
		c.Visible = v.Show[i]
	}
}
