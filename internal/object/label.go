package object

import "github.com/tomz197/ufoflap/internal/draw"

// Label timing.
const (
	LabelLifetime  = 0.8 // Seconds a label stays on screen
	LabelRiseSpeed = 2.0 // World units per second
)

// Label is a floating piece of text such as "+5" over a collected pickup.
type Label struct {
	Pos      Vec
	Value    string
	Color    draw.Color
	Lifetime float64
}

// Labels holds the floating labels of one match.
type Labels struct {
	items []Label
}

// Add shows value at pos.
func (ls *Labels) Add(pos Vec, value string, color draw.Color) {
	if ls == nil || value == "" {
		return
	}
	ls.items = append(ls.items, Label{Pos: pos, Value: value, Color: color, Lifetime: LabelLifetime})
}

// Update raises labels and drops expired ones.
func (ls *Labels) Update(dt float64) {
	if ls == nil {
		return
	}
	kept := ls.items[:0]
	for _, l := range ls.items {
		l.Lifetime -= dt
		if l.Lifetime <= 0 {
			continue
		}
		l.Pos.Y += LabelRiseSpeed * dt
		kept = append(kept, l)
	}
	ls.items = kept
}

// Len returns the number of visible labels.
func (ls *Labels) Len() int {
	if ls == nil {
		return 0
	}
	return len(ls.items)
}

// Clear removes every label.
func (ls *Labels) Clear() {
	if ls != nil {
		ls.items = ls.items[:0]
	}
}

// Draw renders each label at its current position.
func (ls *Labels) Draw(ctx DrawContext) error {
	if ls == nil {
		return nil
	}
	for _, l := range ls.items {
		if !ctx.OnScreen(ctx.ToScreen(l.Pos), 0) {
			continue
		}
		ctx.Text(l.Pos, l.Color, l.Value)
	}
	return nil
}
