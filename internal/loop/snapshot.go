package loop

import "github.com/tomz197/ufoflap/internal/object"

// CraftView is a copy of a craft's observable state.
type CraftView struct {
	Pos      object.Vec `json:"pos"`
	Velocity float64    `json:"velocity"`
	Tilt     float64    `json:"tilt"`
	Crashed  bool       `json:"crashed"`
}

// PickupView is a visible pickup.
type PickupView struct {
	Pos    object.Vec        `json:"pos"`
	Radius float64           `json:"radius"`
	Kind   object.PickupKind `json:"kind"`
}

// SegmentView is a copy of one track segment.
type SegmentView struct {
	X         float64      `json:"x"`
	GapCenter float64      `json:"gapCenter"`
	GapSize   float64      `json:"gapSize"`
	Width     float64      `json:"width"`
	Pickups   []PickupView `json:"pickups,omitempty"`
}

// PlayerView is a player's counters and craft.
type PlayerView struct {
	Player
	Craft CraftView `json:"craft"`
}

// Snapshot is a value copy of everything a presentation layer shows.
type Snapshot struct {
	Mode          Mode          `json:"mode"`
	InMatch       bool          `json:"inMatch"`
	Paused        bool          `json:"paused"`
	Level         int           `json:"level"`
	LevelName     string        `json:"levelName"`
	RequiredPipes int           `json:"requiredPipes"`
	MaxLevel      int           `json:"maxLevel"`
	Players       []PlayerView  `json:"players"`
	Segments      []SegmentView `json:"segments"`
	Ghost         *CraftView    `json:"ghost,omitempty"`
}

// Snapshot copies the current state. On the title screen the segments are
// the ghost's track.
func (g *Game) Snapshot() Snapshot {
	cfg := g.levelConfig()
	s := Snapshot{
		Mode:          g.mode,
		InMatch:       g.inMatch,
		Paused:        g.paused,
		Level:         g.level,
		LevelName:     cfg.Name,
		RequiredPipes: cfg.RequiredPipes,
		MaxLevel:      g.levels.Count(),
	}

	n := 1
	if g.inMatch {
		n = g.mode.Players()
	}
	s.Players = make([]PlayerView, n)
	for i := range s.Players {
		s.Players[i] = PlayerView{Player: g.players[i], Craft: craftView(g.crafts[i])}
	}

	if !g.inMatch && g.ghost.Active() {
		v := craftView(g.ghost.Craft())
		s.Ghost = &v
	}

	track := g.Track()
	s.Segments = make([]SegmentView, 0, len(track.Segments))
	for _, seg := range track.Segments {
		sv := SegmentView{X: seg.X, GapCenter: seg.GapCenter, GapSize: seg.GapSize, Width: seg.Width}
		for _, p := range seg.Pickups {
			if p.Visible {
				sv.Pickups = append(sv.Pickups, PickupView{Pos: p.Pos, Radius: p.Radius, Kind: p.Kind})
			}
		}
		s.Segments = append(s.Segments, sv)
	}
	return s
}

func craftView(c *object.Craft) CraftView {
	if c == nil {
		return CraftView{}
	}
	return CraftView{Pos: c.Pos, Velocity: c.Velocity, Tilt: c.Tilt, Crashed: c.Crashed}
}
