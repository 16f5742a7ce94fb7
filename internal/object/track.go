package object

import (
	"math/rand"

	"github.com/tomz197/ufoflap/internal/level"
)

// Track layout.
const (
	SegmentPoolSize = 6
	FirstSegmentX   = 14.0  // Position of the first barrier after a reset
	RecycleX        = -16.0 // Segments behind this are moved to the front
	ScanMargin      = 2.0   // Extra reach when selecting segments near the craft
)

// Track owns a fixed pool of segments scrolling toward the craft.
// Segments are kept ordered by X and reused, never reallocated.
type Track struct {
	Segments []*Segment

	cfg     level.Config
	seed    int64
	rng     *rand.Rand
	near    []*Segment
	crossed []*Segment
}

// NewTrack allocates the segment pool. Call Reset before use.
func NewTrack() *Track {
	t := &Track{
		Segments: make([]*Segment, SegmentPoolSize),
		near:     make([]*Segment, 0, SegmentPoolSize),
		crossed:  make([]*Segment, 0, SegmentPoolSize),
	}
	for i := range t.Segments {
		t.Segments[i] = &Segment{}
	}
	return t
}

// Reset lays out the whole pool for the given level. The same level and seed
// always produce the same sequence of segments.
func (t *Track) Reset(cfg level.Config, seed int64) {
	if t == nil {
		return
	}
	t.cfg = cfg
	t.seed = seed
	t.rng = rand.New(rand.NewSource(seed))
	for i, s := range t.Segments {
		t.place(s, FirstSegmentX+float64(i)*cfg.Spacing)
	}
}

// Seed returns the seed the track was last reset with.
func (t *Track) Seed() int64 {
	return t.seed
}

// Advance scrolls every segment by speed*dt and recycles segments that fell
// behind. It returns the segments that crossed the craft position during
// this call; each segment is reported once per pass. The returned slice is
// reused by the next call.
func (t *Track) Advance(dt float64) []*Segment {
	if t == nil || t.rng == nil {
		return nil
	}
	t.crossed = t.crossed[:0]

	dx := -t.cfg.Speed * dt
	for _, s := range t.Segments {
		s.shift(dx)
		if !s.Passed && s.X < CraftX {
			s.Passed = true
			t.crossed = append(t.crossed, s)
		}
	}

	last := len(t.Segments) - 1
	for last > 0 && t.Segments[0].X < RecycleX {
		s := t.Segments[0]
		copy(t.Segments, t.Segments[1:])
		t.Segments[last] = s
		t.place(s, t.Segments[last-1].X+t.cfg.Spacing)
	}
	return t.crossed
}

// Near returns the segments whose barriers or pickups can touch something at
// scroll position x. The returned slice is reused by the next call.
func (t *Track) Near(x float64) []*Segment {
	if t == nil {
		return nil
	}
	t.near = t.near[:0]
	for _, s := range t.Segments {
		if s.X-s.Width/2-ScanMargin <= x && x <= s.X+t.cfg.Spacing/2+ScanMargin {
			t.near = append(t.near, s)
		}
	}
	return t.near
}

// Draw renders every segment.
func (t *Track) Draw(ctx DrawContext) error {
	if t == nil {
		return nil
	}
	for _, s := range t.Segments {
		if err := s.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// place re-rolls a segment at position x: gap height, pickups and their kinds.
func (t *Track) place(s *Segment, x float64) {
	s.X = x
	s.Width = PipeWidth
	s.GapSize = t.cfg.GapSize
	s.Passed = false

	limit := UpperLimit - s.GapSize/2 - 0.5
	if limit < 0 {
		limit = 0
	}
	jitter := t.cfg.GapJitter
	if jitter > limit {
		jitter = limit
	}
	s.GapCenter = (t.rng.Float64()*2 - 1) * jitter

	s.Pickups = s.pickupBuf[:0]
	if t.rng.Float64() < t.cfg.PickupChance {
		s.Pickups = append(s.Pickups, t.newPickup(Vec{X: x, Y: s.GapCenter}))
	}
	if t.rng.Float64() < t.cfg.PickupChance {
		y := (t.rng.Float64()*2 - 1) * (UpperLimit - 2)
		s.Pickups = append(s.Pickups, t.newPickup(Vec{X: x + t.cfg.Spacing/2, Y: y}))
	}
}

func (t *Track) newPickup(pos Vec) Pickup {
	kind := PickupReward
	if t.rng.Float64() < t.cfg.TrapChance {
		kind = PickupTrap
	}
	return Pickup{Pos: pos, Radius: PickupRadius, Kind: kind, Visible: true}
}
