package object

import (
	"testing"

	"github.com/tomz197/ufoflap/internal/level"
)

func testLevel() level.Config {
	return level.Config{
		Index:         1,
		Name:          "test",
		RequiredPipes: 3,
		Spacing:       10,
		GapSize:       5,
		GapJitter:     2,
		Speed:         4,
		PickupChance:  1,
		TrapChance:    0.5,
	}
}

func TestTrackResetLaysOutPool(t *testing.T) {
	tr := NewTrack()
	tr.Reset(testLevel(), 1)

	if len(tr.Segments) != SegmentPoolSize {
		t.Fatalf("pool size = %d", len(tr.Segments))
	}
	for i, s := range tr.Segments {
		want := FirstSegmentX + float64(i)*10
		if s.X != want {
			t.Errorf("segment %d at %v, want %v", i, s.X, want)
		}
		if s.Passed {
			t.Errorf("segment %d already passed", i)
		}
		if s.GapCenter < -2 || s.GapCenter > 2 {
			t.Errorf("segment %d gap center %v outside jitter", i, s.GapCenter)
		}
		if len(s.Pickups) != 2 {
			t.Errorf("segment %d has %d pickups, want 2", i, len(s.Pickups))
		}
	}
}

func TestTrackIsDeterministicForSeed(t *testing.T) {
	a, b := NewTrack(), NewTrack()
	a.Reset(testLevel(), 42)
	b.Reset(testLevel(), 42)
	for i := 0; i < 200; i++ {
		a.Advance(0.05)
		b.Advance(0.05)
	}
	for i := range a.Segments {
		if a.Segments[i].X != b.Segments[i].X || a.Segments[i].GapCenter != b.Segments[i].GapCenter {
			t.Fatalf("segment %d differs: %+v vs %+v", i, a.Segments[i], b.Segments[i])
		}
	}
}

func TestTrackReportsEachCrossingOnce(t *testing.T) {
	tr := NewTrack()
	tr.Reset(testLevel(), 7)

	crossings := 0
	// 60 seconds at speed 4 covers 240 units: FirstSegmentX then every 10.
	for i := 0; i < 1200; i++ {
		crossings += len(tr.Advance(0.05))
	}
	d := 240 - FirstSegmentX
	want := int(d/10) + 1
	if crossings != want {
		t.Fatalf("crossings = %d, want %d", crossings, want)
	}
}

func TestTrackRecyclesInOrder(t *testing.T) {
	tr := NewTrack()
	tr.Reset(testLevel(), 3)
	for i := 0; i < 400; i++ {
		tr.Advance(0.05)
		for j := 1; j < len(tr.Segments); j++ {
			if tr.Segments[j].X <= tr.Segments[j-1].X {
				t.Fatalf("segments out of order after %d ticks", i)
			}
		}
		if tr.Segments[0].X < RecycleX {
			t.Fatalf("segment left behind at %v", tr.Segments[0].X)
		}
	}
}

func TestTrackRecycleRestoresPickups(t *testing.T) {
	tr := NewTrack()
	tr.Reset(testLevel(), 5)
	first := tr.Segments[0]
	for i := range first.Pickups {
		first.Pickups[i].Collect()
	}
	for tr.Segments[0] == first {
		tr.Advance(0.1)
	}
	if first.Passed {
		t.Fatal("recycled segment still marked passed")
	}
	for i, p := range first.Pickups {
		if !p.Visible {
			t.Fatalf("pickup %d not restored", i)
		}
	}
}

func TestTrackNearSelectsCraftWindow(t *testing.T) {
	tr := NewTrack()
	tr.Reset(testLevel(), 9)
	if got := tr.Near(CraftX); len(got) != 0 {
		t.Fatalf("near at start = %d segments, want 0", len(got))
	}
	for tr.Segments[0].X > CraftX {
		tr.Advance(0.05)
	}
	got := tr.Near(CraftX)
	if len(got) == 0 || got[0] != tr.Segments[0] {
		t.Fatalf("near did not include the segment at the craft")
	}
}

func TestSegmentBarriersLeaveGap(t *testing.T) {
	s := &Segment{X: 0, GapCenter: 1, GapSize: 4, Width: PipeWidth}
	craft := NewCraft(0)
	craft.Pos.Y = 1
	if s.Upper().Intersects(craft.Bounds()) || s.Lower().Intersects(craft.Bounds()) {
		t.Fatal("craft centered in gap should not collide")
	}
	craft.Pos.Y = 3
	if !s.Upper().Intersects(craft.Bounds()) {
		t.Fatal("craft in upper barrier should collide")
	}
}

func TestNilTrackIsSafe(t *testing.T) {
	var tr *Track
	tr.Reset(testLevel(), 1)
	if tr.Advance(1) != nil || tr.Near(0) != nil {
		t.Fatal("nil track returned segments")
	}
}
