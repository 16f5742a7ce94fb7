package loop

import (
	"time"

	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/object"
)

// Recording is a finished single-player run: the level it was flown on, the
// track seed and every accepted flap relative to the first one.
type Recording struct {
	Level int             `json:"level"`
	Seed  int64           `json:"seed"`
	Flaps []time.Duration `json:"flaps"`
}

// recorder collects flap timestamps of the run in progress.
// Time is simulation time, advanced only by playing ticks.
type recorder struct {
	active  bool
	rec     Recording
	elapsed time.Duration
}

func (r *recorder) begin(level int, seed int64) {
	r.active = true
	r.elapsed = 0
	r.rec = Recording{Level: level, Seed: seed}
}

func (r *recorder) flap() {
	if r.active {
		r.rec.Flaps = append(r.rec.Flaps, r.elapsed)
	}
}

func (r *recorder) advance(dt time.Duration) {
	if r.active {
		r.elapsed += dt
	}
}

// finish closes the run. It yields a recording only when pipes > 0.
func (r *recorder) finish(pipes int) (Recording, bool) {
	if !r.active {
		return Recording{}, false
	}
	r.active = false
	if pipes < 1 {
		return Recording{}, false
	}
	rec := r.rec
	r.rec = Recording{}
	return rec, true
}

func (r *recorder) discard() {
	r.active = false
	r.rec = Recording{}
}

// Ghost replays a recording on the title screen. It flies the recorded flaps
// through the normal craft physics and starts over whenever the craft leaves
// the height limits. A ghost never produces events.
type Ghost struct {
	rec     Recording
	craft   *object.Craft
	track   *object.Track
	cfg     level.Config
	elapsed time.Duration
	next    int
	loops   int
	loaded  bool
}

// NewGhost creates an idle ghost.
func NewGhost() *Ghost {
	return &Ghost{craft: object.NewCraft(0), track: object.NewTrack()}
}

// Load replaces the replayed recording and restarts playback.
func (g *Ghost) Load(rec Recording, cfg level.Config) {
	if g == nil {
		return
	}
	g.rec = rec
	g.cfg = cfg
	g.loaded = true
	g.loops = 0
	g.reset()
}

// Active reports whether a recording is loaded.
func (g *Ghost) Active() bool {
	return g != nil && g.loaded
}

// Craft returns the ghost's craft.
func (g *Ghost) Craft() *object.Craft {
	if g == nil {
		return nil
	}
	return g.craft
}

// Track returns the track the ghost flies.
func (g *Ghost) Track() *object.Track {
	if g == nil {
		return nil
	}
	return g.track
}

// Elapsed returns the playback time of the current loop.
func (g *Ghost) Elapsed() time.Duration {
	return g.elapsed
}

// Loops returns how many times playback restarted since Load.
func (g *Ghost) Loops() int {
	return g.loops
}

// Step advances playback by dt. Flaps are applied at their exact offsets
// by splitting the step; a flap at t belongs to the step covering [t, t+dt).
func (g *Ghost) Step(dt time.Duration) {
	if !g.Active() || dt <= 0 {
		return
	}
	end := g.elapsed + dt
	for g.next < len(g.rec.Flaps) && g.rec.Flaps[g.next] < end {
		at := g.rec.Flaps[g.next]
		if at > g.elapsed {
			if g.advance(at - g.elapsed) {
				return
			}
			g.elapsed = at
		}
		g.craft.Flap()
		g.next++
	}
	if end > g.elapsed && !g.advance(end-g.elapsed) {
		g.elapsed = end
	}
}

// advance integrates d and reports whether playback had to restart.
func (g *Ghost) advance(d time.Duration) bool {
	secs := d.Seconds()
	bound := g.craft.Step(secs)
	g.track.Advance(secs)
	if bound != object.BoundNone {
		g.loops++
		g.reset()
		return true
	}
	return false
}

func (g *Ghost) reset() {
	g.craft.Reset()
	g.craft.Visible = true
	g.elapsed = 0
	g.next = 0
	g.track.Reset(g.cfg, g.rec.Seed)
}
