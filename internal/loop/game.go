// Package loop is the simulation core: the per-player state machine, the
// collision and pickup resolver, run recording with ghost playback and the
// split-screen layout. Frontends drive it through commands and Simulate.
package loop

import (
	"math/rand"
	"time"

	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop/config"
	"github.com/tomz197/ufoflap/internal/object"
)

// Options configures a Game.
type Options struct {
	Levels *level.Catalog // Nil uses the built-in catalog
	Seed   int64          // Seeds track layouts; zero picks one from the clock
}

// Game owns every piece of mutable simulation state. It is not safe for
// concurrent use; one frontend drives one Game.
type Game struct {
	levels  *level.Catalog
	mode    Mode
	level   int
	inMatch bool
	paused  bool

	players [config.Players]Player
	crafts  [config.Players]*object.Craft
	track   *object.Track
	seeds   *rand.Rand

	rec       recorder
	published *Recording
	ghost     *Ghost

	pending []Event
	events  []Event
}

// NewGame creates a game on the title screen.
func NewGame(opts Options) *Game {
	levels := opts.Levels
	if levels == nil {
		levels = level.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		levels: levels,
		level:  1,
		track:  object.NewTrack(),
		seeds:  rand.New(rand.NewSource(seed)),
		ghost:  NewGhost(),
	}
	for i := range g.crafts {
		g.crafts[i] = object.NewCraft(i)
	}
	g.track.Reset(g.levels.Level(1), g.seeds.Int63())
	return g
}

// Start begins a new match in the given mode. It is ignored while a match
// is still running.
func (g *Game) Start(mode Mode) {
	if g.inMatch && !g.Over() {
		return
	}
	g.mode = mode
	g.level = 1
	g.inMatch = true
	g.paused = false
	g.rec.discard()

	for i := range g.players {
		g.players[i] = Player{State: StateStart}
		g.crafts[i].Reset()
		g.crafts[i].Visible = true
	}
	for i := 0; i < mode.Players(); i++ {
		g.players[i] = newPlayer()
	}
	g.resetTrack()
	g.emit(Event{Kind: EventMusicStart, Player: MatchWide, Level: g.levelConfig().Music})
}

// Restart abandons the match and returns to the title screen. A recording
// published since the last title visit replaces the ghost's.
func (g *Game) Restart() {
	if g.inMatch {
		g.emit(Event{Kind: EventMusicStop, Player: MatchWide})
	}
	g.inMatch = false
	g.paused = false
	g.rec.discard()
	for i := range g.players {
		g.players[i] = Player{State: StateStart}
	}
	if g.published != nil {
		g.ghost.Load(*g.published, g.levels.Level(g.published.Level))
		g.published = nil
	}
}

// Flap applies a flap for player i. The first flap in ready starts the run.
// Flaps in any other state, or while paused, are ignored.
func (g *Game) Flap(i int) {
	if !g.inMatch || g.paused || i < 0 || i >= g.mode.Players() {
		return
	}
	p := &g.players[i]
	switch p.State {
	case StateReady:
		p.State = StatePlaying
		if g.mode == ModeSingle {
			g.rec.begin(g.level, g.track.Seed())
		}
	case StatePlaying:
	default:
		return
	}
	g.crafts[i].Flap()
	if g.mode == ModeSingle {
		g.rec.flap()
	}
	g.emit(Event{Kind: EventFlap, Player: i, Pos: g.crafts[i].Pos})
}

// TogglePause pauses a running match or resumes a paused one.
func (g *Game) TogglePause() {
	if g.paused {
		g.Resume()
	} else {
		g.Pause()
	}
}

// Pause freezes the simulation. It only applies while someone is playing.
func (g *Game) Pause() {
	if !g.inMatch || g.paused || !g.anyIn(StatePlaying) {
		return
	}
	g.paused = true
	for i := range g.players {
		if g.players[i].State == StatePlaying {
			g.players[i].State = StatePaused
		}
	}
	g.emit(Event{Kind: EventPause, Player: MatchWide})
	g.emit(Event{Kind: EventMusicStop, Player: MatchWide})
}

// Resume continues a paused match.
func (g *Game) Resume() {
	if !g.paused {
		return
	}
	g.paused = false
	for i := range g.players {
		if g.players[i].State == StatePaused {
			g.players[i].State = StatePlaying
		}
	}
	g.emit(Event{Kind: EventResume, Player: MatchWide})
	g.emit(Event{Kind: EventMusicStart, Player: MatchWide, Level: g.levelConfig().Music})
}

// NextLevel moves players waiting in levelComplete to the next level.
func (g *Game) NextLevel() {
	if !g.inMatch || !g.anyIn(StateLevelComplete) || g.level >= g.levels.Count() {
		return
	}
	g.level++
	for i := range g.players {
		if g.players[i].State == StateLevelComplete {
			g.players[i].State = StateReady
			g.players[i].Pipes = 0
			g.crafts[i].Reset()
		}
	}
	g.resetTrack()
	g.emit(Event{Kind: EventMusicStart, Player: MatchWide, Level: g.levelConfig().Music})
}

// Simulate runs one tick of dt and returns the events of queued commands
// followed by the events of the tick. The slice is reused by the next call.
func (g *Game) Simulate(dt time.Duration) []Event {
	g.events = append(g.events[:0], g.pending...)
	g.pending = g.pending[:0]

	if dt <= 0 {
		return g.events
	}
	if dt > config.MaxTickTime {
		dt = config.MaxTickTime
	}

	if !g.inMatch {
		g.ghost.Step(dt)
		return g.events
	}
	if g.paused || !g.anyIn(StatePlaying) {
		return g.events
	}

	secs := dt.Seconds()
	crossed := g.track.Advance(secs)
	if g.players[0].State == StatePlaying {
		g.rec.advance(dt)
	}
	for i := 0; i < g.mode.Players(); i++ {
		g.tick(i, secs, crossed)
	}
	return g.events
}

// Over reports whether every player of the match reached a terminal state.
func (g *Game) Over() bool {
	if !g.inMatch {
		return false
	}
	for i := 0; i < g.mode.Players(); i++ {
		if !g.players[i].State.Terminal() {
			return false
		}
	}
	return true
}

// Mode returns the current match mode.
func (g *Game) Mode() Mode { return g.mode }

// Level returns the current 1-based level.
func (g *Game) Level() int { return g.level }

// InMatch reports whether a match is running, as opposed to the title screen.
func (g *Game) InMatch() bool { return g.inMatch }

// Paused reports whether the match is paused.
func (g *Game) Paused() bool { return g.paused }

// Player returns a copy of player i's counters.
func (g *Game) Player(i int) Player {
	if i < 0 || i >= len(g.players) {
		return Player{}
	}
	return g.players[i]
}

// Craft returns player i's craft, or nil.
func (g *Game) Craft(i int) *object.Craft {
	if i < 0 || i >= len(g.crafts) {
		return nil
	}
	return g.crafts[i]
}

// Track returns the track to draw: the ghost's on the title screen.
func (g *Game) Track() *object.Track {
	if !g.inMatch && g.ghost.Active() {
		return g.ghost.Track()
	}
	return g.track
}

// Ghost returns the title-screen ghost.
func (g *Game) Ghost() *Ghost { return g.ghost }

// Levels returns the level catalog.
func (g *Game) Levels() *level.Catalog { return g.levels }

// PendingRecording returns the recording waiting for the next title visit.
func (g *Game) PendingRecording() (Recording, bool) {
	if g.published == nil {
		return Recording{}, false
	}
	return *g.published, true
}

func (g *Game) levelConfig() level.Config {
	return g.levels.Level(g.level)
}

func (g *Game) resetTrack() {
	g.track.Reset(g.levelConfig(), g.seeds.Int63())
}

func (g *Game) anyIn(s State) bool {
	for i := 0; i < g.mode.Players(); i++ {
		if g.players[i].State == s {
			return true
		}
	}
	return false
}

func (g *Game) emit(e Event) {
	g.pending = append(g.pending, e)
}

// push appends a tick event directly to the current result.
func (g *Game) push(e Event) {
	g.events = append(g.events, e)
}

// publish stores a finished run for the ghost.
func (g *Game) publish(pipes int) {
	rec, ok := g.rec.finish(pipes)
	if !ok {
		return
	}
	g.published = &rec
	g.push(Event{Kind: EventRecordingPublished, Player: 0, Level: rec.Level, Count: len(rec.Flaps)})
}
