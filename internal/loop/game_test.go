package loop

import (
	"testing"
	"time"

	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop/config"
	"github.com/tomz197/ufoflap/internal/object"
)

const testLevels = `
[[level]]
name = "one"
required_pipes = 3
spacing = 10.0
gap_size = 5.0
gap_jitter = 0.0
speed = 4.0
pickup_chance = 0.0
trap_chance = 0.0
music = 0

[[level]]
name = "two"
required_pipes = 2
spacing = 10.0
gap_size = 5.0
gap_jitter = 0.0
speed = 4.0
pickup_chance = 0.0
trap_chance = 0.0
music = 1
`

const tick = 20 * time.Millisecond

func newTestGame(t *testing.T, levels string) *Game {
	t.Helper()
	catalog, err := level.Parse(levels)
	if err != nil {
		t.Fatalf("parse levels: %v", err)
	}
	return NewGame(Options{Levels: catalog, Seed: 1})
}

// fly keeps every playing craft hovering around the gap center and stops
// once stop reports true for a tick's events.
func fly(g *Game, maxTicks int, stop func([]Event) bool) []Event {
	var all []Event
	for i := 0; i < maxTicks; i++ {
		for p := 0; p < g.mode.Players(); p++ {
			if g.players[p].State == StatePlaying && g.crafts[p].Pos.Y < 0 {
				g.Flap(p)
			}
		}
		evs := g.Simulate(tick)
		all = append(all, evs...)
		if stop(evs) {
			break
		}
	}
	return all
}

// fall simulates without flapping until player p crashes.
func fall(t *testing.T, g *Game, p int) []Event {
	t.Helper()
	var all []Event
	for i := 0; i < 1000; i++ {
		evs := g.Simulate(tick)
		all = append(all, evs...)
		if has(evs, EventCrash, p) {
			return all
		}
	}
	t.Fatalf("player %d never crashed", p)
	return nil
}

func has(evs []Event, kind EventKind, player int) bool {
	return count(evs, kind, player) > 0
}

func count(evs []Event, kind EventKind, player int) int {
	n := 0
	for _, e := range evs {
		if e.Kind == kind && e.Player == player {
			n++
		}
	}
	return n
}

func TestStartEntersReady(t *testing.T) {
	g := newTestGame(t, testLevels)
	if g.InMatch() || g.Player(0).State != StateStart {
		t.Fatalf("new game should be on the title screen")
	}

	g.Start(ModeSingle)
	if got := g.Player(0); got.State != StateReady || got.Lives != config.InitialLives || got.Score != 0 {
		t.Fatalf("player after start = %+v", got)
	}
	if g.Player(1).State != StateStart {
		t.Fatalf("second player should stay idle in single mode")
	}
	evs := g.Simulate(tick)
	if !has(evs, EventMusicStart, MatchWide) {
		t.Fatalf("start did not request music: %v", evs)
	}
}

func TestReadyDoesNotSimulate(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	x := g.track.Segments[0].X
	g.Simulate(tick)
	if g.crafts[0].Pos.Y != 0 || g.track.Segments[0].X != x {
		t.Fatal("simulation ran before the first flap")
	}
}

func TestFlapStartsRun(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Flap(0)
	if g.Player(0).State != StateStart {
		t.Fatal("flap on the title screen changed state")
	}

	g.Start(ModeSingle)
	g.Flap(1)
	if g.Player(1).State != StateStart {
		t.Fatal("second player accepted a flap in single mode")
	}
	g.Flap(0)
	if g.Player(0).State != StatePlaying {
		t.Fatalf("state = %v, want playing", g.Player(0).State)
	}
	if g.crafts[0].Velocity != object.JumpVelocity {
		t.Fatalf("velocity = %v", g.crafts[0].Velocity)
	}
	if evs := g.Simulate(tick); !has(evs, EventFlap, 0) {
		t.Fatalf("no flap event in %v", evs)
	}
}

func TestVelocityDecreasesByGravity(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)
	prev := g.crafts[0].Velocity
	for i := 0; i < 10; i++ {
		g.Simulate(tick)
		v := g.crafts[0].Velocity
		want := prev + object.Gravity*tick.Seconds()
		if d := v - want; d > 1e-9 || d < -1e-9 {
			t.Fatalf("tick %d velocity = %v, want %v", i, v, want)
		}
		prev = v
	}
}

func TestCrashWithLivesLeftReturnsToReady(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)
	evs := fall(t, g, 0)

	if n := count(evs, EventCrash, 0); n != 1 {
		t.Fatalf("crash events = %d, want 1", n)
	}
	p := g.Player(0)
	if p.State != StateReady || p.Lives != config.InitialLives-1 || p.Pipes != 0 {
		t.Fatalf("player after crash = %+v", p)
	}
	if c := g.crafts[0]; c.Crashed || c.Pos.Y != 0 || c.Velocity != 0 {
		t.Fatalf("craft not reset: %+v", c)
	}
	if g.track.Segments[0].X != object.FirstSegmentX {
		t.Fatalf("track not reset, first segment at %v", g.track.Segments[0].X)
	}
}

func TestGameOverAtZeroLives(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	var evs []Event
	for i := 0; i < config.InitialLives; i++ {
		g.Flap(0)
		evs = fall(t, g, 0)
	}
	p := g.Player(0)
	if p.State != StateGameOver || p.Lives != 0 {
		t.Fatalf("player = %+v, want game over with 0 lives", p)
	}
	if !has(evs, EventGameOver, 0) || !g.Over() {
		t.Fatal("game over not reported")
	}

	g.Flap(0)
	g.Simulate(tick)
	if g.Player(0).Lives != 0 || g.Player(0).State != StateGameOver {
		t.Fatal("game over is not terminal")
	}
}

func TestLevelCompletesAtRequiredPipes(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)

	passed := 0
	fly(g, 2000, func(evs []Event) bool {
		passed += count(evs, EventPipePassed, 0)
		if passed == 2 && g.Player(0).State != StatePlaying {
			t.Fatalf("left playing after 2 of 3 pipes: %v", g.Player(0).State)
		}
		return passed >= 3
	})

	p := g.Player(0)
	if p.State != StateLevelComplete || p.Pipes != 3 || p.Score != 3*config.ScorePipe {
		t.Fatalf("player = %+v, want level complete with 3 pipes", p)
	}
}

func TestNextLevelAndVictory(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)
	fly(g, 2000, func([]Event) bool { return g.Player(0).State != StatePlaying })

	g.NextLevel()
	if g.Level() != 2 || g.Player(0).State != StateReady || g.Player(0).Pipes != 0 {
		t.Fatalf("after next level: level %d player %+v", g.Level(), g.Player(0))
	}
	if evs := g.Simulate(0); !has(evs, EventMusicStart, MatchWide) || evs[len(evs)-1].Level != 1 {
		t.Fatalf("next level music not requested: %v", evs)
	}

	g.Flap(0)
	evs := fly(g, 2000, func([]Event) bool { return g.Player(0).State != StatePlaying })
	if g.Player(0).State != StateVictory || !has(evs, EventVictory, 0) {
		t.Fatalf("final level did not end in victory: %v", g.Player(0).State)
	}

	g.NextLevel()
	if g.Level() != 2 {
		t.Fatal("next level advanced past the catalog")
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Pause()
	if g.Paused() {
		t.Fatal("paused without a running player")
	}

	g.Flap(0)
	g.Simulate(tick)
	g.TogglePause()
	if !g.Paused() || g.Player(0).State != StatePaused {
		t.Fatalf("pause failed: %v", g.Player(0).State)
	}
	y, x := g.crafts[0].Pos.Y, g.track.Segments[0].X
	evs := g.Simulate(tick)
	if !has(evs, EventPause, MatchWide) || !has(evs, EventMusicStop, MatchWide) {
		t.Fatalf("pause events missing: %v", evs)
	}
	g.Flap(0)
	g.Simulate(tick)
	if g.crafts[0].Pos.Y != y || g.track.Segments[0].X != x {
		t.Fatal("paused simulation moved")
	}

	g.TogglePause()
	if g.Paused() || g.Player(0).State != StatePlaying {
		t.Fatal("resume failed")
	}
	g.Simulate(tick)
	if g.crafts[0].Pos.Y == y {
		t.Fatal("simulation did not resume")
	}
}

// placePickup puts a single pickup on the craft with a segment that is
// already behind it.
func placePickup(g *Game, kind object.PickupKind) {
	s := g.track.Segments[0]
	s.X = -4
	s.Passed = true
	s.Pickups = append(s.Pickups[:0], object.Pickup{
		Pos:     object.Vec{X: object.CraftX, Y: 0},
		Radius:  object.PickupRadius,
		Kind:    kind,
		Visible: true,
	})
}

func TestBarrierCrashEndsTick(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	s := g.track.Segments[0]
	s.X = 0.05
	s.GapCenter = 5
	s.Passed = false
	s.Pickups = append(s.Pickups[:0], object.Pickup{
		Pos:     object.Vec{X: object.CraftX, Y: 0},
		Radius:  object.PickupRadius,
		Kind:    object.PickupReward,
		Visible: true,
	})
	g.Flap(0)

	evs := g.Simulate(tick)
	if !has(evs, EventCrash, 0) || !has(evs, EventBurst, 0) {
		t.Fatalf("barrier hit did not crash: %v", evs)
	}
	if has(evs, EventRewardCollected, 0) || has(evs, EventPipePassed, 0) {
		t.Fatalf("crash tick still scored: %v", evs)
	}
	p := g.Player(0)
	if p.State != StateReady || p.Lives != config.InitialLives-1 || p.Score != 0 || p.Pipes != 0 {
		t.Fatalf("player after barrier crash = %+v", p)
	}
}

func TestRewardCollectedOnce(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	placePickup(g, object.PickupReward)
	g.Flap(0)

	evs := append([]Event(nil), g.Simulate(10*time.Millisecond)...)
	evs = append(evs, g.Simulate(10*time.Millisecond)...)
	if n := count(evs, EventRewardCollected, 0); n != 1 {
		t.Fatalf("reward events = %d, want 1", n)
	}
	if count(evs, EventTrapHit, 0) != 0 {
		t.Fatal("reward also fired a trap")
	}
	if !has(evs, EventBurst, 0) {
		t.Fatal("no burst for the reward")
	}
	p := g.Player(0)
	if p.Score != config.ScoreReward || p.Currency != 1 {
		t.Fatalf("player = %+v", p)
	}
}

func TestRewardGrantsLifeOnCurrencyWrap(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.players[0].Currency = config.CurrencyPerLife - 1
	placePickup(g, object.PickupReward)
	g.Flap(0)

	evs := g.Simulate(10 * time.Millisecond)
	p := g.Player(0)
	if !has(evs, EventLifeUp, 0) || p.Lives != config.InitialLives+1 || p.Currency != 0 {
		t.Fatalf("player = %+v, events %v", p, evs)
	}
}

func TestTrapScoreFloor(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.players[0].Score = 1
	placePickup(g, object.PickupTrap)
	g.Flap(0)

	evs := g.Simulate(10 * time.Millisecond)
	if !has(evs, EventTrapHit, 0) || has(evs, EventRewardCollected, 0) {
		t.Fatalf("unexpected events %v", evs)
	}
	if g.Player(0).Score != 0 {
		t.Fatalf("score = %d, want 0", g.Player(0).Score)
	}
}

func TestCurrencyWrapsIntoLives(t *testing.T) {
	p := newPlayer()
	lives := 0
	for i := 0; i < 2*config.CurrencyPerLife+3; i++ {
		if p.addCurrency() {
			lives++
		}
	}
	if lives != 2 || p.Currency != 3 || p.Lives != config.InitialLives+2 {
		t.Fatalf("lives granted %d, player %+v", lives, p)
	}

	p.Score = 4
	p.addScore(-config.PenaltyTrap)
	p.addScore(-config.PenaltyTrap)
	if p.Score != 0 {
		t.Fatalf("score = %d, want 0", p.Score)
	}
}

func TestChallengePlayersAreIsolated(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeChallenge)
	g.Flap(0)
	g.Flap(1)
	g.Simulate(tick)

	// Player 1 keeps hovering while player 2 falls.
	for i := 0; i < 1000 && g.Player(1).State == StatePlaying; i++ {
		if g.crafts[0].Pos.Y < 0 {
			g.Flap(0)
		}
		g.Simulate(tick)
	}

	p1, p2 := g.Player(0), g.Player(1)
	if p2.State != StateReady || p2.Lives != config.InitialLives-1 {
		t.Fatalf("player 2 = %+v", p2)
	}
	if p1.State != StatePlaying || p1.Lives != config.InitialLives {
		t.Fatalf("player 1 changed by player 2's crash: %+v", p1)
	}
	if g.track.Segments[0].X == object.FirstSegmentX {
		t.Fatal("track reset while player 1 was still flying")
	}
}

func TestTrackAdvancesOncePerTick(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeChallenge)
	g.Flap(0)
	g.Flap(1)
	x := g.track.Segments[0].X
	g.Simulate(tick)
	want := x - g.levelConfig().Speed*tick.Seconds()
	if d := g.track.Segments[0].X - want; d > 1e-9 || d < -1e-9 {
		t.Fatalf("segment at %v, want %v", g.track.Segments[0].X, want)
	}
}

func TestChallengeLevelCompleteIsMatchWide(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeChallenge)
	g.Flap(0)
	evs := fly(g, 2000, func([]Event) bool { return g.Player(0).State != StatePlaying })

	if !has(evs, EventLevelComplete, 0) {
		t.Fatal("level not completed")
	}
	if g.Player(1).State != StateLevelComplete {
		t.Fatalf("player 2 state = %v, want levelComplete", g.Player(1).State)
	}
	if g.Player(1).Score != 0 {
		t.Fatal("player 2 scored for player 1's pipes")
	}
}

func TestStartIgnoredDuringMatch(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)
	g.Start(ModeChallenge)
	if g.Mode() != ModeSingle || g.Player(0).State != StatePlaying {
		t.Fatal("start interrupted a running match")
	}
	g.Restart()
	if g.InMatch() || g.Player(0).State != StateStart {
		t.Fatal("restart did not return to the title screen")
	}
	g.Start(ModeChallenge)
	if g.Mode() != ModeChallenge || g.Player(1).State != StateReady {
		t.Fatal("start from the title screen failed")
	}
}

func TestLongFramesAreClamped(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeSingle)
	g.Flap(0)
	g.Simulate(time.Second)
	want := object.JumpVelocity + object.Gravity*config.MaxTickTime.Seconds()
	if d := g.crafts[0].Velocity - want; d > 1e-9 || d < -1e-9 {
		t.Fatalf("velocity = %v, want %v", g.crafts[0].Velocity, want)
	}
}

func TestSnapshotCopiesState(t *testing.T) {
	g := newTestGame(t, testLevels)
	g.Start(ModeChallenge)
	s := g.Snapshot()
	if len(s.Players) != 2 || len(s.Segments) != object.SegmentPoolSize || s.LevelName != "one" || s.MaxLevel != 2 {
		t.Fatalf("snapshot = %+v", s)
	}
	s.Players[0].Score = 99
	if g.Player(0).Score != 0 {
		t.Fatal("snapshot aliases game state")
	}
}
