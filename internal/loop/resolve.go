package loop

import (
	"github.com/tomz197/ufoflap/internal/loop/config"
	"github.com/tomz197/ufoflap/internal/object"
	"github.com/tomz197/ufoflap/internal/physics"
)

// tick runs physics, collision, pickups and pipe passes for player i, in
// that order. A crash ends the player's tick.
func (g *Game) tick(i int, dt float64, crossed []*object.Segment) {
	p := &g.players[i]
	c := g.crafts[i]
	if p.State != StatePlaying || c == nil {
		return
	}

	if c.Step(dt) == object.BoundLower {
		g.crash(i)
		return
	}

	near := g.track.Near(c.Pos.X)
	box := c.Bounds()
	for _, s := range near {
		if s.Upper().Intersects(box) || s.Lower().Intersects(box) {
			c.Crash()
			g.crash(i)
			return
		}
	}

	for _, s := range near {
		for k := range s.Pickups {
			pk := &s.Pickups[k]
			if !pk.Visible {
				continue
			}
			if physics.PointInCircle(pk.Pos.X, pk.Pos.Y, c.Pos.X, c.Pos.Y, object.CraftRadius+pk.Radius) && pk.Collect() {
				g.collect(i, pk)
			}
		}
	}

	for range crossed {
		if p.State != StatePlaying {
			return
		}
		g.passPipe(i)
	}
}

func (g *Game) collect(i int, pk *object.Pickup) {
	p := &g.players[i]
	switch pk.Kind {
	case object.PickupTrap:
		p.addScore(-config.PenaltyTrap)
		g.push(Event{Kind: EventTrapHit, Player: i, Pos: pk.Pos})
		g.push(Event{Kind: EventBurst, Player: i, Pos: pk.Pos, Tint: TintTrap, Count: config.BurstTrap})
	default:
		p.addScore(config.ScoreReward)
		g.push(Event{Kind: EventRewardCollected, Player: i, Pos: pk.Pos})
		g.push(Event{Kind: EventBurst, Player: i, Pos: pk.Pos, Tint: TintReward, Count: config.BurstReward})
		if p.addCurrency() {
			g.push(Event{Kind: EventLifeUp, Player: i, Pos: g.crafts[i].Pos})
		}
	}
}

func (g *Game) passPipe(i int) {
	p := &g.players[i]
	p.Pipes++
	p.addScore(config.ScorePipe)
	g.push(Event{Kind: EventPipePassed, Player: i, Pos: g.crafts[i].Pos, Count: p.Pipes})
	if p.Pipes >= g.levelConfig().RequiredPipes {
		g.completeLevel(i)
	}
}

// completeLevel ends the level for the whole match. Finishing the last level
// is a victory for every player still in the match.
func (g *Game) completeLevel(i int) {
	if g.mode == ModeSingle {
		g.publish(g.players[i].Pipes)
	}

	final := g.level >= g.levels.Count()
	next := StateLevelComplete
	kind := EventLevelComplete
	if final {
		next = StateVictory
		kind = EventVictory
	}
	for j := 0; j < g.mode.Players(); j++ {
		if !g.players[j].State.Terminal() {
			g.players[j].State = next
		}
	}
	g.push(Event{Kind: kind, Player: i, Level: g.level})
	g.push(Event{Kind: EventMusicStop, Player: MatchWide})
}

// crash costs player i a life. With lives left the player waits in ready on
// a fresh craft; the shared track restarts only if nobody else is flying it.
func (g *Game) crash(i int) {
	p := &g.players[i]
	c := g.crafts[i]

	p.Lives--
	g.push(Event{Kind: EventCrash, Player: i, Pos: c.Pos})
	g.push(Event{Kind: EventBurst, Player: i, Pos: c.Pos, Tint: TintCrash, Count: config.BurstCrash})

	if p.Lives <= 0 {
		p.Lives = 0
		p.State = StateGameOver
		if g.mode == ModeSingle {
			g.publish(p.Pipes)
		}
		g.push(Event{Kind: EventGameOver, Player: i, Level: g.level})
		if g.Over() {
			g.push(Event{Kind: EventMusicStop, Player: MatchWide})
		}
		return
	}

	if g.mode == ModeSingle {
		g.rec.discard()
	}
	p.State = StateReady
	p.Pipes = 0
	c.Reset()
	if !g.anyIn(StatePlaying) {
		g.resetTrack()
	}
}
