// Package client is the terminal frontend. Each client runs its own
// simulation and shares only presence and the leaderboard through the hub.
package client

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/ufoflap/internal/audio"
	"github.com/tomz197/ufoflap/internal/draw"
	"github.com/tomz197/ufoflap/internal/input"
	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop"
	"github.com/tomz197/ufoflap/internal/loop/config"
	"github.com/tomz197/ufoflap/internal/loop/server"
	"github.com/tomz197/ufoflap/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	game         *loop.Game
	collab       loop.Collaborators
	particles    *object.Particles
	labels       object.Labels
	canvases     [2]*draw.Canvas   // One per viewport
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	overlay      *draw.ChunkWriter // World-anchored text drawn after the canvases
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Levels       *level.Catalog // Nil uses the built-in catalog
	Seed         int64          // Zero seeds from the clock
	Audio        loop.AudioSink // Nil plays nothing
}

// NewClient creates a new client connected to the given hub.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	var sink loop.AudioSink = audio.Silent{}
	if opts.Audio != nil {
		sink = opts.Audio
	}

	chunkWriter := draw.NewChunkWriter(w)
	particles := object.NewParticles()

	return &Client{
		server:       gs,
		handle:       gs.RegisterClient(opts.Username),
		state:        NewClientState(),
		game:         loop.NewGame(loop.Options{Levels: opts.Levels, Seed: opts.Seed}),
		collab:       loop.Collaborators{Audio: sink, Effects: burstEffects{particles}},
		particles:    particles,
		chunkWriter:  chunkWriter,
		overlay:      draw.NewChunkWriter(chunkWriter),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
}

// Game returns the client's simulation.
func (c *Client) Game() *loop.Game {
	return c.game
}

// Run starts the client loop. Blocks until the client disconnects or the hub stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()

		if c.state.shutdown {
			c.updateShutdownState()
		}

		c.handleEvents(c.game.Simulate(c.state.delta))
		dt := c.state.delta.Seconds()
		c.particles.Update(dt)
		c.labels.Update(dt)

		if err := c.drawFrame(); err != nil {
			c.server.UnregisterClient(c.handle.ID)
			return fmt.Errorf("draw frame: %w", err)
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)
	c.collab.Dispatch([]loop.Event{{Kind: loop.EventMusicStop, Player: loop.MatchWide}})

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input, tracks inactivity and applies game commands.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
		return
	}
	if !c.state.shutdown {
		c.applyInput(c.state.Input)
	}
}

// applyInput maps one frame of actions to game commands for the current screen.
func (c *Client) applyInput(in input.Input) {
	g := c.game

	if !g.InMatch() {
		switch {
		case in.Number == 2:
			c.startMatch(loop.ModeChallenge)
		case in.Number == 1, in.Flap[0], in.Enter:
			c.startMatch(loop.ModeSingle)
		}
		return
	}

	if in.Escape {
		g.Restart()
		return
	}
	if g.Over() {
		if in.Enter {
			g.Restart()
		}
		return
	}
	if c.anyPlayerIn(loop.StateLevelComplete) {
		if in.Enter || in.Flap[0] {
			g.NextLevel()
		}
		return
	}
	if in.Pause {
		g.TogglePause()
	}
	if in.Flap[0] {
		g.Flap(0)
	}
	if in.Flap[1] {
		g.Flap(1)
	}
}

func (c *Client) startMatch(mode loop.Mode) {
	c.state.reported = [2]bool{}
	c.state.highScore = false
	c.particles.Clear()
	c.labels.Clear()
	c.game.Start(mode)
}

func (c *Client) anyPlayerIn(s loop.State) bool {
	for i := 0; i < c.game.Mode().Players(); i++ {
		if c.game.Player(i).State == s {
			return true
		}
	}
	return false
}

// handleEvents forwards simulation events to audio and effects and turns
// scoring events into floating labels.
func (c *Client) handleEvents(events []loop.Event) {
	c.collab.Dispatch(events)

	for _, e := range events {
		above := object.Vec{X: e.Pos.X, Y: e.Pos.Y + 1.5}
		switch e.Kind {
		case loop.EventPipePassed:
			c.labels.Add(above, fmt.Sprintf("+%d", config.ScorePipe), draw.ColorGreen)
		case loop.EventRewardCollected:
			c.labels.Add(above, fmt.Sprintf("+%d", config.ScoreReward), draw.ColorBrightYellow)
		case loop.EventTrapHit:
			c.labels.Add(above, fmt.Sprintf("-%d", config.PenaltyTrap), draw.ColorMagenta)
		case loop.EventLifeUp:
			c.labels.Add(above, "1UP", draw.ColorBrightCyan)
		case loop.EventGameOver, loop.EventVictory:
			c.reportScores()
		}
	}
}

// reportScores sends each finished player's score to the hub once per match.
func (c *Client) reportScores() {
	for i := 0; i < c.game.Mode().Players(); i++ {
		p := c.game.Player(i)
		if c.state.reported[i] || !p.State.Terminal() {
			continue
		}
		c.state.reported[i] = true
		label := ""
		if c.game.Mode() == loop.ModeChallenge {
			label = fmt.Sprintf("%s P%d", c.username, i+1)
		}
		c.server.ReportScore(c.handle.ID, server.ScoreReport{Label: label, Score: p.Score, Level: c.game.Level()})
	}
}

// processServerEvents handles events from the hub.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.shutdown = true
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
				c.game.Pause()
			case server.EventNewHighScore:
				c.state.highScore = true
			}
		default:
			return
		}
	}
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// burstEffects adapts the particle system to the simulation's effects sink.
type burstEffects struct {
	particles *object.Particles
}

func (b burstEffects) Burst(pos object.Vec, tint loop.Tint, count int) {
	b.particles.Burst(pos, tintColor(tint), count)
}

func tintColor(t loop.Tint) draw.Color {
	switch t {
	case loop.TintReward:
		return draw.ColorBrightYellow
	case loop.TintTrap:
		return draw.ColorMagenta
	case loop.TintCrash:
		return draw.ColorRed
	case loop.TintLife:
		return draw.ColorBrightCyan
	default:
		return draw.ColorWhite
	}
}
