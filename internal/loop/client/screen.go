package client

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/ufoflap/internal/draw"
	"github.com/tomz197/ufoflap/internal/loop"
	"github.com/tomz197/ufoflap/internal/loop/config"
	"github.com/tomz197/ufoflap/internal/object"
)

// drawFrame draws the current frame: one canvas per viewport, world text,
// then the UI overlay.
func (c *Client) drawFrame() error {
	key := c.currentScreen()
	if key != c.state.prevScreen {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.state.prevScreen = key
	}

	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return nil
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	views := c.game.Layout(c.primaryCamera())
	for i, v := range views {
		canvas := c.viewCanvas(i, v, renderWidth, renderHeight, offsetCol, offsetRow)
		if err := c.drawWorld(canvas, v); err != nil {
			return err
		}
		canvas.Render(c.chunkWriter)
	}
	if err := c.overlay.Flush(); err != nil {
		return err
	}

	if len(views) > 1 {
		col := c.canvases[1].OffsetCol()
		for row := 1; row <= renderHeight; row++ {
			c.chunkWriter.WriteColorAt(col, row+offsetRow, draw.ColorCyan, "│")
		}
	}

	c.drawUI(views)

	return c.chunkWriter.Flush()
}

func (c *Client) currentScreen() screenKey {
	key := screenKey{
		inMatch:  c.game.InMatch(),
		split:    c.game.InMatch() && c.game.Mode() == loop.ModeChallenge,
		paused:   c.game.Paused(),
		inactive: c.state.isInactive,
		shutdown: c.state.shutdown,
	}
	for i := range key.states {
		key.states[i] = int(c.game.Player(i).State)
	}
	return key
}

// primaryCamera keeps the craft CameraLead of the way into its viewport.
func (c *Client) primaryCamera() object.Camera {
	frac := 1.0
	if c.game.InMatch() && c.game.Mode() == loop.ModeChallenge {
		frac = 0.5
	}
	viewWorld := config.ViewWidth * frac / config.WorldScale
	return object.Camera{X: object.CraftX + viewWorld*(0.5-config.CameraLead)}
}

// viewCanvas returns the canvas for viewport i, recreating it when the
// viewport's logical width changed.
func (c *Client) viewCanvas(i int, v loop.Viewport, renderWidth, renderHeight, offsetCol, offsetRow int) *draw.Canvas {
	logicalWidth := config.ViewWidth * v.Width
	width := int(math.Round(float64(renderWidth) * v.Width))
	left := offsetCol + int(math.Round(float64(renderWidth)*v.Left))

	canvas := c.canvases[i]
	if canvas == nil || canvas.LogicalWidth() != logicalWidth {
		canvas = draw.NewScaledCanvas(width, renderHeight, logicalWidth, config.ViewHeight)
		c.canvases[i] = canvas
	}
	canvas.Resize(width, renderHeight)
	canvas.SetOffset(left, offsetRow)
	return canvas
}

// drawWorld renders the track, crafts and effects for one viewport.
func (c *Client) drawWorld(canvas *draw.Canvas, v loop.Viewport) error {
	canvas.Clear()
	ctx := object.DrawContext{
		Canvas: canvas,
		Writer: c.overlay,
		Camera: v.Camera,
		View:   object.NewScreen(int(canvas.LogicalWidth()), config.ViewHeight),
		Scale:  config.WorldScale,
	}

	drawables := []object.Drawable{c.game.Track()}
	if c.game.InMatch() {
		crafts := []*object.Craft{c.game.Craft(0), c.game.Craft(1)}
		v.Apply(crafts...)
		for _, craft := range crafts {
			drawables = append(drawables, craft)
		}
	} else if ghost := c.game.Ghost(); ghost.Active() {
		drawables = append(drawables, ghost.Craft())
	}
	drawables = append(drawables, c.particles, &c.labels)

	for _, d := range drawables {
		if err := d.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	if renderWidth < 1 {
		renderWidth = 1
	}
	if renderHeight < 1 {
		renderHeight = 1
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	if offsetCol < 0 {
		offsetCol = 0
	}
	if offsetRow < 0 {
		offsetRow = 0
	}
	return
}

// writeCentered writes s centered on col.
func (c *Client) writeCentered(col, row int, s string) {
	c.chunkWriter.WriteAt(col-len([]rune(s))/2, row, s)
}

// drawUI draws the HUD and any full-screen overlay.
func (c *Client) drawUI(views []loop.Viewport) {
	if c.state.shutdown {
		c.drawShutdownScreen(c.screenCenter())
		return
	}
	if c.state.isInactive {
		c.drawInactivityScreen(c.screenCenter())
		return
	}
	if !c.game.InMatch() {
		c.drawStartScreen(c.screenCenter())
		return
	}

	c.drawLevelBanner()
	for i, v := range views {
		c.drawPlayerHUD(c.canvases[i], v.Player)
	}
}

func (c *Client) screenCenter() (int, int) {
	canvas := c.canvases[0]
	width := canvas.TerminalWidth()
	if c.canvases[1] != nil && c.game.InMatch() && c.game.Mode() == loop.ModeChallenge {
		width += c.canvases[1].TerminalWidth()
	}
	return canvas.OffsetCol() + width/2, canvas.OffsetRow() + canvas.TerminalHeight()/2
}

// drawLevelBanner shows the level on the bottom row.
func (c *Client) drawLevelBanner() {
	cfg := c.game.Levels().Level(c.game.Level())
	col, _ := c.screenCenter()
	row := c.canvases[0].OffsetRow() + c.canvases[0].TerminalHeight()
	c.writeCentered(col, row, fmt.Sprintf(" Level %d/%d: %s ", c.game.Level(), c.game.Levels().Count(), cfg.Name))
}

// drawPlayerHUD draws one player's counters and state prompt inside its viewport.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawPlayerHUD(canvas *draw.Canvas, i int) {
	if canvas == nil {
		return
	}
	cw := c.chunkWriter
	p := c.game.Player(i)
	cfg := c.game.Levels().Level(c.game.Level())

	left := canvas.OffsetCol() + 2
	top := canvas.OffsetRow() + 1
	cw.WriteAt(left, top, fmt.Sprintf("P%d Score: %-6d Lives: %-2d", i+1, p.Score, p.Lives))
	cw.WriteAt(left, top+1, fmt.Sprintf("Coins: %2d/%d  Pipes: %2d/%d", p.Currency, config.CurrencyPerLife, p.Pipes, cfg.RequiredPipes))

	centerX := canvas.OffsetCol() + canvas.TerminalWidth()/2
	centerY := canvas.OffsetRow() + canvas.TerminalHeight()/2
	blink := time.Now().UnixMilli()/600%2 == 0

	switch p.State {
	case loop.StateReady:
		if blink {
			c.writeCentered(centerX, centerY-4, fmt.Sprintf(">>  Press %s to fly  <<", flapKey(i, c.game.Mode())))
		}
	case loop.StatePaused:
		c.writeCentered(centerX, centerY-4, "PAUSED")
		c.writeCentered(centerX, centerY-2, "Press P to resume")
	case loop.StateLevelComplete:
		c.writeCentered(centerX, centerY-4, "LEVEL COMPLETE")
		if blink {
			c.writeCentered(centerX, centerY-2, ">>  Press ENTER for the next level  <<")
		}
	case loop.StateGameOver, loop.StateVictory:
		c.drawEndScreen(centerX, centerY, p)
	}
}

func flapKey(player int, mode loop.Mode) string {
	if player == 1 {
		return "UP"
	}
	if mode == loop.ModeChallenge {
		return "W"
	}
	return "SPACE"
}

// drawEndScreen draws the game over or victory banner for one viewport.
func (c *Client) drawEndScreen(centerX, centerY int, p loop.Player) {
	var titleArt []string
	if p.State == loop.StateVictory {
		titleArt = []string{
			` __   _____ ___ _____ ___  _____   __`,
			` \ \ / /_ _/ __|_   _/ _ \| _ \ \ / /`,
			`  \ V / | | (__  | || (_) |   /\ V / `,
			`   \_/ |___\___| |_| \___/|_|_\ |_|  `,
		}
	} else {
		titleArt = []string{
			`   ___   _   __  __ ___    _____   _____ ___  `,
			`  / __| /_\ |  \/  | __|  / _ \ \ / / __| _ \ `,
			` | (_ |/ _ \| |\/| | _|  | (_) \ V /| _||   / `,
			`  \___/_/ \_\_|  |_|___|  \___/ \_/ |___|_|_\ `,
		}
	}

	titleStartY := centerY - 6
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}

	c.writeCentered(centerX, titleStartY+len(titleArt)+1, fmt.Sprintf("Score: %d", p.Score))
	if c.state.highScore {
		c.chunkWriter.WriteColorAt(centerX-7, titleStartY+len(titleArt)+2, draw.ColorBrightYellow, "NEW HIGH SCORE")
	}
	if c.game.Over() && time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, titleStartY+len(titleArt)+4, ">>  ENTER to play again, ESC for title  <<")
	}
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-2, "INACTIVITY WARNING")
	c.writeCentered(centerX, centerY, fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	))
	c.writeCentered(centerX, centerY+2, "Press any key to continue")
}

// drawStartScreen draws the title screen over the ghost run.
func (c *Client) drawStartScreen(centerX, centerY int) {
	titleArt := []string{
		`  _   _ ___ ___    ___ _      _   ___ `,
		` | | | | __/ _ \  | __| |    /_\ | _ \`,
		` | |_| | _| (_) | | _|| |__ / _ \|  _/`,
		`  \___/|_| \___/  |_| |____/_/ \_\_|  `,
	}

	titleStartY := centerY - 9
	for i, line := range titleArt {
		c.writeCentered(centerX, titleStartY+i, line)
	}
	c.writeCentered(centerX, titleStartY+len(titleArt)+1, "~ Dodge the pipes, grab the coins ~")

	controlsY := titleStartY + len(titleArt) + 3
	controlLines := []string{
		"1 / SPACE  . .  Single player",
		"2  . . . . . . . .  Challenge",
		"SPACE / W  . . .  Player 1 fly",
		"UP / I . . . . .  Player 2 fly",
		"P  . . . . . . . . . . . Pause",
		"Q  . . . . . . . . . . .  Quit",
	}
	for i, line := range controlLines {
		c.writeCentered(centerX, controlsY+i, line)
	}

	row := controlsY + len(controlLines) + 1
	if time.Now().UnixMilli()/600%2 == 0 {
		c.writeCentered(centerX, row, ">>  Press 1 or 2 to Start  <<")
	}

	hub := c.server.GetSnapshot()
	row += 2
	c.writeCentered(centerX, row, fmt.Sprintf("Players online: %d", hub.Players))
	if len(hub.TopScores) > 0 {
		row += 2
		c.writeCentered(centerX, row, "High scores")
		for i, e := range hub.TopScores {
			line := fmt.Sprintf("%d. %-18s %6d  L%d", i+1, e.Username, e.Score, e.Level)
			c.writeCentered(centerX, row+1+i, line)
		}
	}
	if c.game.Ghost().Active() {
		c.writeCentered(centerX, titleStartY-2, strings.ToUpper("replaying your last run"))
	}
}

// drawShutdownScreen draws the server shutdown notification screen.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	c.writeCentered(centerX, centerY-3, "SERVER SHUTTING DOWN")
	c.writeCentered(centerX, centerY-1, "The server is restarting for maintenance.")
	c.writeCentered(centerX, centerY, "Please reconnect in a moment.")
	remaining := int(c.state.shutdownTimer) + 1
	c.writeCentered(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining))
	c.writeCentered(centerX, centerY+4, "Press Q to disconnect now")
}
