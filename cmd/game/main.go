package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/tomz197/ufoflap/internal/audio"
	"github.com/tomz197/ufoflap/internal/config"
	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop"
	"github.com/tomz197/ufoflap/internal/loop/client"
	"github.com/tomz197/ufoflap/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger("game")

	levels, err := loadLevels()
	if err != nil {
		logger.Fatal("failed to load levels", "err", err)
	}

	var sink loop.AudioSink = audio.Silent{}
	if config.GetEnvBool("AUDIO", true) {
		spk := audio.NewSpeaker()
		if err := spk.Init(); err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			defer spk.Close()
			sink = spk
		}
	}

	// A local hub keeps the leaderboard for this process.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := server.NewServer(nil)
	go hub.Run(ctx)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	c := client.NewClient(hub, reader, os.Stdout, client.ClientOptions{
		Username: config.GetEnv("USER", "player"),
		Levels:   levels,
		Seed:     config.GetEnvInt("GAME_SEED", 0),
		Audio:    sink,
	})
	if err := c.Run(); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

// loadLevels reads LEVELS_FILE when set and the built-in catalog otherwise.
func loadLevels() (*level.Catalog, error) {
	path := config.GetEnv("LEVELS_FILE", "")
	if path == "" {
		return level.Default(), nil
	}
	return level.LoadFile(path)
}
