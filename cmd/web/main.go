package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tomz197/ufoflap/internal/config"
	"github.com/tomz197/ufoflap/internal/level"
	"github.com/tomz197/ufoflap/internal/loop/server"
	"github.com/tomz197/ufoflap/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger("web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	levels, err := loadLevels()
	if err != nil {
		logger.Fatal("failed to load levels", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := server.NewServer(logger.WithPrefix("hub"))
	go hub.Run(ctx)

	schema, err := json.MarshalIndent(web.Schema(), "", "  ")
	if err != nil {
		logger.Fatal("failed to build schema", "err", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page := strings.Replace(htmlPage, "{{.SSHHost}}", sshHost, -1)
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/schema.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/schema+json")
		w.Write(schema)
	})
	mux.Handle("/ws", web.NewHandler(web.HandlerConfig{
		Logger: logger.WithPrefix("ws"),
		Hub:    hub,
		Levels: levels,
		Seed:   config.GetEnvInt("GAME_SEED", 0),
	}))

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{Addr: addr, Handler: mux}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("starting web server", "url", "http://"+addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down server")
	hub.Shutdown(5 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
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
