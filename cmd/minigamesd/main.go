// minigamesd serves the minigame engine over HTTP for a renderer to drive.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/VeinDevTtv/qbx-minigames/internal/api"
	"github.com/VeinDevTtv/qbx-minigames/internal/engine"
	"github.com/VeinDevTtv/qbx-minigames/internal/session"
	"github.com/VeinDevTtv/qbx-minigames/internal/sse"
)

type serverConfig struct {
	Addr            string        `env:"MINIGAMES_ADDR" envDefault:":8420"`
	ReadTimeout     time.Duration `env:"MINIGAMES_READ_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"MINIGAMES_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

func main() {
	// A local .env is optional; real deployments set the environment.
	_ = godotenv.Load()

	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse env: %v", err)
	}

	events := sse.NewBroadcaster()
	manager := session.NewManager(engine.SystemClock(), api.NewEventSink(events))

	srv := &http.Server{
		Addr:        cfg.Addr,
		Handler:     api.NewServer(manager, events).Routes(),
		ReadTimeout: cfg.ReadTimeout,
	}

	go func() {
		log.Printf("minigamesd listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Print("shutting down")

	// Exit any live session first so its countdown goroutine is released.
	manager.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
