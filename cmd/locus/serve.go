package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/locus/locus/internal/config"
	"github.com/locus/locus/internal/daemon"
	"github.com/locus/locus/internal/database"
	"github.com/locus/locus/internal/tracker"
	"github.com/locus/locus/internal/web"
	"github.com/locus/locus/pkg/window"
)

func runServe(cfg *config.Config) error {
	dm := daemon.New(cfg.Daemon.PIDFile)
	running, pid, err := dm.IsRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon is already running (PID: %d)", pid)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	det, err := newDetector(ctx, cfg)
	if err != nil {
		// Keep serving so clients can ask /api/display-server why nothing streams
		log.Printf("Window detection unavailable: %v", err)
		det = window.NewChain("unknown")
	}
	defer det.Close()

	log.Printf("Window detector initialized: %s (%d strategies)", det.DisplayServer(), len(det.Strategies()))

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize journal: %w", err)
	}

	if err := dm.WritePID(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	defer dm.RemovePID()

	repo := database.NewRepository(db)
	journal := database.NewJournal(repo, cfg.Journal.MaxEntries, det.DisplayServer())
	broadcaster := web.NewBroadcaster()

	session := tracker.NewSession(det, tracker.MultiSink{broadcaster, journal}, cfg.Stream.PollInterval)
	session.SetErrorRecorder(journal)

	gin.SetMode(gin.ReleaseMode)
	handler := web.NewHandler(ctx, cfg, session, broadcaster, repo, det.DisplayServer())
	webServer := web.NewServer(cfg, handler)

	serverErr := make(chan error, 1)
	go func() {
		if err := webServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	log.Println("Starting locus daemon with web API...")
	log.Printf("Web API available at: %s", cfg.BaseURL())
	log.Printf("Configuration:\n%s", cfg.String())

	if cfg.Stream.Autostart {
		session.Start(ctx)
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Received shutdown signal")
	case runErr = <-serverErr:
		log.Printf("Web server error: %v", runErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	session.Stop()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down web server: %v", err)
	}
	stop()
	session.Wait()

	log.Println("Daemon stopped successfully")
	return runErr
}
