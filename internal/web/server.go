package web

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/locus/locus/internal/config"
)

type Server struct {
	server *http.Server
	cancel context.CancelFunc
}

func NewServer(cfg *config.Config, handler *Handler) *Server {
	engine := NewEngine(handler)
	baseCtx, cancel := context.WithCancel(context.Background())

	httpServer := &http.Server{
		Addr:        cfg.Address(),
		Handler:     engine,
		ReadTimeout: 10 * time.Second,
		// No WriteTimeout: /api/stream/events stays open for as long as the client listens.
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	return &Server{
		server: httpServer,
		cancel: cancel,
	}
}

// NewEngine builds the gin router with request logging sent to the process log
func NewEngine(handler *Handler) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.LoggerWithWriter(log.Writer(), "/health"), gin.Recovery())
	handler.SetupRoutes(engine)
	return engine
}

func (s *Server) Start() error {
	log.Printf("Starting web server on http://%s", s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	// Ends open event streams so Shutdown does not wait on them
	s.cancel()
	return s.server.Shutdown(ctx)
}
