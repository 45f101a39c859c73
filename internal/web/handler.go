package web

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/locus/locus/internal/config"
	"github.com/locus/locus/internal/database"
	"github.com/locus/locus/internal/models"
	"github.com/locus/locus/internal/tracker"
	"github.com/locus/locus/pkg/utils"
	"github.com/locus/locus/pkg/window"
)

const defaultEventsLimit = 100

type Handler struct {
	ctx           context.Context
	config        *config.Config
	session       *tracker.Session
	broadcaster   *Broadcaster
	repo          *database.Repository
	displayServer string
	startedAt     time.Time
}

// NewHandler creates the API handler. Loops started through the API run under
// ctx, not under the request context.
func NewHandler(ctx context.Context, cfg *config.Config, session *tracker.Session, broadcaster *Broadcaster, repo *database.Repository, displayServer string) *Handler {
	return &Handler{
		ctx:           ctx,
		config:        cfg,
		session:       session,
		broadcaster:   broadcaster,
		repo:          repo,
		displayServer: displayServer,
		startedAt:     time.Now(),
	}
}

func (h *Handler) SetupRoutes(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/stream/start", h.handleStart)
	api.POST("/stream/stop", h.handleStop)
	api.GET("/stream/events", h.handleStream)
	api.GET("/current", h.handleCurrent)
	api.GET("/events", h.handleEvents)
	api.DELETE("/events", h.handleClearEvents)
	api.GET("/errors", h.handleErrors)
	api.GET("/status", h.handleStatus)
	api.GET("/display-server", h.handleDisplayServer)

	r.GET("/health", h.handleHealth)
	r.GET("/", h.handleIndex)
}

func (h *Handler) handleStart(c *gin.Context) {
	h.session.Start(h.ctx)
	c.JSON(http.StatusOK, gin.H{"state": h.session.State()})
}

func (h *Handler) handleStop(c *gin.Context) {
	h.session.Stop()
	c.JSON(http.StatusOK, gin.H{"state": h.session.State()})
}

func (h *Handler) handleStream(c *gin.Context) {
	sub := h.broadcaster.Subscribe()
	defer sub.Close()

	if sub.HasCurrent {
		c.SSEvent(window.EventActiveWindowTitle, sub.Current)
		c.Writer.Flush()
	}

	c.Stream(func(w io.Writer) bool {
		select {
		case info, ok := <-sub.Updates:
			if !ok {
				return false
			}
			c.SSEvent(window.EventActiveWindowTitle, info)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func (h *Handler) handleCurrent(c *gin.Context) {
	if latest, ok := h.broadcaster.Latest(); ok {
		c.JSON(http.StatusOK, latest)
		return
	}

	change, err := h.repo.Latest()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if change == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no window observed yet"})
		return
	}

	c.JSON(http.StatusOK, change.Info())
}

func (h *Handler) handleEvents(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	changes, err := h.repo.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, changes)
}

func (h *Handler) handleClearEvents(c *gin.Context) {
	if err := h.repo.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func (h *Handler) handleErrors(c *gin.Context) {
	limit, ok := queryLimit(c)
	if !ok {
		return
	}

	logs, err := h.repo.RecentErrors(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, logs)
}

// queryLimit reads ?limit=N, writing a 400 response when it is not a
// positive integer
func queryLimit(c *gin.Context) (int, bool) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultEventsLimit, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return limit, true
}

func (h *Handler) handleStatus(c *gin.Context) {
	status := h.session.Status()

	entries, err := h.repo.Count()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := models.StreamStatus{
		State:          string(status.State),
		Running:        status.State == tracker.StateRunning,
		PollIntervalMS: status.PollInterval.Milliseconds(),
		DisplayServer:  h.displayServer,
		Published:      status.Published,
		Subscribers:    h.broadcaster.Subscribers(),
		JournalEntries: entries,
		Uptime:         utils.FormatRoundedUnit(int64(time.Since(h.startedAt).Seconds())),
	}
	if response.Running {
		response.StreamingFor = utils.FormatRoundedUnit(int64(time.Since(status.StartedAt).Seconds()))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) handleDisplayServer(c *gin.Context) {
	c.JSON(http.StatusOK, models.DisplayServerInfo{
		Supported:     h.displayServer != "" && h.displayServer != "unknown",
		DisplayServer: h.displayServer,
	})
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

func (h *Handler) handleIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
}
