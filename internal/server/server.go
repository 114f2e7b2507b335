package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"MetalBoard/internal/board"
	"MetalBoard/internal/display"
	"MetalBoard/internal/freshness"
)

// Config wires the server to the board state.
type Config struct {
	Addr    string
	Builder *board.Builder
	Surface *display.Surface
	Tracker *freshness.Tracker
}

// Router builds the gin engine serving the page and its JSON views.
func Router(cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		page, err := cfg.Builder.Page()
		if err != nil {
			log.Printf("[ERROR] render page: %v", err)
			c.String(http.StatusInternalServerError, display.Unavailable)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})

	api := r.Group("/api")
	{
		api.GET("/regions", func(c *gin.Context) {
			c.JSON(http.StatusOK, cfg.Surface.Snapshot())
		})
		api.GET("/board", func(c *gin.Context) {
			b := cfg.Builder.Last()
			if b == nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": display.Unavailable})
				return
			}
			c.JSON(http.StatusOK, b)
		})
		api.GET("/freshness", func(c *gin.Context) {
			c.JSON(http.StatusOK, cfg.Tracker.Status())
		})
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// New creates the HTTP server.
func New(cfg Config) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      Router(cfg),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}
