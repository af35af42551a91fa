// Package web serves the arcade over HTTP: a small JSON API, Prometheus
// metrics and a WebSocket endpoint that plays Snake in the browser.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/logging"
	"github.com/vovakirdan/neon-arcade/internal/metrics"
	"github.com/vovakirdan/neon-arcade/internal/registry"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
)

// RulesFunc resolves the rules for a requested difficulty.
type RulesFunc func(preset config.DifficultyPreset) (snake.Rules, error)

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Store persists results. Optional.
	Store *storage.Store

	// Logger defaults to stderr at info level.
	Logger *log.Logger

	// Metrics is served on /metrics when set.
	Metrics *metrics.Metrics

	// Rules defaults to snake.RulesForPreset.
	Rules RulesFunc

	// AllowedOrigin restricts WebSocket upgrades to one Origin. Empty allows any.
	AllowedOrigin string
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{Address: ":8080"}
}

// Server is the HTTP front end.
type Server struct {
	config   Config
	router   *gin.Engine
	http     *http.Server
	upgrader websocket.Upgrader
	logger   *log.Logger
	started  time.Time

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// New builds the server and its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.New(log.InfoLevel, "arcade-web")
	}
	if cfg.Rules == nil {
		cfg.Rules = snake.RulesForPreset
	}

	s := &Server{
		config:   cfg,
		logger:   cfg.Logger,
		started:  time.Now(),
		sessions: make(map[*session]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.AllowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == cfg.AllowedOrigin
		},
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(r)
	s.router = r

	s.http = &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/healthz", s.health)

	api := r.Group("/api")
	api.GET("/games", s.listGames)
	api.GET("/scores/:game", s.topScores)

	if s.config.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.config.Metrics.Handler()))
	}

	r.GET("/ws/snake", s.playSnake)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requestLogger logs each request at debug level; failures at warn.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Warn("request failed", fields...)
			return
		}
		s.logger.Debug("request", fields...)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"sessions":       s.sessionCount(),
	})
}

type gameJSON struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Best  int    `json:"best"`
}

func (s *Server) listGames(c *gin.Context) {
	games := registry.List()
	out := make([]gameJSON, 0, len(games))
	for _, g := range games {
		item := gameJSON{ID: g.ID, Title: g.Title}
		if s.config.Store != nil {
			best, err := s.config.Store.HighScore(g.ID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scores"})
				return
			}
			item.Best = best
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"games": out})
}

type scoreJSON struct {
	Rank      int       `json:"rank"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) topScores(c *gin.Context) {
	gameID := c.Param("game")
	if !registry.Exists(gameID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown game"})
		return
	}

	limit := defaultScoreLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxScoreLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("limit must be 1..%d", maxScoreLimit)})
			return
		}
		limit = n
	}

	out := []scoreJSON{}
	if s.config.Store != nil {
		entries, err := s.config.Store.TopScores(gameID, limit)
		if err != nil {
			s.logger.Warn("could not load scores", "game", gameID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scores"})
			return
		}
		for i, e := range entries {
			out = append(out, scoreJSON{Rank: i + 1, Score: e.Score, CreatedAt: e.CreatedAt})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"game":   gameID,
		"scores": out,
	})
}

// playSnake upgrades the request and runs one game until the client leaves.
func (s *Server) playSnake(c *gin.Context) {
	preset := config.DifficultyNormal
	if v := c.Query("difficulty"); v != "" {
		p, ok := config.ParsePreset(v)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
			return
		}
		preset = p
	}

	rules, err := s.config.Rules(preset)
	if err != nil {
		s.logger.Warn("could not load snake rules, using defaults", "error", err)
		rules = snake.DefaultRules()
	}
	engine, err := snake.NewEngine(rules, time.Now().UnixNano())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid game rules"})
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Debug("ws upgrade failed", "error", err)
		return
	}

	logger := s.logger.With("remote", c.ClientIP())
	sess := newSession(conn, rules.GridSize, s.config.Store, s.config.Metrics, logger)
	s.track(sess)
	defer s.untrack(sess)

	s.config.Metrics.SessionOpened(metrics.FrontendWeb)
	defer s.config.Metrics.SessionClosed(metrics.FrontendWeb)
	logger.Info("session started", "difficulty", preset)
	defer logger.Info("session ended")

	// The first frame shows the ready board before any command arrives.
	sess.queue(newStateFrame(engine.State(), rules.GridSize, sess.best))
	sess.driver = snake.NewDriver(c.Request.Context(), engine, sess.report, logger)

	go sess.writePump()
	sess.readPump()
}

func (s *Server) track(sess *session) {
	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(sess *session) {
	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting web server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("web: listen: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests and drops open game sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	// Hijacked WebSocket connections are not tracked by http.Server.
	s.mu.Lock()
	for sess := range s.sessions {
		_ = sess.conn.Close()
	}
	s.mu.Unlock()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}
