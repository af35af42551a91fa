package web

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/metrics"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 512
	sendBuffer     = 64
)

// session is one browser connection playing one Snake game.
//
// The read pump runs on the HTTP handler goroutine and turns messages into
// Driver commands. The Driver reports states on its own goroutine; report
// queues frames for the write pump, which is the only writer on conn.
// Either pump exiting stops frame delivery: queue never waits on a writer
// that is gone or a reader that has left.
type session struct {
	conn     *websocket.Conn
	send     chan []byte
	quit     chan struct{} // closed when the read pump exits
	written  chan struct{} // closed when the write pump exits
	driver   *snake.Driver
	gridSize int

	store   *storage.Store
	metrics *metrics.Metrics
	logger  *log.Logger

	// Touched only by the driver goroutine once the driver is running.
	best   int
	prev   snake.State
	passed bool // best frame already sent for this game
}

func newSession(conn *websocket.Conn, gridSize int, store *storage.Store, m *metrics.Metrics, logger *log.Logger) *session {
	s := &session{
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		quit:     make(chan struct{}),
		written:  make(chan struct{}),
		gridSize: gridSize,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
	if store != nil {
		best, err := store.HighScore(snake.GameID)
		if err != nil {
			logger.Warn("could not load high score", "error", err)
		}
		s.best = best
	}
	return s
}

// report is the Driver's state callback.
func (s *session) report(st snake.State) {
	if s.prev.Status != snake.StatusRunning && s.prev.Status != snake.StatusPaused && st.Status == snake.StatusRunning {
		s.metrics.GameStarted(snake.GameID)
	}
	if st.Consumed > s.prev.Consumed {
		s.metrics.ItemConsumed(snake.GameID)
	}

	s.queue(newStateFrame(st, s.gridSize, s.best))

	if st.Status == snake.StatusReady {
		s.passed = false
	} else if !s.passed && st.Score > s.best {
		s.passed = true
		s.queue(bestFrame{Type: frameBest, Score: st.Score, Previous: s.best})
	}

	if st.Status == snake.StatusTerminated && s.prev.Status != snake.StatusTerminated {
		s.finish(st)
	}
	s.prev = st
}

// finish records a terminal state and tells the browser how it went.
func (s *session) finish(st snake.State) {
	s.metrics.GameEnded(snake.GameID, string(st.Reason))
	s.logger.Info("game over", "score", st.Score, "reason", st.Reason, "length", len(st.Body))

	newBest := false
	if s.store != nil {
		var err error
		newBest, err = s.store.RecordResult(snake.GameID, st.Score)
		if err != nil {
			s.logger.Warn("could not record score", "error", err)
		}
	}
	if newBest {
		s.best = st.Score
	}

	s.queue(resultFrame{
		Type:    frameResult,
		Score:   st.Score,
		Reason:  string(st.Reason),
		Won:     st.Won(),
		NewBest: newBest,
	})
}

// queue hands a frame to the write pump. Frames queued after the client
// went away or the writer failed are dropped.
func (s *session) queue(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode frame", "error", err)
		return
	}
	select {
	case s.send <- data:
	case <-s.quit:
	case <-s.written:
	}
}

// handle applies one client message.
func (s *session) handle(raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.queue(errorFrame{Type: frameError, Error: "malformed message"})
		return
	}

	switch msg.Type {
	case msgStart:
		s.driver.Start()
	case msgPause:
		s.driver.Pause()
	case msgResume:
		s.driver.Resume()
	case msgReset:
		s.driver.Reset()
	case msgDirection:
		// Unknown directions are ignored like any other invalid input.
		if dir, ok := snake.ParseDirection(msg.Direction); ok {
			s.driver.SetDirection(dir)
		}
	default:
		s.queue(errorFrame{Type: frameError, Error: "unknown message type " + msg.Type})
	}
}

// readPump blocks until the connection fails or the client leaves, then
// stops the game. No state is reported after it returns.
func (s *session) readPump() {
	defer func() {
		close(s.quit)
		s.driver.Close()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("read error", "error", err)
			}
			return
		}
		s.handle(raw)
	}
}

// writePump is the single writer on the connection. Closing conn on the
// way out also fails the read pump's pending read, which ends the session.
func (s *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		close(s.written)
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.quit:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
