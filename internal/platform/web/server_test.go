package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/neon-arcade/internal/config"
	"github.com/vovakirdan/neon-arcade/internal/games/snake"
	"github.com/vovakirdan/neon-arcade/internal/logging"
	"github.com/vovakirdan/neon-arcade/internal/metrics"
	"github.com/vovakirdan/neon-arcade/internal/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// crashRules put the head on the right edge facing right, so the first tick
// ends the game.
func crashRules(config.DifficultyPreset) (snake.Rules, error) {
	return snake.Rules{
		GridSize:          3,
		Origin:            snake.Cell{X: 2, Y: 1},
		InitialDirection:  snake.DirRight,
		InitialIntervalMs: 5,
		MinIntervalMs:     1,
		Reward:            10,
	}, nil
}

type testEnv struct {
	srv     *Server
	ts      *httptest.Server
	store   *storage.Store
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, rules RulesFunc) *testEnv {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m := metrics.New()
	srv := New(Config{
		Store:   store,
		Logger:  logging.NewWriter(io.Discard, log.DebugLevel, "test"),
		Metrics: m,
		Rules:   rules,
	})
	ts := httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		ts.Close()
		store.Close()
	})
	return &testEnv{srv: srv, ts: ts, store: store, metrics: m}
}

func (e *testEnv) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(e.ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, crashRules)

	code, body := env.get(t, "/healthz")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestListGames(t *testing.T) {
	env := newTestEnv(t, crashRules)
	if _, err := env.store.SaveScore(snake.GameID, 40); err != nil {
		t.Fatalf("SaveScore: %v", err)
	}

	code, body := env.get(t, "/api/games")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}

	var resp struct {
		Games []gameJSON `json:"games"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, g := range resp.Games {
		if g.ID == snake.GameID {
			if g.Best != 40 {
				t.Errorf("snake best = %d, want 40", g.Best)
			}
			return
		}
	}
	t.Errorf("snake missing from %s", body)
}

func TestTopScores(t *testing.T) {
	env := newTestEnv(t, crashRules)
	for _, s := range []int{10, 30, 20} {
		if _, err := env.store.SaveScore(snake.GameID, s); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}

	code, body := env.get(t, "/api/scores/snake?limit=2")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var resp struct {
		Game   string      `json:"game"`
		Scores []scoreJSON `json:"scores"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Scores) != 2 || resp.Scores[0].Score != 30 || resp.Scores[1].Score != 20 {
		t.Errorf("scores = %+v, want [30 20]", resp.Scores)
	}
	if resp.Scores[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", resp.Scores[0].Rank)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/scores/tetris", http.StatusNotFound},
		{"/api/scores/snake?limit=0", http.StatusBadRequest},
		{"/api/scores/snake?limit=abc", http.StatusBadRequest},
		{"/api/scores/snake?limit=1000", http.StatusBadRequest},
	}
	for _, tt := range tests {
		if code, _ := env.get(t, tt.path); code != tt.want {
			t.Errorf("GET %s = %d, want %d", tt.path, code, tt.want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, crashRules)
	env.metrics.GameStarted(snake.GameID)

	code, body := env.get(t, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(body, `arcade_games_started_total{game="snake"} 1`) {
		t.Errorf("metrics output:\n%s", body)
	}
}

// frame is the union of all outbound frame fields the tests look at.
type frame struct {
	Type     string     `json:"type"`
	Status   string     `json:"status"`
	Reason   string     `json:"reason"`
	GridSize int        `json:"grid_size"`
	Body     []cellJSON `json:"body"`
	Score    int        `json:"score"`
	NewBest  bool       `json:"new_best"`
	Error    string     `json:"error"`
}

func dial(t *testing.T, env *testEnv, query string) *websocket.Conn {
	t.Helper()
	url := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws/snake" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return f
}

func send(t *testing.T, conn *websocket.Conn, msg clientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWebSocketGameLifecycle(t *testing.T) {
	env := newTestEnv(t, crashRules)
	conn := dial(t, env, "")

	f := readFrame(t, conn)
	if f.Type != frameState || f.Status != string(snake.StatusReady) || f.GridSize != 3 {
		t.Fatalf("first frame = %+v, want ready state on a 3x3 grid", f)
	}
	if len(f.Body) != 1 || f.Body[0] != (cellJSON{X: 2, Y: 1}) {
		t.Errorf("body = %+v", f.Body)
	}

	send(t, conn, clientMessage{Type: msgStart})
	if f = readFrame(t, conn); f.Status != string(snake.StatusRunning) {
		t.Fatalf("after start = %+v", f)
	}

	f = readFrame(t, conn)
	if f.Status != string(snake.StatusTerminated) || f.Reason != string(snake.ReasonBoundaryCollision) {
		t.Fatalf("after tick = %+v, want boundary collision", f)
	}
	f = readFrame(t, conn)
	if f.Type != frameResult || f.Score != 0 || f.NewBest {
		t.Errorf("result = %+v", f)
	}

	send(t, conn, clientMessage{Type: msgReset})
	if f = readFrame(t, conn); f.Status != string(snake.StatusReady) {
		t.Errorf("after reset = %+v", f)
	}
}

func TestWebSocketPause(t *testing.T) {
	slow := func(config.DifficultyPreset) (snake.Rules, error) {
		r := snake.DefaultRules()
		r.InitialIntervalMs = 10_000
		return r, nil
	}
	env := newTestEnv(t, slow)
	conn := dial(t, env, "?difficulty=easy")
	readFrame(t, conn)

	send(t, conn, clientMessage{Type: msgStart})
	readFrame(t, conn)
	send(t, conn, clientMessage{Type: msgDirection, Direction: "sideways"})
	send(t, conn, clientMessage{Type: msgPause})
	if f := readFrame(t, conn); f.Status != string(snake.StatusPaused) {
		t.Fatalf("after pause = %+v", f)
	}
	send(t, conn, clientMessage{Type: msgResume})
	if f := readFrame(t, conn); f.Status != string(snake.StatusRunning) {
		t.Fatalf("after resume = %+v", f)
	}
}

func TestWebSocketRejectsBadMessages(t *testing.T) {
	env := newTestEnv(t, crashRules)
	conn := dial(t, env, "")
	readFrame(t, conn)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if f := readFrame(t, conn); f.Type != frameError {
		t.Errorf("malformed message answered with %+v", f)
	}

	send(t, conn, clientMessage{Type: "jump"})
	if f := readFrame(t, conn); f.Type != frameError || !strings.Contains(f.Error, "jump") {
		t.Errorf("unknown type answered with %+v", f)
	}
}

func TestWebSocketUnknownDifficulty(t *testing.T) {
	env := newTestEnv(t, crashRules)
	url := strings.Replace(env.ts.URL, "http", "ws", 1) + "/ws/snake?difficulty=insane"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded for an unknown difficulty")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("response = %v, want 400", resp)
	}
}

func TestWebSocketDisconnectEndsSession(t *testing.T) {
	env := newTestEnv(t, crashRules)
	conn := dial(t, env, "")
	readFrame(t, conn)

	if n := env.srv.sessionCount(); n != 1 {
		t.Fatalf("sessions = %d, want 1", n)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.srv.sessionCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("session still open after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, body := env.get(t, "/metrics")
	if !strings.Contains(body, `arcade_active_sessions{frontend="web"} 0`) {
		t.Errorf("active sessions gauge not back to 0:\n%s", body)
	}
}
