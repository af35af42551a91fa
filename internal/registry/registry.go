// Package registry lets games announce themselves to the platform.
// A game package calls Register from init(); front ends discover games
// through List and build fresh instances with Create.
package registry

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/vovakirdan/neon-arcade/internal/core"
)

// Game is what a front end drives. Implementations hold only game logic:
// the platform owns input mapping, the tick timer and terminal output.
type Game interface {
	// ID is the registry key and the score-table identifier (e.g. "snake").
	ID() string

	// Title is the display name.
	Title() string

	// Reset builds a fresh game in its ready state.
	// The RuntimeConfig provides screen dimensions and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Start, Pause and Resume move the game through its lifecycle.
	// They are no-ops when the transition does not apply.
	Start()
	Pause()
	Resume()

	// Input applies one action between ticks. Movement input is buffered
	// and takes effect on the next Step.
	Input(a core.Action)

	// Step advances the simulation by one tick.
	Step() core.StepResult

	// TickInterval is how long the platform waits before the next Step.
	// It may change after every Step.
	TickInterval() time.Duration

	// Render draws the current frame into dst.
	Render(dst *core.Screen)

	State() core.GameState
}

// BestScoreSetter is implemented by games that show the stored high score.
type BestScoreSetter interface {
	SetBest(best int)
}

// GameInfo describes a registered game without instantiating it.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a new instance of a game.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	mu      sync.RWMutex
	entries = make(map[string]entry)
)

// Register adds a game. It panics on an empty or duplicate ID, since both
// are programming errors caught at init time.
func Register(info GameInfo, f Factory) {
	if info.ID == "" || f == nil {
		panic("registry: Register needs an ID and a factory")
	}
	if info.Title == "" {
		info.Title = info.ID
	}

	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns all registered games sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	out := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.info)
	}
	slices.SortFunc(out, func(a, b GameInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Lookup returns the metadata for id.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create builds a new game by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}
