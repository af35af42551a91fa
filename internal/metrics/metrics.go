// Package metrics exposes Prometheus collectors for game sessions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Front ends that host sessions.
const (
	FrontendTerminal = "terminal"
	FrontendSSH      = "ssh"
	FrontendWeb      = "web"
)

// Metrics groups the arcade collectors on a private registry, so tests and
// multiple servers in one process never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	GamesStarted   *prometheus.CounterVec
	GamesEnded     *prometheus.CounterVec
	ItemsConsumed  *prometheus.CounterVec
	ActiveSessions *prometheus.GaugeVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		GamesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arcade_games_started_total",
				Help: "Games moved from ready to running",
			},
			[]string{"game"},
		),
		GamesEnded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arcade_games_ended_total",
				Help: "Games that reached a terminal state, by reason",
			},
			[]string{"game", "reason"},
		),
		ItemsConsumed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arcade_items_consumed_total",
				Help: "Items eaten across all games",
			},
			[]string{"game"},
		),
		ActiveSessions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arcade_active_sessions",
				Help: "Open play sessions per front end",
			},
			[]string{"frontend"},
		),
	}

	m.registry.MustRegister(m.GamesStarted, m.GamesEnded, m.ItemsConsumed, m.ActiveSessions)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GameStarted counts a start.
func (m *Metrics) GameStarted(game string) {
	if m == nil {
		return
	}
	m.GamesStarted.WithLabelValues(game).Inc()
}

// GameEnded counts a terminal transition.
func (m *Metrics) GameEnded(game, reason string) {
	if m == nil {
		return
	}
	m.GamesEnded.WithLabelValues(game, reason).Inc()
}

// ItemConsumed counts one eaten item.
func (m *Metrics) ItemConsumed(game string) {
	if m == nil {
		return
	}
	m.ItemsConsumed.WithLabelValues(game).Inc()
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened(frontend string) {
	if m == nil {
		return
	}
	m.ActiveSessions.WithLabelValues(frontend).Inc()
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed(frontend string) {
	if m == nil {
		return
	}
	m.ActiveSessions.WithLabelValues(frontend).Dec()
}
