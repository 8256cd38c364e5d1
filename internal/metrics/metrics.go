// Package metrics exposes the run as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/mazerunner/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	moves       *prometheus.CounterVec
	votes       *prometheus.CounterVec
	roomVisits  *prometheus.CounterVec
	failures    *prometheus.CounterVec
	currentMove prometheus.Gauge
	currentRoom prometheus.Gauge
	remaining   *prometheus.GaugeVec
	completed   prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		moves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mazerunner_moves_total",
			Help: "Total number of moves, by exit taken",
		}, []string{"maze", "exit"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mazerunner_votes_total",
			Help: "Total number of counted votes",
		}, []string{"maze"}),
		roomVisits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mazerunner_room_visits_total",
			Help: "Total number of room arrivals",
		}, []string{"maze", "room"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mazerunner_transient_failures_total",
			Help: "Total number of failed external calls",
		}, []string{"op"}),
		currentMove: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazerunner_current_move",
			Help: "Move counter of the active run",
		}),
		currentRoom: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazerunner_current_room",
			Help: "Room ID of the active run",
		}),
		remaining: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "mazerunner_rate_limit_remaining",
			Help: "Remaining requests reported by the feed source",
		}, []string{"resource"}),
		completed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mazerunner_runs_completed_total",
			Help: "Total number of runs that reached the end room",
		}),
	}
	m.registry.MustRegister(
		m.moves, m.votes, m.roomVisits, m.failures,
		m.currentMove, m.currentRoom, m.remaining, m.completed,
	)
	return m
}

// Registry exposes the registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks records the run lifecycle for the given maze.
func (m *Metrics) Hooks(maze string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnArrive: func(ctx context.Context, e *domain.RoomEvent) {
			m.roomVisits.WithLabelValues(maze, strconv.Itoa(e.RoomID)).Inc()
			m.currentRoom.Set(float64(e.RoomID))
			m.currentMove.Set(float64(e.Move))
		},
		OnTally: func(ctx context.Context, e *domain.TallyEvent) {
			m.votes.WithLabelValues(maze).Add(float64(e.Applied))
		},
		OnMove: func(ctx context.Context, e *domain.MoveEvent) {
			m.moves.WithLabelValues(maze, e.Exit).Inc()
			m.currentMove.Set(float64(e.Move))
			m.currentRoom.Set(float64(e.ToRoomID))
		},
		OnComplete: func(ctx context.Context, e *domain.RoomEvent) {
			m.roomVisits.WithLabelValues(maze, strconv.Itoa(e.RoomID)).Inc()
			m.completed.Inc()
		},
		OnTransientError: func(ctx context.Context, e *domain.ErrorEvent) {
			m.failures.WithLabelValues(e.Op).Inc()
		},
		OnRateLimit: func(ctx context.Context, e *domain.RateLimitEvent) {
			m.remaining.WithLabelValues(e.Resource).Set(float64(e.Remaining))
		},
	}
}
