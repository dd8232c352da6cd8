package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RollsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snakes_rolls_total",
			Help: "Total resolved rolls by outcome kind",
		},
		[]string{"outcome"},
	)
	GamesWon = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snakes_games_won_total",
			Help: "Total finished games by the kind of the winning player",
		},
		[]string{"player_kind"},
	)
	RollErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snakes_roll_errors_total",
			Help: "Total rejected rolls by reason",
		},
		[]string{"reason"},
	)
	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "snakes_active_sessions",
			Help: "Number of sessions held in memory",
		},
	)
)

func init() {
	prometheus.MustRegister(RollsTotal)
	prometheus.MustRegister(GamesWon)
	prometheus.MustRegister(RollErrors)
	prometheus.MustRegister(ActiveSessions)
}
