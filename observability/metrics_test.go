package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func mustLevel(t *testing.T, s string) zapcore.Level {
	t.Helper()
	level, err := zapcore.ParseLevel(s)
	require.NoError(t, err)
	return level
}

func TestCollectorsRegistered(t *testing.T) {
	for _, c := range []prometheus.Collector{RollsTotal, GamesWon, RollErrors, ActiveSessions} {
		err := prometheus.Register(c)
		var already prometheus.AlreadyRegisteredError
		assert.ErrorAs(t, err, &already)
	}
}

func TestRollsTotal(t *testing.T) {
	before := testutil.ToFloat64(RollsTotal.WithLabelValues("moved"))
	RollsTotal.WithLabelValues("moved").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RollsTotal.WithLabelValues("moved")))
}

func TestActiveSessions(t *testing.T) {
	ActiveSessions.Set(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(ActiveSessions))
	ActiveSessions.Set(0)
}
