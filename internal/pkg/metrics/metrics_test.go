package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.ObserveStep("wrap", OutcomeCompleted, time.Second)
	r.ObserveStep("borrow", OutcomeFailed, 2*time.Second)
	r.ObserveStep("repay", OutcomeSkipped, 0)
	r.TransactionSubmitted()
	r.TransactionSubmitted()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("wrap", OutcomeCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("borrow", OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.steps.WithLabelValues("repay", OutcomeSkipped)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.transactions))
	assert.Equal(t, 2, testutil.CollectAndCount(r.stepDuration))
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveStep("wrap", OutcomeCompleted, time.Second)
		r.TransactionSubmitted()
	})
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveStep("deposit", OutcomeCompleted, 500*time.Millisecond)

	path := filepath.Join(t.TempDir(), "borrower.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `aave_borrower_steps_total{outcome="completed",step="deposit"} 1`)
}
