package runs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBeginAndListRuns(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Begin(`{"epochs":5}`)
	require.NoError(t, err)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", run.ID.String())

	all, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, run.ID, all[0].ID)
	assert.Equal(t, `{"epochs":5}`, all[0].Config)
}

func TestRecordAndFetchMetrics(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Begin("{}")
	require.NoError(t, err)

	for epoch := 1; epoch <= 3; epoch++ {
		require.NoError(t, s.Record(Metric{RunID: run.ID, Epoch: epoch, Split: "train", Loss: 1.0 / float64(epoch), Accuracy: 0.5 + 0.1*float64(epoch)}))
		require.NoError(t, s.Record(Metric{RunID: run.ID, Epoch: epoch, Split: "valid", Loss: 1.1 / float64(epoch), Accuracy: 0.5}))
	}

	metrics, err := s.Metrics(run.ID)
	require.NoError(t, err)
	require.Len(t, metrics, 6)

	assert.Equal(t, 1, metrics[0].Epoch)
	assert.Equal(t, "train", metrics[0].Split)
	assert.InDelta(t, 1.0, metrics[0].Loss, 1e-9)
	assert.Equal(t, 3, metrics[5].Epoch)
	assert.Equal(t, "valid", metrics[5].Split)
}

func TestDuplicateMetricRejected(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Begin("{}")
	require.NoError(t, err)

	m := Metric{RunID: run.ID, Epoch: 1, Split: "train", Loss: 0.9, Accuracy: 0.6}
	require.NoError(t, s.Record(m))
	assert.Error(t, s.Record(m))
}

func TestMetricsOfUnknownRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.Begin("{}")
	require.NoError(t, err)

	other, err := s.Begin("{}")
	require.NoError(t, err)
	require.NoError(t, s.Record(Metric{RunID: other.ID, Epoch: 1, Split: "train", Loss: 1, Accuracy: 0}))

	metrics, err := s.Metrics(run.ID)
	require.NoError(t, err)
	assert.Empty(t, metrics)
}
