package monitoring

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imaitland/llrt/internal/fs"
)

func TestObserveOp(t *testing.T) {
	m := NewMetrics()
	engine := fs.New(fs.WithObserver(m))
	ctx := context.Background()
	root := t.TempDir()

	_, err := engine.ReadDir(ctx, root, fs.ReadDirOptions{})
	require.NoError(t, err)
	_, err = engine.ReadFile(ctx, filepath.Join(root, "missing"))
	require.Error(t, err)
	_, err = engine.ReadFile(ctx, filepath.Join(root, "missing"))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpsTotal.WithLabelValues("readdir", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OpsTotal.WithLabelValues("readFile", "error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("readFile", "NotFound")))

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalOps)
	assert.Equal(t, int64(2), snap.TotalErrors)
	assert.Equal(t, int64(2), snap.Ops["readFile"])
	assert.Equal(t, int64(2), snap.Errors["NotFound"])
}

func TestScriptsAndInflight(t *testing.T) {
	m := NewMetrics()

	NewTimer(m).Stop("success")
	m.RecordScript("error", 10*time.Millisecond)
	m.IncInflight()
	m.IncInflight()
	m.DecInflight()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScriptsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScriptsTotal.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Inflight))

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.Inflight)
	assert.Equal(t, int64(1), snap.Scripts["success"])
	assert.GreaterOrEqual(t, snap.Uptime, 0.0)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	a.ObserveOp("stat", time.Millisecond, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.OpsTotal.WithLabelValues("stat", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.OpsTotal.WithLabelValues("stat", "success")))

	count, err := testutil.GatherAndCount(a.Registry(), "llrt_fs_ops_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSnapshotIsACopy(t *testing.T) {
	m := NewMetrics()
	m.ObserveOp("stat", time.Millisecond, nil)

	snap := m.Snapshot()
	snap.Ops["stat"] = 100

	assert.Equal(t, int64(1), m.Snapshot().Ops["stat"])
}
