package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/spatialfill/internal/summary"
)

func processed() *summary.ProcessingSummary {
	s := summary.NewProcessingSummary("run-1")
	s.State = summary.StateCompleted
	s.Scanned = 4
	s.Duration = 2 * time.Second
	s.Record(summary.OpLevel, 1, "Level Name", summary.Success())
	s.Record(summary.OpLevel, 2, "Level Name", summary.Success())
	s.Record(summary.OpLevel, 3, "Level Name", summary.Skipped(summary.SkipValueExists))
	s.Record(summary.OpRoomName, 4, "Room Name", summary.Failed(summary.FailureCoercion, errors.New("bad")))
	s.Skip(summary.SkipAboveBand, 5)
	s.Detect("PointInRoom")
	s.FailuresResolved = 3
	return s
}

func TestObserveProcessing(t *testing.T) {
	r := New()
	r.ObserveProcessing("fill", processed())
	r.ObserveProcessing("fill", nil)

	assert.Equal(t, 1.0, promtest.ToFloat64(r.runsTotal.WithLabelValues("fill", "Completed")))
	assert.Equal(t, 4.0, promtest.ToFloat64(r.scannedTotal.WithLabelValues("fill")))
	assert.Equal(t, 2.0, promtest.ToFloat64(r.writesTotal.WithLabelValues("fill", "level")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.skipsTotal.WithLabelValues("fill", "ValueExists")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.skipsTotal.WithLabelValues("fill", "AboveBand")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.failuresTotal.WithLabelValues("fill", "CoercionFailed")))
	assert.Equal(t, 3.0, promtest.ToFloat64(r.resolvedTotal.WithLabelValues("fill")))
	assert.Equal(t, 1.0, promtest.ToFloat64(r.detectionsTotal.WithLabelValues("fill", "PointInRoom")))
	assert.Equal(t, 1, promtest.CollectAndCount(r.runDuration))
}

func TestObservePreview(t *testing.T) {
	r := New()
	p := summary.NewPreviewSummary("run-2")
	p.Estimate(summary.OpGroupPropagate, 12)
	r.ObservePreview("groups", p)
	r.ObservePreview("groups", nil)

	assert.Equal(t, 1.0, promtest.ToFloat64(r.previewsTotal.WithLabelValues("groups")))
	assert.Equal(t, 12.0, promtest.ToFloat64(r.estimatedWrites.WithLabelValues("groups", "group_propagate")))
	assert.Equal(t, 0.0, promtest.ToFloat64(r.previewWarnings.WithLabelValues("groups")))
}

func TestRecordersDoNotShareState(t *testing.T) {
	a, b := New(), New()
	a.ObserveProcessing("fill", processed())
	assert.Equal(t, 0.0, promtest.ToFloat64(b.scannedTotal.WithLabelValues("fill")))
	assert.NotSame(t, a.Registry(), b.Registry())
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveProcessing("fill", processed())
	path := filepath.Join(t.TempDir(), "sfill.prom")

	require.NoError(t, r.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.True(t, strings.Contains(out, `sfill_writes_total{mode="fill",operation="level"} 2`), out)
	assert.Contains(t, out, "# HELP sfill_runs_total")
}
