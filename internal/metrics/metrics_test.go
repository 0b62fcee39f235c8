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

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(filesAnalyzed.WithLabelValues("fatal"))
	File("fatal", 3*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(filesAnalyzed.WithLabelValues("fatal")))

	errs := testutil.ToFloat64(diagnosticsReported.WithLabelValues("error"))
	Diagnostics(2, 1, 4)
	assert.Equal(t, errs+2, testutil.ToFloat64(diagnosticsReported.WithLabelValues("error")))

	RuleFault("Test.Rule", 1)
	assert.Equal(t, float64(1), testutil.ToFloat64(ruleFaults.WithLabelValues("Test.Rule")))

	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	CacheLookup(true)
	assert.Equal(t, hits+1, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
}

func TestWriteFile(t *testing.T) {
	File("ok", time.Millisecond)
	path := filepath.Join(t.TempDir(), "tokensniff.prom")
	require.NoError(t, WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tokensniff_files_total")
	assert.Contains(t, string(data), "tokensniff_file_duration_seconds_bucket")
}
