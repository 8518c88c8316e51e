package observability_test

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/observability"
	"github.com/aretw0/probe/pkg/sink"
)

type E = probe.NoEnv

func TestMetrics(t *testing.T) {
	m := observability.NewMetrics("probe")
	rec := &sink.Recorder{}

	eng, err := probe.New(
		probe.WithLifecycleHooks(m.Hooks()),
		probe.WithSink(m.Sink(rec)),
	)
	require.NoError(t, err)
	ctx := context.Background()

	// 1. One passing and one failing run
	_, err = probe.Run(ctx, eng, probe.Then(probe.Info[E]("ok"), probe.Pure[E](1)))
	require.NoError(t, err)
	_, err = probe.Run(ctx, eng, probe.Context("checkout", probe.Collect(
		probe.Fail[E, int]("a"),
		probe.Fail[E, int]("b"),
	)))
	require.NoError(t, err)

	// 2. Records were forwarded
	assert.Len(t, rec.Records(), 4)

	// 3. Collectors
	expected := `
# HELP probe_runs_total Total number of finished runs by outcome.
# TYPE probe_runs_total counter
probe_runs_total{outcome="failed"} 1
probe_runs_total{outcome="passed"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "probe_runs_total"))

	expectedRecords := `
# HELP probe_log_records_total Total number of log records emitted by kind.
# TYPE probe_log_records_total counter
probe_log_records_total{kind="context"} 1
probe_log_records_total{kind="error"} 2
probe_log_records_total{kind="info"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expectedRecords), "probe_log_records_total"))
	count, err := testutil.GatherAndCount(m.Registry(), "probe_run_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// 4. Exposition
	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "probe_failures_total 2")
}
