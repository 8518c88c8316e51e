package cli

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe/internal/logging"
	"github.com/aretw0/probe/internal/testutils"
	httpadapter "github.com/aretw0/probe/pkg/adapters/http"
)

func TestServeHandler(t *testing.T) {
	site := testutils.NewSite(t)
	opts := RunOptions{Config: []string{"base=" + site.URL}, Sink: SinkNone, Stderr: &bytes.Buffer{}}
	opts.defaults()
	env, err := createEngine(opts, logging.NewNop())
	require.NoError(t, err)
	defer env.Close()

	srv := httptest.NewServer(newServeHandler(env, httpadapter.NewStreamManager()))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/runs?format=text", "application/yaml", strings.NewReader(passingScenario))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "PASS about page")

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `probe_runs_total{outcome="passed"} 1`)
}
