package scenario_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/internal/testutils"
	"github.com/aretw0/probe/pkg/adapters/htmldriver"
	"github.com/aretw0/probe/pkg/domain"
	"github.com/aretw0/probe/pkg/drivers"
	"github.com/aretw0/probe/pkg/scenario"
	"github.com/aretw0/probe/pkg/sink"
)

func newEngine(t *testing.T, base string, opts ...probe.Option) *probe.Engine {
	t.Helper()
	registry := drivers.NewRegistry()
	registry.Register("html", htmldriver.Constructor())

	opts = append([]probe.Option{
		probe.WithDriverFactory(registry),
		probe.WithConfig(map[string]string{"base": base}),
	}, opts...)
	eng, err := probe.New(opts...)
	require.NoError(t, err)
	return eng
}

func TestLoadFile(t *testing.T) {
	sc, err := scenario.LoadFile("testdata/search.yaml")
	require.NoError(t, err)

	assert.Equal(t, "shop", sc.Name)
	assert.Equal(t, []string{"html"}, sc.Drivers)
	assert.Equal(t, 2*time.Second, sc.Settings.Wait)
	assert.Equal(t, 50*time.Millisecond, sc.Settings.Interval)
	assert.Equal(t, map[string]string{"query": "chair"}, sc.Config)
	require.Len(t, sc.Steps, 4)
	assert.Equal(t, "context", sc.Steps[2].Kind)
	assert.Equal(t, "search", sc.Steps[2].Label)
	assert.Len(t, sc.Steps[2].Children, 5)
	assert.Equal(t, 9, sc.StepCount())
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := scenario.LoadFile("testdata/nope.yaml")
	assert.ErrorContains(t, err, "failed to read scenario")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "empty document",
			doc:  "",
			want: []string{"scenario: document is empty"},
		},
		{
			name: "missing fields",
			doc:  "config: {a: b}",
			want: []string{"scenario: name is required", "scenario: drivers is required", "scenario: steps is required"},
		},
		{
			name: "unknown top level key",
			doc:  "name: x\ndrivers: [html]\nsteps: [{info: hi}]\ntimeout: 3s",
			want: []string{"timeout"},
		},
		{
			name: "unknown kind",
			doc:  "name: x\ndrivers: [html]\nsteps: [{hover: '#a'}]",
			want: []string{`steps[0]: unknown step kind "hover"`},
		},
		{
			name: "two kinds",
			doc:  "name: x\ndrivers: [html]\nsteps: [{click: '#a', nav: '/'}]",
			want: []string{`steps[0]: a step has exactly one kind, found "click" and "nav"`},
		},
		{
			name: "missing argument",
			doc:  "name: x\ndrivers: [html]\nsteps: [{expect_text: {text: hi}}]",
			want: []string{"steps[0].expect_text: selector is required"},
		},
		{
			name: "nested steps on a leaf",
			doc:  "name: x\ndrivers: [html]\nsteps: [{nav: '/', steps: [{info: hi}]}]",
			want: []string{"steps[0].nav: only context and collect take nested steps"},
		},
		{
			name: "context without label",
			doc:  "name: x\ndrivers: [html]\nsteps: [{context: '', steps: [{info: hi}]}]",
			want: []string{"steps[0].context: context label is required"},
		},
		{
			name: "errors in nested steps are all reported",
			doc:  "name: x\ndrivers: [html]\nsteps: [{collect: c, steps: [{click: ''}, {warn: ''}]}]",
			want: []string{"steps[0].collect.steps[0].click: selector is required", "steps[0].collect.steps[1].warn: message is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tt.doc))
			require.Error(t, err)
			for _, want := range tt.want {
				assert.ErrorContains(t, err, want)
			}
		})
	}
}

func TestParse_ValidationErrorType(t *testing.T) {
	_, err := scenario.Parse([]byte("name: x\ndrivers: [html]\nsteps: [{hover: '#a'}]"))

	var ve *scenario.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "steps[0]", ve.Path)
}

func TestScenario_Run(t *testing.T) {
	site := testutils.NewSite(t)
	rec := &sink.Recorder{}
	eng := newEngine(t, site.URL, probe.WithSink(rec))

	sc, err := scenario.LoadFile("testdata/search.yaml")
	require.NoError(t, err)

	report, err := probe.Run(context.Background(), eng, sc.Action())
	require.NoError(t, err)
	require.NoError(t, report.Err())

	assert.Equal(t, 2*time.Second, report.State.Settings.Wait)
	var messages []string
	for _, r := range rec.Records() {
		messages = append(messages, r.Message)
	}
	assert.Contains(t, messages, "search done")
}

func TestScenario_RunConfigOverridesDefaults(t *testing.T) {
	site := testutils.NewSite(t)
	eng := newEngine(t, site.URL, probe.WithConfig(map[string]string{"query": "lamp"}))

	sc, err := scenario.Parse([]byte(`
name: override
drivers: [html]
config: {query: chair}
steps:
  - nav: "{{base}}/search?q={{query}}"
  - expect_text: {selector: "#query", text: lamp}
`))
	require.NoError(t, err)

	report, err := probe.Run(context.Background(), eng, sc.Action())
	require.NoError(t, err)
	assert.NoError(t, report.Err())
}

func TestScenario_CollectReportsEveryFailure(t *testing.T) {
	site := testutils.NewSite(t)
	eng := newEngine(t, site.URL)

	sc, err := scenario.LoadFile("testdata/broken.yaml")
	require.NoError(t, err)

	report, err := probe.Run(context.Background(), eng, sc.Action())
	require.NoError(t, err)

	require.Len(t, report.State.Errors, 2)
	assert.Equal(t, `Element text doesn't match. "About" <> "Contact" (broken → html → checks)`, report.State.Errors[0].Error())
	assert.Equal(t, "Expected element to exist: #price (broken → html → checks)", report.State.Errors[1].Error())
	assert.Equal(t, []string{`Element text doesn't match. "About" <> "Contact"`, "Expected element to exist: #price"},
		domain.Messages(report.State.Errors))
}

func TestScenario_MissingConfigKey(t *testing.T) {
	eng := newEngine(t, "http://unused")

	sc, err := scenario.Parse([]byte("name: x\ndrivers: [html]\nsteps: [{nav: '{{host}}/'}]"))
	require.NoError(t, err)

	report, err := probe.Run(context.Background(), eng, sc.Action())
	require.NoError(t, err)
	assert.ErrorIs(t, report.Err(), domain.ErrConfigKeyNotFound)
}

func TestKinds(t *testing.T) {
	assert.Contains(t, scenario.Kinds(), "expect_text")
	assert.Contains(t, scenario.Kinds(), "collect")
}

func TestParse_TwoKindsMessageIsStable(t *testing.T) {
	doc := []byte("name: x\ndrivers: [html]\nsteps: [{warn: w, click: '#a', nav: '/', info: i}]")
	for range 20 {
		_, err := scenario.Parse(doc)
		require.Error(t, err)
		assert.Equal(t, `steps[0]: a step has exactly one kind, found "click" and "info"`, err.Error())
	}
}
