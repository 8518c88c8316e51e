package probe_test

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps++
	c.now = c.now.Add(d)
	return nil
}

type fakeElement struct {
	text      string
	attrs     map[string]string
	styles    map[string]string
	hidden    bool
	disabled  bool
	selected  bool
	clicks    int
	typed     string
	failClick error
}

func (e *fakeElement) Click(context.Context) error {
	if e.failClick != nil {
		return e.failClick
	}
	e.clicks++
	e.selected = !e.selected
	return nil
}

func (e *fakeElement) SendKeys(_ context.Context, text string) error {
	e.typed += text
	return nil
}

func (e *fakeElement) Clear(context.Context) error {
	e.typed = ""
	return nil
}

func (e *fakeElement) Text(context.Context) (string, error) { return e.text, nil }

func (e *fakeElement) Attribute(_ context.Context, name string) (string, error) {
	return e.attrs[name], nil
}

func (e *fakeElement) Style(_ context.Context, property string) (string, error) {
	return e.styles[property], nil
}

func (e *fakeElement) Displayed(context.Context) (bool, error) { return !e.hidden, nil }
func (e *fakeElement) Enabled(context.Context) (bool, error)   { return !e.disabled, nil }
func (e *fakeElement) Selected(context.Context) (bool, error)  { return e.selected, nil }

type fakeDriver struct {
	name     string
	url      string
	elements map[string][]*fakeElement
	navErr   error
	quits    int
	visits   []string
}

func newFakeDriver(name string) *fakeDriver {
	return &fakeDriver{name: name, elements: map[string][]*fakeElement{}}
}

func (d *fakeDriver) Navigate(_ context.Context, url string) error {
	if d.navErr != nil {
		return d.navErr
	}
	d.url = url
	d.visits = append(d.visits, url)
	return nil
}

func (d *fakeDriver) CurrentURL(context.Context) (string, error) { return d.url, nil }

func (d *fakeDriver) FindMatches(_ context.Context, query string) ([]domain.Element, error) {
	var out []domain.Element
	for _, el := range d.elements[query] {
		out = append(out, el)
	}
	return out, nil
}

func (d *fakeDriver) Quit() error {
	d.quits++
	return nil
}

// run invokes m against a fresh state.
func run[A any](m probe.Action[A]) (A, domain.RunState) {
	return m.Invoke(context.Background(), probe.NoEnv{}, domain.NewRunState(domain.Settings{}))
}

// runWith invokes m against a fresh state with the given settings.
func runWith[A any](settings domain.Settings, m probe.Action[A]) (A, domain.RunState) {
	return m.Invoke(context.Background(), probe.NoEnv{}, domain.NewRunState(settings))
}

type recorder struct {
	mu      sync.Mutex
	records []domain.LogRecord
}

func (r *recorder) Accept(rec domain.LogRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *recorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, string(rec.Kind)+":"+rec.Message)
	}
	return out
}
