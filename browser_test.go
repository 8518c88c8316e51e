package probe_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe"
	"github.com/aretw0/probe/pkg/domain"
)

func withFake[A any](d *fakeDriver, m probe.Action[A]) (A, domain.RunState) {
	clock := newFakeClock()
	return runWith(domain.Settings{Clock: clock}, probe.WithDriver(d, m))
}

func TestBrowser_NoDriver(t *testing.T) {
	_, s := run(probe.Click[E]("#go"))
	require.Len(t, s.Errors, 1)
	assert.ErrorIs(t, s.Err(), domain.ErrNoDriver)
}

func TestBrowser_Interactions(t *testing.T) {
	d := newFakeDriver("fake")
	button := &fakeElement{text: "Go", attrs: map[string]string{"type": "submit"}, styles: map[string]string{"color": "red"}}
	input := &fakeElement{}
	d.elements["#go"] = []*fakeElement{button}
	d.elements["#name"] = []*fakeElement{input}

	m := probe.Then(probe.Nav[E]("http://site/form"),
		probe.Then(probe.SendKeys[E]("#name", "bob"),
			probe.Then(probe.Clear[E]("#name"),
				probe.Then(probe.SendKeys[E]("#name", "alice"),
					probe.Then(probe.HasText[E]("#go", "Go"),
						probe.Then(probe.HasAttribute[E]("#go", "type", "submit"),
							probe.Then(probe.Click[E]("#go"), probe.Style[E]("#go", "color"))))))))

	v, s := withFake(d, m)
	require.False(t, s.IsFaulted(), "%v", s.Err())
	assert.Equal(t, "red", v)
	assert.Equal(t, "alice", input.typed)
	assert.Equal(t, 1, button.clicks)
	assert.Equal(t, "http://site/form", d.url)
}

func TestBrowser_FindFailures(t *testing.T) {
	d := newFakeDriver("fake")

	_, s := withFake(d, probe.FindElement[E]("#nothing"))
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "Can't find any elements that match selector: #nothing", s.Errors[0].Error())
	assert.ErrorIs(t, s.Err(), domain.ErrNoElements)

	els, s := withFake(d, probe.FindElementsOrEmpty[E]("#nothing"))
	assert.Empty(t, els)
	assert.False(t, s.IsFaulted())

	exists, _ := withFake(d, probe.Exists[E]("#nothing"))
	assert.False(t, exists)
}

func TestBrowser_HasTextMismatch(t *testing.T) {
	d := newFakeDriver("fake")
	d.elements["h1"] = []*fakeElement{{text: "Welcome"}}

	_, s := withFake(d, probe.Context("home", probe.HasText[E]("h1", "Hello")))
	require.Len(t, s.Errors, 1)
	assert.Equal(t, `Element text doesn't match. "Welcome" <> "Hello" (home)`, s.Errors[0].Error())
}

func TestBrowser_ClickError(t *testing.T) {
	d := newFakeDriver("fake")
	cause := errors.New("detached")
	d.elements["#go"] = []*fakeElement{{failClick: cause}}

	_, s := withFake(d, probe.Click[E]("#go"))
	assert.Equal(t, "Failed to click: #go", s.Err().Error())
	assert.ErrorIs(t, s.Err(), cause)
}

func TestBrowser_Checkbox(t *testing.T) {
	d := newFakeDriver("fake")
	box := &fakeElement{}
	d.elements["#agree"] = []*fakeElement{box}

	m := probe.Then(probe.SetCheckbox[E]("#agree", true),
		probe.Then(probe.SetCheckbox[E]("#agree", true), probe.CheckboxChecked[E]("#agree")))
	checked, s := withFake(d, m)
	assert.False(t, s.IsFaulted())
	assert.True(t, checked)
	assert.Equal(t, 1, box.clicks)
}

func TestBrowser_WaitUntilElementExists(t *testing.T) {
	d := newFakeDriver("fake")

	_, s := withFake(d, probe.WaitUntilElementExists[E]("#late", 10*time.Millisecond, 50*time.Millisecond))
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "Element not found within timeout period: #late", s.Errors[0].Error())

	d.elements["#late"] = []*fakeElement{{text: "here"}}
	el, s := withFake(d, probe.WaitUntilElementExists[E]("#late", 10*time.Millisecond, 50*time.Millisecond))
	require.False(t, s.IsFaulted())
	assert.NotNil(t, el)
}

func TestBrowser_WaitUntilClickable(t *testing.T) {
	d := newFakeDriver("fake")
	d.elements["#submit"] = []*fakeElement{{disabled: true}}

	_, s := withFake(d, probe.WaitUntilClickable[E]("#submit", 100*time.Millisecond))
	require.Len(t, s.Errors, 1)
	assert.Equal(t, "Element not clickable within timeout period: #submit", s.Errors[0].Error())
	assert.Equal(t, "Waiting until clickable: #submit", s.Log.Children[0].Message)

	d.elements["#submit"][0].disabled = false
	el, s := withFake(d, probe.WaitUntilClickable[E]("#submit", 100*time.Millisecond))
	assert.False(t, s.IsFaulted())
	assert.NotNil(t, el)
}

func TestBrowser_VisibilityAndState(t *testing.T) {
	d := newFakeDriver("fake")
	d.elements["#hidden"] = []*fakeElement{{hidden: true, disabled: true}}

	shown, _ := withFake(d, probe.Displayed[E]("#hidden"))
	enabled, _ := withFake(d, probe.Enabled[E]("#hidden"))
	assert.False(t, shown)
	assert.False(t, enabled)
}
