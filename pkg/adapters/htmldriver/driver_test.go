package htmldriver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/probe/internal/testutils"
	"github.com/aretw0/probe/pkg/adapters/htmldriver"
	"github.com/aretw0/probe/pkg/domain"
)

func first(t *testing.T, d *htmldriver.Driver, query string) domain.Element {
	t.Helper()
	els, err := d.FindMatches(context.Background(), query)
	require.NoError(t, err)
	require.NotEmpty(t, els, "no match for %s", query)
	return els[0]
}

func text(t *testing.T, d *htmldriver.Driver, query string) string {
	t.Helper()
	s, err := first(t, d, query).Text(context.Background())
	require.NoError(t, err)
	return s
}

func TestDriver_NavigateAndFind(t *testing.T) {
	site := testutils.NewSite(t)
	d := htmldriver.New()
	ctx := context.Background()

	// 1. Blank page
	u, err := d.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "about:blank", u)
	els, err := d.FindMatches(ctx, "h1")
	require.NoError(t, err)
	assert.Empty(t, els)
	assert.Error(t, d.Navigate(ctx, "/relative"), "relative url on a blank page")

	// 2. Load home
	require.NoError(t, d.Navigate(ctx, site.URL+"/"))
	assert.Equal(t, "Welcome to the shop", text(t, d, "h1"))

	// 3. Invalid selector is an error, not an empty match
	_, err = d.FindMatches(ctx, "h1[")
	assert.Error(t, err)

	// 4. Relative navigation and redirects
	require.NoError(t, d.Navigate(ctx, "/old"))
	u, err = d.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, site.URL+"/about", u)

	// 5. HTTP errors
	err = d.Navigate(ctx, "/missing")
	var status *htmldriver.StatusError
	require.ErrorAs(t, err, &status)
	assert.Equal(t, 404, status.Status)
}

func TestDriver_LinksAndForms(t *testing.T) {
	site := testutils.NewSite(t)
	d := htmldriver.New()
	ctx := context.Background()
	require.NoError(t, d.Navigate(ctx, site.URL))

	// 1. Follow link
	require.NoError(t, first(t, d, "#about").Click(ctx))
	assert.Equal(t, "About", text(t, d, "h1"))

	// 2. Fill and submit a GET form
	require.NoError(t, d.Navigate(ctx, "/"))
	q := first(t, d, "#q")
	require.NoError(t, q.SendKeys(ctx, "lamp"))
	require.NoError(t, q.Clear(ctx))
	require.NoError(t, q.SendKeys(ctx, "desk"))
	require.NoError(t, first(t, d, "#exact").Click(ctx))
	require.NoError(t, first(t, d, "#go").Click(ctx))

	assert.Equal(t, "desk", text(t, d, "#query"))
	assert.Equal(t, "abc", text(t, d, "#token"))
	assert.Equal(t, "on", text(t, d, "#exact"))
	assert.Equal(t, "name", text(t, d, "#sort"))

	// 3. POST form with textarea, pre-checked box and named submitter
	require.NoError(t, d.Navigate(ctx, "/login"))
	require.NoError(t, first(t, d, "#user").SendKeys(ctx, "ada"))
	require.NoError(t, first(t, d, "#note").SendKeys(ctx, " there"))
	require.NoError(t, first(t, d, "#submit").Click(ctx))

	assert.Equal(t, "Hello ada", text(t, d, "h1"))
	assert.Equal(t, "hi there", text(t, d, "#note"))
	assert.Equal(t, "yes", text(t, d, "#remember"))
	assert.Equal(t, "login", text(t, d, "#action"))
}

func TestElement_State(t *testing.T) {
	site := testutils.NewSite(t)
	d := htmldriver.New()
	ctx := context.Background()
	require.NoError(t, d.Navigate(ctx, site.URL))

	tests := []struct {
		query     string
		displayed bool
		enabled   bool
	}{
		{"h1", true, true},
		{"#banner", false, true},
		{"#secret", false, true},
		{`input[name="token"]`, false, true},
		{"#locked", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			el := first(t, d, tt.query)
			shown, err := el.Displayed(ctx)
			require.NoError(t, err)
			enabled, err := el.Enabled(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.displayed, shown)
			assert.Equal(t, tt.enabled, enabled)
		})
	}

	color, err := first(t, d, "#banner").Style(ctx, "color")
	require.NoError(t, err)
	assert.Equal(t, "red", color)

	href, err := first(t, d, "#about").Attribute(ctx, "href")
	require.NoError(t, err)
	assert.Equal(t, "/about", href)

	box := first(t, d, "#exact")
	checked, _ := box.Selected(ctx)
	assert.False(t, checked)
	require.NoError(t, box.Click(ctx))
	checked, _ = box.Selected(ctx)
	assert.True(t, checked)

	assert.ErrorIs(t, first(t, d, "#locked").Click(ctx), htmldriver.ErrNotInteractable)
	assert.ErrorIs(t, first(t, d, "h1").SendKeys(ctx, "x"), htmldriver.ErrNotInteractable)
}

func TestDriver_Quit(t *testing.T) {
	site := testutils.NewSite(t)
	d := htmldriver.New()
	ctx := context.Background()
	require.NoError(t, d.Navigate(ctx, site.URL))

	require.NoError(t, d.Quit())
	require.NoError(t, d.Quit())

	_, err := d.FindMatches(ctx, "h1")
	assert.ErrorIs(t, err, domain.ErrDriverClosed)
	assert.ErrorIs(t, d.Navigate(ctx, "/about"), domain.ErrDriverClosed)
}
