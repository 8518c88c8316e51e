package testutils

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name inside a fresh temp dir and returns the
// absolute path. It fails the test immediately on error.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write %s", name)
	return path
}

const homePage = `<!DOCTYPE html>
<html>
<head><title>Shop</title><script>var x = 1;</script></head>
<body>
  <h1>  Welcome   to the shop </h1>
  <a id="about" href="/about">About us</a>
  <p id="banner" style="color: red; display: none">Sale!</p>
  <div hidden><span id="secret">hidden text</span></div>
  <form id="search" action="/search" method="get">
    <input id="q" name="q" type="text" value="">
    <input name="token" type="hidden" value="abc">
    <input id="exact" name="exact" type="checkbox">
    <select name="sort"><option value="price">Price</option><option value="name" selected>Name</option></select>
    <button id="go" type="submit">Search</button>
  </form>
  <fieldset disabled><button id="locked">Locked</button></fieldset>
</body>
</html>`

const loginPage = `<!DOCTYPE html>
<html><body>
  <form action="/login" method="post">
    <input id="user" name="user">
    <textarea id="note" name="note">hi</textarea>
    <input id="remember" name="remember" type="checkbox" value="yes" checked>
    <input id="submit" type="submit" name="action" value="login">
  </form>
</body></html>`

// NewSite starts a small test web site and closes it when the test ends.
//
//	/          home page with a link, a search form and hidden nodes
//	/about     static page
//	/search    echoes the query parameters
//	/login     GET shows a form, POST echoes the form values
//	/old       redirects to /about
//	/missing   404
func NewSite(t *testing.T) *httptest.Server {
	t.Helper()

	r := chi.NewRouter()
	html := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = fmt.Fprint(w, body)
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) { html(w, homePage) })
	r.Get("/about", func(w http.ResponseWriter, r *http.Request) {
		html(w, `<html><body><h1>About</h1><p class="lead">We sell things.</p></body></html>`)
	})
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		html(w, fmt.Sprintf(`<html><body><h1>Results</h1><p id="query">%s</p><p id="token">%s</p><p id="exact">%s</p><p id="sort">%s</p></body></html>`,
			q.Get("q"), q.Get("token"), q.Get("exact"), q.Get("sort")))
	})
	r.Get("/login", func(w http.ResponseWriter, r *http.Request) { html(w, loginPage) })
	r.Post("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		html(w, fmt.Sprintf(`<html><body><h1>Hello %s</h1><p id="note">%s</p><p id="remember">%s</p><p id="action">%s</p></body></html>`,
			r.PostForm.Get("user"), r.PostForm.Get("note"), r.PostForm.Get("remember"), r.PostForm.Get("action")))
	})
	r.Get("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/about", http.StatusFound)
	})
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}
