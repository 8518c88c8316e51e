// Package htmldriver implements a headless driver over plain HTTP.
//
// Pages are fetched with net/http and parsed with goquery; CSS selectors are
// compiled with cascadia. There is no JavaScript: clicking follows links,
// toggles checkboxes and radios, and submits forms.
package htmldriver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/aretw0/probe/pkg/domain"
)

const (
	// DefaultUserAgent identifies the driver to servers.
	DefaultUserAgent = "probe-htmldriver/1.0"

	defaultTimeout = 15 * time.Second
	blankURL       = "about:blank"
)

// ErrNotInteractable is returned when interacting with a disabled or
// unsupported element.
var ErrNotInteractable = errors.New("element not interactable")

// StatusError is returned when a page answers with a 4xx or 5xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("received status code %d from %s", e.Status, e.URL)
}

// Driver is a domain.Driver backed by an HTTP client. It keeps cookies
// between requests.
type Driver struct {
	client    *http.Client
	userAgent string

	mu      sync.Mutex
	doc     *goquery.Document
	current *url.URL
	closed  bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) Option {
	return func(d *Driver) {
		d.client = client
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Driver) {
		d.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.client.Timeout = timeout
	}
}

// New creates a driver on a blank page.
func New(opts ...Option) *Driver {
	jar, _ := cookiejar.New(nil)
	d := &Driver{
		client:    &http.Client{Timeout: defaultTimeout, Jar: jar},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Constructor returns a function creating a new driver per call, suitable
// for a drivers.Registry.
func Constructor(opts ...Option) func(context.Context) (domain.Driver, error) {
	return func(context.Context) (domain.Driver, error) {
		return New(opts...), nil
	}
}

// Navigate loads rawURL, resolved against the current page.
func (d *Driver) Navigate(ctx context.Context, rawURL string) error {
	target, err := d.resolve(rawURL)
	if err != nil {
		return err
	}
	return d.load(ctx, http.MethodGet, target, nil)
}

// CurrentURL returns the location of the loaded page, after redirects.
func (d *Driver) CurrentURL(context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return "", domain.ErrDriverClosed
	}
	if d.current == nil {
		return blankURL, nil
	}
	return d.current.String(), nil
}

// FindMatches returns every element of the current page matching the CSS
// selector query, in document order.
func (d *Driver) FindMatches(_ context.Context, query string) ([]domain.Element, error) {
	matcher, err := cascadia.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", query, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, domain.ErrDriverClosed
	}
	if d.doc == nil {
		return nil, nil
	}

	found := d.doc.FindMatcher(matcher)
	out := make([]domain.Element, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, &Element{driver: d, sel: s})
	})
	return out, nil
}

// Quit drops the page and the cookies. It is safe to call more than once.
func (d *Driver) Quit() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.doc = nil
	d.client.CloseIdleConnections()
	return nil
}

func (d *Driver) resolve(rawURL string) (*url.URL, error) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		return d.current.ResolveReference(ref), nil
	}
	if ref.Scheme == "" || ref.Host == "" {
		return nil, fmt.Errorf("invalid url %q: an absolute url is required on a blank page", rawURL)
	}
	return ref, nil
}

func (d *Driver) load(ctx context.Context, method string, target *url.URL, form url.Values) error {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return domain.ErrDriverClosed
	}

	var body *strings.Reader
	if method == http.MethodPost {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &StatusError{URL: target.String(), Status: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to parse HTML: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = doc
	d.current = resp.Request.URL
	return nil
}
