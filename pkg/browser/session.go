package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/clues/pkg/session"
)

// Session is a launched or reattached Chromium. It implements
// session.Browser.
type Session struct {
	browser  playwright.Browser
	endpoint string
	opts     Options
}

func newSession(b playwright.Browser, endpoint string, opts Options) *Session {
	return &Session{browser: b, endpoint: endpoint, opts: opts}
}

// Endpoint returns the CDP endpoint the browser listens on.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// IsConnected reports whether the browser connection is alive.
func (s *Session) IsConnected() bool {
	return s.browser.IsConnected()
}

// Pages returns the open tabs across all contexts.
func (s *Session) Pages() []session.Page {
	var pages []session.Page
	for _, ctx := range s.browser.Contexts() {
		for _, p := range ctx.Pages() {
			pages = append(pages, newPage(p, s.opts.NavigationTimeout))
		}
	}
	return pages
}

// NewPage opens a tab. Headless tabs get the configured viewport; a visible
// window keeps whatever size the user gives it.
func (s *Session) NewPage() (session.Page, error) {
	pageOpts := playwright.BrowserNewPageOptions{}
	if s.opts.Headless {
		pageOpts.Viewport = &playwright.Size{
			Width:  s.opts.Viewport.Width,
			Height: s.opts.Viewport.Height,
		}
	} else {
		noViewport := true
		pageOpts.NoViewport = &noViewport
	}

	p, err := s.browser.NewPage(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", translate(err))
	}
	return newPage(p, s.opts.NavigationTimeout), nil
}

// Close shuts the browser down.
func (s *Session) Close() error {
	if err := s.browser.Close(); err != nil {
		return fmt.Errorf("failed to close browser: %w", err)
	}
	return nil
}
