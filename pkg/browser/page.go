package browser

import (
	"errors"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/clues/pkg/game"
)

// Page adapts a Playwright page to session.Page. Playwright timeouts are
// reported as game.ErrTimeout.
type Page struct {
	page       playwright.Page
	navTimeout time.Duration
}

func newPage(p playwright.Page, navTimeout time.Duration) *Page {
	return &Page{page: p, navTimeout: navTimeout}
}

// Content returns the page's current markup.
func (p *Page) Content() (string, error) {
	content, err := p.page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", translate(err))
	}
	return content, nil
}

// Click clicks the first element matching selector.
func (p *Page) Click(selector string) error {
	if err := p.page.Locator(selector).First().Click(); err != nil {
		return fmt.Errorf("click %s failed: %w", selector, translate(err))
	}
	return nil
}

// ClickNth clicks the index-th element matching selector.
func (p *Page) ClickNth(selector string, index int) error {
	if err := p.page.Locator(selector).Nth(index).Click(); err != nil {
		return fmt.Errorf("click %s[%d] failed: %w", selector, index, translate(err))
	}
	return nil
}

// Exists reports whether any element matches selector.
func (p *Page) Exists(selector string) (bool, error) {
	n, err := p.page.Locator(selector).Count()
	if err != nil {
		return false, fmt.Errorf("query %s failed: %w", selector, translate(err))
	}
	return n > 0, nil
}

// WaitFor waits until an element matching selector is visible.
func (p *Page) WaitFor(selector string, timeout time.Duration) error {
	state := playwright.WaitForSelectorState("visible")
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   &state,
		Timeout: milliseconds(timeout),
	})
	if err != nil {
		return fmt.Errorf("wait for %s failed: %w", selector, translate(err))
	}
	return nil
}

// URL returns the page's current location.
func (p *Page) URL() string {
	return p.page.URL()
}

// Goto navigates to url and waits for the load event.
func (p *Page) Goto(url string) error {
	waitUntil := playwright.WaitUntilState("load")
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: &waitUntil,
		Timeout:   milliseconds(p.navTimeout),
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", translate(err))
	}
	return nil
}

// Close closes the tab.
func (p *Page) Close() error {
	return p.page.Close()
}

// translate maps Playwright timeouts onto game.ErrTimeout, keeping the
// original error in the chain.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %w", game.ErrTimeout, err)
	}
	return err
}
