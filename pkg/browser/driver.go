package browser

import (
	"fmt"
	"io"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/clues/pkg/session"
)

// Driver launches Chromium through Playwright and reattaches to browsers it
// launched earlier. It implements session.Launcher.
type Driver struct {
	mu          sync.Mutex
	playwright  *playwright.Playwright
	opts        Options
	initialized bool
}

// NewDriver creates a driver. Playwright is not started until Initialize.
func NewDriver(opts Options) *Driver {
	return &Driver{opts: opts.withDefaults()}
}

// Initialize installs the Playwright driver and browsers if needed and
// starts Playwright. Later calls do nothing.
func (d *Driver) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}

	// Discard installer output so it doesn't interleave with the server's
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	d.playwright = pw
	d.initialized = true
	return nil
}

// Endpoint returns the CDP endpoint launched browsers listen on.
func (d *Driver) Endpoint() string {
	return fmt.Sprintf("http://127.0.0.1:%d", d.opts.RemoteDebuggingPort)
}

// Launch starts a new Chromium process.
func (d *Driver) Launch() (session.Browser, error) {
	pw, err := d.started()
	if err != nil {
		return nil, err
	}

	headless := d.opts.Headless
	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
		Args:     []string{fmt.Sprintf("--remote-debugging-port=%d", d.opts.RemoteDebuggingPort)},
	}
	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return newSession(b, d.Endpoint(), d.opts), nil
}

// Connect attaches to a running Chromium through its CDP endpoint.
func (d *Driver) Connect(endpoint string) (session.Browser, error) {
	pw, err := d.started()
	if err != nil {
		return nil, err
	}

	b, err := pw.Chromium.ConnectOverCDP(endpoint, playwright.BrowserTypeConnectOverCDPOptions{
		Timeout: milliseconds(d.opts.NavigationTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}

	return newSession(b, endpoint, d.opts), nil
}

// Stop shuts Playwright down. Browsers launched by this driver exit with it.
func (d *Driver) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized || d.playwright == nil {
		return nil
	}
	if err := d.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	d.initialized = false
	d.playwright = nil
	return nil
}

func (d *Driver) started() (*playwright.Playwright, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return nil, fmt.Errorf("browser driver not initialized")
	}
	return d.playwright, nil
}
