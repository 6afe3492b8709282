// Package session owns the single browser session the controller drives.
//
// A Manager hands out the one game page to request handlers. The page
// persists across requests; the Manager reconnects through a recorded
// Descriptor when its in-memory handle is lost and launches a new browser
// only when reconnecting fails.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/logging"
)

var (
	// ErrNoSession is returned by Acquire without autolaunch when no browser
	// can be reached.
	ErrNoSession = errors.New("no browser session")

	// ErrStartup means the browser could not be launched or the game page
	// could not be loaded. The process cannot serve without a session.
	ErrStartup = errors.New("failed to start game session")

	// ErrClosed is returned once the manager has been shut down.
	ErrClosed = errors.New("session has shut down")
)

// Page is a browser tab that can host the game.
type Page interface {
	game.Page

	URL() string
	Goto(url string) error
	Close() error
}

// Browser is a launched or reconnected browser process.
type Browser interface {
	// Endpoint returns the address Connect accepts to reattach
	Endpoint() string

	IsConnected() bool
	Pages() []Page
	NewPage() (Page, error)

	// Close shuts the browser process down
	Close() error
}

// Launcher starts new browsers and attaches to running ones.
type Launcher interface {
	Launch() (Browser, error)
	Connect(endpoint string) (Browser, error)
}

// Options configures a Manager.
type Options struct {
	// URL is the game's address; tabs whose URL starts with it are reused
	URL string

	// Headless is recorded in the descriptor of launched browsers
	Headless bool

	// StartTimeout bounds the wait for the board after pressing start
	StartTimeout time.Duration
}

// Manager owns the one permitted browser and game page.
type Manager struct {
	mu       sync.Mutex
	launcher Launcher
	store    Store
	opts     Options
	logger   *logging.Logger

	browser Browser
	closed  bool
	hooks   []func()
}

// NewManager creates a session manager. No browser is launched until the
// first Acquire.
func NewManager(launcher Launcher, store Store, opts Options, logger *logging.Logger) *Manager {
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = game.DefaultOverlayTimeout
	}
	return &Manager{
		launcher: launcher,
		store:    store,
		opts:     opts,
		logger:   logger,
	}
}

// OnShutdown registers fn to run once the browser has been closed. Hooks run
// exactly once, in registration order, outside the manager's lock.
func (m *Manager) OnShutdown(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, fn)
}

// Closed reports whether Shutdown has been called.
func (m *Manager) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Acquire returns the game page, ready for play.
//
// It reuses the current browser or reconnects through the recorded
// descriptor. If neither works and autoLaunch is set, a new browser is
// launched and recorded; otherwise ErrNoSession is returned. A fresh tab is
// navigated to the game and the game is started; an existing game tab is
// returned as is.
func (m *Manager) Acquire(autoLaunch bool) (game.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	browser, err := m.browserLocked(autoLaunch)
	if err != nil {
		return nil, err
	}
	return m.gamePageLocked(browser)
}

func (m *Manager) browserLocked(autoLaunch bool) (Browser, error) {
	if m.browser != nil && m.browser.IsConnected() {
		return m.browser, nil
	}
	m.browser = nil

	browser, err := m.reconnectLocked()
	if err == nil {
		m.logger.Debugf("Reconnected to browser at %s", browser.Endpoint())
		m.browser = browser
		return browser, nil
	}
	m.logger.Debugf("Failed to reconnect (%v)", err)

	if !autoLaunch {
		return nil, ErrNoSession
	}

	m.logger.Debugf("Launching new browser instance...")
	browser, err = m.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to launch browser: %w", ErrStartup, err)
	}

	desc := &Descriptor{
		Endpoint:   browser.Endpoint(),
		Headless:   m.opts.Headless,
		LaunchedAt: time.Now(),
	}
	if err := m.store.Save(desc); err != nil {
		// The session still works; only later reconnects are affected.
		m.logger.Warnf("Failed to record session descriptor: %v", err)
	}

	m.logger.Infof("Launched browser at %s", desc.Endpoint)
	m.browser = browser
	return browser, nil
}

func (m *Manager) reconnectLocked() (Browser, error) {
	desc, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if desc == nil || desc.Endpoint == "" {
		return nil, errors.New("no recorded session")
	}
	return m.launcher.Connect(desc.Endpoint)
}

func (m *Manager) gamePageLocked(browser Browser) (game.Page, error) {
	for _, page := range browser.Pages() {
		if strings.HasPrefix(page.URL(), m.opts.URL) {
			return page, nil
		}
	}

	page, err := browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open tab: %w", ErrStartup, err)
	}

	if err := m.startGame(page); err != nil {
		m.logger.Errorf("Failed to load %s: %v", m.opts.URL, err)
		_ = page.Close()
		return nil, fmt.Errorf("%w: failed to load %s: %w", ErrStartup, m.opts.URL, err)
	}
	m.logger.Infof("Started game at %s", m.opts.URL)
	return page, nil
}

func (m *Manager) startGame(page Page) error {
	if err := page.Goto(m.opts.URL); err != nil {
		return err
	}
	if err := page.Click(game.SelectorStart); err != nil {
		return err
	}
	return page.WaitFor(game.SelectorCardGrid, m.opts.StartTimeout)
}

// Shutdown closes the browser if one can be reached, forgets the recorded
// descriptor and runs the shutdown hooks. Later calls do nothing.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true

	var errs []error
	browser, err := m.browserLocked(false)
	switch {
	case errors.Is(err, ErrNoSession):
		m.logger.Debugf("No browser to close")
	case err != nil:
		errs = append(errs, err)
	default:
		if err := browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}
	m.browser = nil

	if err := m.store.Clear(); err != nil {
		errs = append(errs, err)
	}

	hooks := m.hooks
	m.hooks = nil
	m.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}

	m.logger.Infof("Session shut down")
	return errors.Join(errs...)
}
