package gametest

import (
	"fmt"
	"sync"

	"github.com/entrhq/clues/pkg/session"
)

// Browser is an in-memory browser whose tabs are Pages.
type Browser struct {
	mu        sync.Mutex
	endpoint  string
	pages     []*Page
	connected bool

	// NewTab builds the page returned by NewPage. Defaults to NewLobbyPage.
	NewTab func() *Page

	// CloseCount counts Close calls.
	CloseCount int
}

// NewBrowser returns a connected browser with no tabs.
func NewBrowser(endpoint string) *Browser {
	return &Browser{endpoint: endpoint, connected: true}
}

// Endpoint returns the address the browser was created with.
func (b *Browser) Endpoint() string {
	return b.endpoint
}

// IsConnected reports whether the browser is still reachable.
func (b *Browser) IsConnected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connected
}

// Disconnect simulates the controller losing its handle on the browser. The
// process keeps running, so Launcher.Connect can reach it again.
func (b *Browser) Disconnect() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = false
}

// Pages returns the open tabs.
func (b *Browser) Pages() []session.Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	var pages []session.Page
	for _, p := range b.pages {
		if !p.Closed() {
			pages = append(pages, p)
		}
	}
	return pages
}

// AddPage opens page as a tab.
func (b *Browser) AddPage(page *Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages = append(b.pages, page)
}

// NewPage opens a new tab.
func (b *Browser) NewPage() (session.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.connected {
		return nil, fmt.Errorf("browser is disconnected")
	}
	newTab := b.NewTab
	if newTab == nil {
		newTab = NewLobbyPage
	}
	page := newTab()
	b.pages = append(b.pages, page)
	return page, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	b.connected = false
	return nil
}

// Running reports whether Close has not been called.
func (b *Browser) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.CloseCount == 0
}

// Launcher hands out Browsers and reattaches to them by endpoint.
type Launcher struct {
	mu       sync.Mutex
	browsers map[string]*Browser

	// LaunchErr, when set, makes Launch fail.
	LaunchErr error

	// NewTab is passed to every launched Browser.
	NewTab func() *Page

	Launches int
	Connects int
}

// NewLauncher returns a launcher with no running browsers.
func NewLauncher() *Launcher {
	return &Launcher{browsers: make(map[string]*Browser)}
}

// Launch starts a new Browser.
func (l *Launcher) Launch() (session.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.LaunchErr != nil {
		return nil, l.LaunchErr
	}
	l.Launches++
	b := NewBrowser(fmt.Sprintf("http://127.0.0.1:9223/%d", l.Launches))
	b.NewTab = l.NewTab
	l.browsers[b.endpoint] = b
	return b, nil
}

// Connect reattaches to a running Browser.
func (l *Launcher) Connect(endpoint string) (session.Browser, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Connects++
	b, ok := l.browsers[endpoint]
	if !ok || !b.Running() {
		return nil, fmt.Errorf("no browser listening at %s", endpoint)
	}
	b.mu.Lock()
	b.connected = true
	b.mu.Unlock()
	return b, nil
}

// Browser returns the most recently launched browser, or nil.
func (l *Launcher) Browser() *Browser {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.browsers[fmt.Sprintf("http://127.0.0.1:9223/%d", l.Launches)]
}

// MemoryStore is an in-memory session.Store.
type MemoryStore struct {
	mu   sync.Mutex
	desc *session.Descriptor
}

// Load returns the saved descriptor.
func (s *MemoryStore) Load() (*session.Descriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.desc == nil {
		return nil, nil
	}
	d := *s.desc
	return &d, nil
}

// Save records the descriptor.
func (s *MemoryStore) Save(d *session.Descriptor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *d
	s.desc = &c
	return nil
}

// Clear forgets the descriptor.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.desc = nil
	return nil
}
