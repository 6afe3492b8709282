package browser

import "time"

// Options configures browsers launched by a Driver.
type Options struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// RemoteDebuggingPort is the CDP port launched browsers listen on, so
	// that a later process can reattach with Connect
	RemoteDebuggingPort int

	// Viewport sets the size of new tabs
	Viewport Viewport

	// NavigationTimeout bounds page loads
	NavigationTimeout time.Duration
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Default values for launched browsers
const (
	DefaultRemoteDebuggingPort = 9223
	DefaultViewportWidth       = 1280
	DefaultViewportHeight      = 800
	DefaultNavigationTimeout   = 30 * time.Second
)

func (o Options) withDefaults() Options {
	if o.RemoteDebuggingPort == 0 {
		o.RemoteDebuggingPort = DefaultRemoteDebuggingPort
	}
	if o.Viewport.Width == 0 || o.Viewport.Height == 0 {
		o.Viewport = Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
	}
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	return o
}

// milliseconds converts d to the float milliseconds Playwright expects.
func milliseconds(d time.Duration) *float64 {
	ms := float64(d.Milliseconds())
	return &ms
}
