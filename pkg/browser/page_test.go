package browser

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"

	"github.com/entrhq/clues/pkg/game"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantTimeout bool
	}{
		{name: "nil", err: nil},
		{name: "playwright timeout", err: playwright.ErrTimeout, wantTimeout: true},
		{name: "wrapped timeout", err: fmt.Errorf("locator.click: %w", playwright.ErrTimeout), wantTimeout: true},
		{name: "target closed", err: playwright.ErrTargetClosed},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.wantTimeout, errors.Is(got, game.ErrTimeout))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultRemoteDebuggingPort, opts.RemoteDebuggingPort)
	assert.Equal(t, Viewport{Width: 1280, Height: 800}, opts.Viewport)
	assert.Equal(t, 30*time.Second, opts.NavigationTimeout)

	custom := Options{RemoteDebuggingPort: 9333, Viewport: Viewport{Width: 800, Height: 600}}.withDefaults()
	assert.Equal(t, 9333, custom.RemoteDebuggingPort)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, custom.Viewport)
}

func TestDriver_Uninitialized(t *testing.T) {
	d := NewDriver(Options{RemoteDebuggingPort: 9333})
	assert.Equal(t, "http://127.0.0.1:9333", d.Endpoint())

	_, err := d.Launch()
	assert.ErrorContains(t, err, "not initialized")
	_, err = d.Connect(d.Endpoint())
	assert.ErrorContains(t, err, "not initialized")
	assert.NoError(t, d.Stop())
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 1500.0, *milliseconds(1500 * time.Millisecond))
}
