// Package client talks to a running clues server.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/entrhq/clues/pkg/game"
)

// DefaultPollInterval is how often WaitReady retries.
const DefaultPollInterval = 200 * time.Millisecond

// StatusError is returned for any non-2xx response. Body holds the server's
// explanation, which is meant for the user.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Body)
}

// Client issues control requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for the server on the loopback port.
func New(port int) *Client {
	return NewWithBaseURL("http://localhost:"+strconv.Itoa(port), nil)
}

// NewWithBaseURL returns a client for the server at baseURL. A nil
// httpClient uses one without a timeout; moves can take as long as the page
// does.
func NewWithBaseURL(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Board returns the rendered board.
func (c *Client) Board(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodGet, "/board", nil)
}

// Stop asks the server to close the browser and exit.
func (c *Client) Stop(ctx context.Context) (string, error) {
	return c.do(ctx, http.MethodPost, "/stop", nil)
}

// Mark declares the suspect at coordinate innocent or criminal. With
// showBoard the response is the full board instead of the new clue.
func (c *Client) Mark(ctx context.Context, coordinate string, status game.Status, showBoard bool) (string, error) {
	if !status.Known() {
		return "", fmt.Errorf("%w: %s", game.ErrInvalidStatus, status)
	}
	form := url.Values{
		"coordinate": {strings.ToLower(coordinate)},
		"status":     {string(status)},
		"board":      {strconv.FormatBool(showBoard)},
	}
	return c.do(ctx, http.MethodPost, "/set", form)
}

// WaitReady polls the board until the server answers or ctx is done. It
// returns the first board the server renders.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration) (string, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		text, err := c.Board(ctx)
		var statusErr *StatusError
		if err == nil || errors.As(err, &statusErr) {
			return text, err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("server did not become ready: %w", err)
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, form url.Values) (string, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	text := string(data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return text, &StatusError{Code: resp.StatusCode, Body: text}
	}
	return text, nil
}
