package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"

	"github.com/muesli/termenv"

	"github.com/entrhq/clues/pkg/browser"
	"github.com/entrhq/clues/pkg/config"
	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/logging"
	"github.com/entrhq/clues/pkg/render"
	"github.com/entrhq/clues/pkg/server"
	"github.com/entrhq/clues/pkg/session"
)

// runServer serves the game until it completes, is stopped, or ctx ends.
func runServer(ctx context.Context, cfg *config.Config, port int, stdout io.Writer) error {
	stateDir, err := cfg.StatePath()
	if err != nil {
		return err
	}
	sessionPath, err := cfg.SessionPath()
	if err != nil {
		return err
	}

	logging.SetBaseDir(stateDir)
	logging.SetDebug(cfg.Debug)
	if cfg.Debug {
		logging.SetConsole(os.Stderr)
	}

	// NewLogger falls back to stderr on failure, so the error is only noted
	logger, err := logging.NewLogger("server")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()

	driver := browser.NewDriver(browser.Options{
		Headless:            cfg.Headless,
		RemoteDebuggingPort: cfg.RemoteDebuggingPort,
		Viewport: browser.Viewport{
			Width:  cfg.Viewport.Width,
			Height: cfg.Viewport.Height,
		},
		NavigationTimeout: cfg.NavigationTimeout,
	})
	if err := driver.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := driver.Stop(); err != nil {
			logger.Warnf("%v", err)
		}
	}()

	sessions := session.NewManager(driver, session.NewFileStore(sessionPath), session.Options{
		URL:          cfg.URL,
		Headless:     cfg.Headless,
		StartTimeout: cfg.NavigationTimeout,
	}, logger)

	srv := server.New(
		sessions,
		game.NewExecutor(cfg.SettleDelay, cfg.OverlayTimeout),
		render.New(responseProfile()),
		logger,
	)

	logger.Infof("Starting server (run %s, headless=%t)", logger.RunID(), cfg.Headless)
	ln, err := listen(port, stdout)
	if err != nil {
		return err
	}
	return srv.Serve(ctx, ln)
}

// listen binds the server port and only then announces the server.
func listen(port int, stdout io.Writer) (net.Listener, error) {
	addr := server.Addr(port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	fmt.Fprintf(stdout, "Server running on http://localhost:%d/\n", port)
	return ln, nil
}

// responseProfile picks the color profile for rendered responses. They are
// printed by a client on some other terminal, so the server's own terminal
// says nothing; NO_COLOR turns color off.
func responseProfile() termenv.Profile {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return termenv.Ascii
	}
	return termenv.ANSI
}
