package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/entrhq/clues/pkg/client"
	"github.com/entrhq/clues/pkg/config"
	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/tui"
)

// readyTimeout bounds the wait for a spawned server. The first start may
// download the browser.
const readyTimeout = 3 * time.Minute

// runCommand executes a client command against the server on port.
func runCommand(ctx context.Context, cfg *config.Config, opts *options, port int, stdout io.Writer) error {
	c := client.New(port)
	command, args := opts.args[0], opts.args[1:]

	switch command {
	case "start":
		fmt.Fprintf(stdout, "Starting server on port %d...\n", port)
		if err := spawnServer(spawnArgs(cfg, opts, port)); err != nil {
			return err
		}
		readyCtx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()
		text, err := c.WaitReady(readyCtx, client.DefaultPollInterval)
		return printResponse(stdout, text, err)

	case "stop":
		fmt.Fprintln(stdout, "Stopping server...")
		text, err := c.Stop(ctx)
		return printResponse(stdout, text, err)

	case "board":
		text, err := c.Board(ctx)
		return printResponse(stdout, text, err)

	case "innocent", "criminal":
		if len(args) == 0 {
			return errors.New("please provide a coordinate (e.g., A1)")
		}
		text, err := c.Mark(ctx, args[0], game.Status(command), opts.board)
		if printErr := printResponse(stdout, text, err); printErr != nil {
			return printErr
		}
		if opts.copy {
			copyShare(stdout, text)
		}
		return nil

	case "play":
		return tui.Run(ctx, c)

	default:
		return fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

// printResponse prints whatever the server said. A non-2xx status is still
// returned so the process exits non-zero.
func printResponse(stdout io.Writer, text string, err error) error {
	var statusErr *client.StatusError
	if err != nil && !errors.As(err, &statusErr) {
		return err
	}
	fmt.Fprintln(stdout, text)
	return err
}

func copyShare(stdout io.Writer, text string) {
	if _, ok := client.ShareGrid(text); !ok {
		return
	}
	if _, err := client.CopyShare(text); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to copy share grid: %v\n", err)
		return
	}
	fmt.Fprintln(stdout, "Share grid copied to clipboard.")
}

// spawnArgs builds the command line of a background server that inherits
// this invocation's settings.
func spawnArgs(cfg *config.Config, opts *options, port int) []string {
	args := []string{"--server", "--port=" + strconv.Itoa(port)}
	if !cfg.Headless {
		args = append(args, "--no-headless")
	}
	if cfg.Debug {
		args = append(args, "--debug")
	}
	if opts.configPath != "" {
		args = append(args, "--config="+opts.configPath)
	}
	return args
}

// spawnServer starts this executable detached from the terminal.
func spawnServer(args []string) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	cmd := exec.Command(exe, args...)
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return cmd.Process.Release()
}
