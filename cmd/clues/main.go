// Package main provides the clues command, which plays the daily Clues by
// Sam puzzle from the terminal.
//
// In server mode it drives a browser and exposes the game on a loopback
// HTTP port. Every other command is a client of that server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/entrhq/clues/pkg/client"
	"github.com/entrhq/clues/pkg/config"
)

const version = "0.1.0"

const usage = `Usage: clues <command> [args] [options]

Commands:
  start                  Start the game server as a background process and get the
                         initial game board state.
                         (The server shuts down automatically upon game completion.)
  stop                   Stop the game server.
  board                  Show current game board.
  innocent <coordinate>  Mark suspect at coordinate as innocent.
  criminal <coordinate>  Mark suspect at coordinate as criminal.
                         Options:
                           -b, --board  Show full game board after marking suspect.
                           -c, --copy   Copy the share grid to the clipboard when the
                                        game completes.
  play                   Play interactively.

Options:
  -s, --server           Run in server mode
  -p, --port <port>      Port to use
                         Default: PORT environment variable, config file or 8080
      --config <path>    Path to configuration file (YAML)
      --debug            Enable debug mode
      --no-headless      Run browser in non-headless mode
      --version          Show version and exit
`

// options holds the parsed command line.
type options struct {
	server     bool
	port       int
	portSet    bool
	board      bool
	copy       bool
	debug      bool
	noHeadless bool
	configPath string
	version    bool
	help       bool
	args       []string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		// The server's explanation has already been printed
		var statusErr *client.StatusError
		if !errors.As(err, &statusErr) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func parseArgs(args []string) (*options, error) {
	opts := &options{}

	flagSet := pflag.NewFlagSet("clues", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVarP(&opts.server, "server", "s", false, "run in server mode")
	flagSet.IntVarP(&opts.port, "port", "p", config.DefaultPort, "port to use")
	flagSet.BoolVarP(&opts.board, "board", "b", false, "show full game board after marking suspect")
	flagSet.BoolVarP(&opts.copy, "copy", "c", false, "copy the share grid when the game completes")
	flagSet.BoolVar(&opts.debug, "debug", false, "enable debug mode")
	flagSet.BoolVar(&opts.noHeadless, "no-headless", false, "run browser in non-headless mode")
	flagSet.StringVar(&opts.configPath, "config", "", "path to configuration file (YAML)")
	flagSet.BoolVar(&opts.version, "version", false, "show version and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return nil, err
	}

	opts.portSet = flagSet.Changed("port")
	for _, arg := range flagSet.Args() {
		// Blank arguments are dropped, as in "clues --server ''"
		if arg != "" {
			opts.args = append(opts.args, strings.ToLower(arg))
		}
	}
	return opts, nil
}

func run(args []string, stdout io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w\n\n%s", err, usage)
	}

	if opts.version {
		fmt.Fprintf(stdout, "clues v%s\n", version)
		return nil
	}
	if opts.help || (!opts.server && len(opts.args) == 0) {
		fmt.Fprint(stdout, usage)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.debug {
		cfg.Debug = true
	}
	if opts.noHeadless {
		cfg.Headless = false
	}

	port, err := cfg.ResolvePort(opts.port, opts.portSet)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.server {
		return runServer(ctx, cfg, port, stdout)
	}
	return runCommand(ctx, cfg, opts, port, stdout)
}
