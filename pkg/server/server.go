// Package server exposes the game over a small loopback HTTP interface.
//
// Routes are matched on method and path together:
//
//	POST /stop   close the browser and stop serving
//	GET  /board  render the current board with clues
//	POST /set    mark a suspect (form fields coordinate, status, board)
//
// Responses are plain text. Requests that touch the page are serialized, so
// at most one move is in flight.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/entrhq/clues/pkg/game"
	"github.com/entrhq/clues/pkg/logging"
	"github.com/entrhq/clues/pkg/render"
	"github.com/entrhq/clues/pkg/session"
)

// shutdownTimeout bounds how long in-flight responses get to finish once
// the server decides to stop.
const shutdownTimeout = 5 * time.Second

// Sessions provides the game page. *session.Manager implements it.
type Sessions interface {
	Acquire(autoLaunch bool) (game.Page, error)
	Shutdown() error
	OnShutdown(fn func())
}

// Server routes control requests to the game page.
type Server struct {
	// mu serializes every request that touches the page
	mu sync.Mutex

	sessions Sessions
	executor *game.Executor
	renderer *render.Renderer
	logger   *logging.Logger

	done     chan struct{}
	doneOnce sync.Once

	errMu sync.Mutex
	err   error
}

// New creates a server. The server stops serving once sessions shuts down.
func New(sessions Sessions, executor *game.Executor, renderer *render.Renderer, logger *logging.Logger) *Server {
	s := &Server{
		sessions: sessions,
		executor: executor,
		renderer: renderer,
		logger:   logger,
		done:     make(chan struct{}),
	}
	sessions.OnShutdown(s.release)
	return s
}

// Addr returns the loopback address for port.
func Addr(port int) string {
	return net.JoinHostPort("localhost", strconv.Itoa(port))
}

func (s *Server) release() {
	s.doneOnce.Do(func() { close(s.done) })
}

// Done is closed once the session has shut down.
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Err returns the fatal error that stopped the server, if any.
func (s *Server) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

// Serve serves on ln until the session shuts down or ctx is cancelled. The
// listener is closed from here, after the response that triggered the
// shutdown has been written. It returns the fatal startup error if one
// stopped the server.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(ln)
	}()
	s.logger.Infof("Listening on %s", ln.Addr())

	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Infof("Received shutdown signal")
		if err := s.sessions.Shutdown(); err != nil {
			s.logger.Warnf("Shutdown failed: %v", err)
		}
	case <-s.done:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warnf("Failed to close listener: %v", err)
	}
	<-serveErr

	s.logger.Infof("Server stopped")
	return s.Err()
}

// ServeHTTP dispatches on method and path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + r.URL.Path
	s.logger.Infof("%s", route)

	switch route {
	case "POST/stop":
		s.handleStop(w, r)
	case "GET/board":
		s.handleBoard(w, r)
	case "POST/set":
		s.handleSet(w, r)
	default:
		writeText(w, http.StatusNotFound, "Not Found: "+route)
	}
}

func (s *Server) handleStop(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Shutdown(); err != nil {
		s.logger.Warnf("Shutdown failed: %v", err)
	}
	writeText(w, http.StatusOK, "Server stopped.")
}

func (s *Server) handleBoard(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.sessions.Acquire(true)
	if err != nil {
		s.fail(w, err)
		return
	}

	board, err := game.ReadBoard(page)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeText(w, http.StatusOK, s.renderer.Board(board, true))
}

func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request: Malformed form data")
		return
	}

	coordinate, hasCoordinate := formValue(r, "coordinate")
	statusValue, hasStatus := formValue(r, "status")
	showBoard := r.PostForm.Get("board") == "true"

	if !hasCoordinate || !hasStatus {
		writeText(w, http.StatusBadRequest, "Bad Request: Missing coordinate or status")
		return
	}
	declared, err := game.ParseStatus(statusValue)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Bad Request: Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	page, err := s.sessions.Acquire(true)
	if err != nil {
		s.fail(w, err)
		return
	}

	outcome, err := s.executor.Apply(r.Context(), page, coordinate, declared)
	if err != nil {
		s.fail(w, err)
		return
	}

	switch outcome.Kind {
	case game.OutcomeRejected:
		if outcome.Reason == game.RejectNotFound {
			writeText(w, http.StatusNotFound, "Not Found: No suspect at "+coordinate)
			return
		}
		writeText(w, http.StatusBadRequest, "Conflict: Suspect already has known status: "+string(outcome.Cell.Status))

	case game.OutcomeMistake:
		s.logger.Infof("Mistake marking %s as %s", coordinate, declared)
		writeText(w, http.StatusOK, "Mistake - Not enough evidence.")

	case game.OutcomeInProgress:
		if showBoard {
			writeText(w, http.StatusOK, s.renderer.Board(outcome.Board, true))
			return
		}
		writeText(w, http.StatusOK, s.renderer.Update(outcome.Cell))

	case game.OutcomeComplete:
		text := s.renderer.Completion(outcome.Board, outcome.Summary)
		s.logger.Infof("Game complete: %s - %s", outcome.Summary.Title, outcome.Summary.Time)
		if err := s.sessions.Shutdown(); err != nil {
			s.logger.Warnf("Shutdown failed: %v", err)
		}
		writeText(w, http.StatusOK, text)

	default:
		s.fail(w, fmt.Errorf("unexpected outcome %s", outcome.Kind))
	}
}

// fail maps err to a status code. A startup failure is fatal: the session
// is shut down, which stops the server, and Err reports the cause.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrClosed):
		writeText(w, http.StatusServiceUnavailable, "Service Unavailable: Server is shutting down")

	case errors.Is(err, session.ErrStartup):
		s.logger.Errorf("Fatal: %v", err)
		s.errMu.Lock()
		s.err = err
		s.errMu.Unlock()
		if shutdownErr := s.sessions.Shutdown(); shutdownErr != nil {
			s.logger.Warnf("Shutdown failed: %v", shutdownErr)
		}
		writeText(w, http.StatusInternalServerError, "Internal Server Error: Failed to load game page")

	case errors.Is(err, game.ErrStructureChanged):
		s.logger.Errorf("Page structure changed: %v", err)
		writeText(w, http.StatusInternalServerError, "Internal Server Error: Page structure may have changed")

	case errors.Is(err, game.ErrTimeout):
		s.logger.Warnf("Timed out: %v", err)
		writeText(w, http.StatusGatewayTimeout, "Gateway Timeout: The game page did not respond in time")

	default:
		s.logger.Errorf("Request failed: %v", err)
		writeText(w, http.StatusInternalServerError, "Internal Server Error: "+err.Error())
	}
}

// formValue reports a body field and whether it was sent at all. An empty
// value counts as sent.
func formValue(r *http.Request, key string) (string, bool) {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
