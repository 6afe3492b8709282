package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Logger provides structured logging for clues components.
// File logs are written to a run-specific file in ~/.clues/logs/
//
// Debugf only writes when debug logging is enabled with SetDebug. The other
// levels always write.
type Logger struct {
	runID     string
	component string
	file      *os.File
	logger    *log.Logger
	mu        sync.Mutex
	logPath   string
	closeOnce sync.Once
}

var (
	// Global run ID for the current process
	runID     string
	runIDOnce sync.Once

	// logDir is the directory where log files are stored
	logDir     string
	logDirOnce sync.Once
	logDirErr  error

	// baseDir overrides ~/.clues when set before the first NewLogger call
	baseDir string

	debugEnabled atomic.Bool

	consoleMu sync.Mutex
	console   io.Writer
)

// SetBaseDir sets the state directory logs are written under. It must be
// called before the first NewLogger call to take effect.
func SetBaseDir(dir string) {
	baseDir = dir
}

// SetDebug enables or disables debug-level entries for all loggers.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether debug-level entries are written.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// SetConsole mirrors entries of loggers created afterwards to w, in
// addition to the log file. Pass nil to stop mirroring.
func SetConsole(w io.Writer) {
	consoleMu.Lock()
	defer consoleMu.Unlock()
	console = w
}

func getRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

// initLogDirectory ensures the log directory exists
func initLogDirectory() error {
	logDirOnce.Do(func() {
		dir := baseDir
		if dir == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				logDirErr = fmt.Errorf("failed to get home directory: %w", err)
				return
			}
			dir = filepath.Join(homeDir, ".clues")
		}

		logDir = filepath.Join(dir, "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			logDirErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}
	})
	return logDirErr
}

// NewLogger creates a new logger for a specific component.
// The logger writes to ~/.clues/logs/<run-id>-clues.log
//
// If the log file cannot be opened, it returns a fallback logger that writes
// to stderr along with the error.
func NewLogger(component string) (*Logger, error) {
	if err := initLogDirectory(); err != nil {
		return newFallbackLogger(component, err), err
	}

	id := getRunID()
	logPath := filepath.Join(logDir, fmt.Sprintf("%s-clues.log", id))

	// Append mode: every component of the run shares one file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return newFallbackLogger(component, fmt.Errorf("failed to open log file: %w", err)), err
	}

	var out io.Writer = file
	consoleMu.Lock()
	if console != nil {
		out = io.MultiWriter(file, console)
	}
	consoleMu.Unlock()

	return &Logger{
		runID:     id,
		component: component,
		file:      file,
		logger:    log.New(out, "", 0),
		logPath:   logPath,
	}, nil
}

// NewWriterLogger creates a logger that writes to w only. It never fails and
// is what tests use.
func NewWriterLogger(component string, w io.Writer) *Logger {
	return &Logger{
		runID:     getRunID(),
		component: component,
		logger:    log.New(w, "", 0),
	}
}

// newFallbackLogger creates a logger that writes to stderr when file logging fails
func newFallbackLogger(component string, err error) *Logger {
	logger := log.New(os.Stderr, fmt.Sprintf("[%s] ", component), log.LstdFlags|log.Lshortfile)
	logger.Printf("WARNING: Failed to initialize file logging: %v", err)
	logger.Printf("Falling back to stderr logging")

	return &Logger{
		runID:     getRunID(),
		component: component,
		logger:    logger,
	}
}

// formatLogEntry creates a structured log entry with timestamp, component, and level
func (l *Logger) formatLogEntry(level, message string) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	return fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, l.component, level, message)
}

func (l *Logger) write(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	message := fmt.Sprintf(format, v...)
	l.logger.Println(l.formatLogEntry(level, message))
}

// Debugf logs a debug-level message when debug logging is enabled
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !DebugEnabled() {
		return
	}
	l.write("DEBUG", format, v...)
}

// Infof logs an info-level message
func (l *Logger) Infof(format string, v ...interface{}) {
	l.write("INFO", format, v...)
}

// Warnf logs a warning-level message
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.write("WARN", format, v...)
}

// Errorf logs an error-level message
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.write("ERROR", format, v...)
}

// RunID returns the ID shared by all loggers of this process
func (l *Logger) RunID() string {
	return l.runID
}

// LogPath returns the path to the log file, or "" for writer loggers
func (l *Logger) LogPath() string {
	return l.logPath
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
