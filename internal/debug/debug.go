// Package debug provides debug logging infrastructure for jabref.
// Logging is only enabled when --debug flag is passed at startup.
// Logs are written to ~/.jabref/debug.log unless another path is configured.
// Each launch starts a fresh file; the previous session is kept beside it
// with a ".1" suffix.
package debug

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	// LogFileName is the name of the debug log file.
	LogFileName = "debug.log"
	// LogDirName is the name of the directory containing the log file.
	LogDirName = ".jabref"
	// PreviousSuffix is appended to the log of the previous session.
	PreviousSuffix = ".1"
)

// InitOption configures Init.
type InitOption func(*initOptions)

type initOptions struct {
	path    string
	version string
}

// WithPath writes the log to path instead of ~/.jabref/debug.log.
// A blank path keeps the default. A leading "~/" expands to the home directory.
func WithPath(path string) InitOption {
	return func(o *initOptions) {
		o.path = strings.TrimSpace(path)
	}
}

// WithVersion records the JabRef build version in the log header.
func WithVersion(version string) InitOption {
	return func(o *initOptions) {
		o.version = strings.TrimSpace(version)
	}
}

var (
	mu      sync.RWMutex
	enabled bool
	logger  *log.Logger
	logFile *os.File

	// activePath is the file the current session writes to.
	activePath string

	// getLogPath is a function variable to allow overriding in tests.
	getLogPath = defaultGetLogPath
)

// Init initializes the debug logging system.
// If enable is false, all logging operations become no-ops.
// If enable is true, the previous log is rotated and a new one is started
// with a header naming the build, process and platform.
func Init(enable bool, opts ...InitOption) error {
	o := initOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	mu.Lock()
	defer mu.Unlock()

	enabled = enable
	activePath = ""
	if !enable {
		logger = log.New(io.Discard, "", 0)
		return nil
	}

	logPath, err := resolveLogPath(o.path)
	if err != nil {
		return fmt.Errorf("determine log path: %w", err)
	}

	dir := filepath.Dir(logPath)
	//nolint:gosec // G301: User config directory needs standard permissions
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	if err := rotate(logPath); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}

	//nolint:gosec // G304: Log path comes from the user's own configuration
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logFile = f
	activePath = logPath

	logger = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds)
	logger.Print(header(o.version, time.Now()))
	logger.Printf("log file: %s", logPath)

	return nil
}

func header(version string, now time.Time) string {
	if version == "" {
		version = "(unknown version)"
	}
	return fmt.Sprintf("=== JabRef %s debug log started at %s (pid %d, %s/%s, %s) ===",
		version, now.Format(time.RFC3339), os.Getpid(), runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// resolveLogPath picks the configured path, or the default one.
func resolveLogPath(configured string) (string, error) {
	if configured == "" {
		return getLogPath()
	}
	if rest, ok := strings.CutPrefix(configured, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("determine user home: %w", err)
		}
		return filepath.Join(home, rest), nil
	}
	return filepath.Abs(configured)
}

// rotate moves an existing, non-empty log aside so one previous session
// survives the next launch.
func rotate(logPath string) error {
	info, err := os.Stat(logPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", logPath)
	}
	if info.Size() == 0 {
		return nil
	}
	return os.Rename(logPath, logPath+PreviousSuffix)
}

// InitWriter enables logging to w instead of the log file.
// Used by tests in other packages to observe what gets logged.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	activePath = ""
	enabled = w != nil
	if w == nil {
		logger = log.New(io.Discard, "", 0)
		return
	}
	logger = log.New(w, "", 0)
}

// Close closes the debug log file if open.
// Safe to call even if logging is disabled.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Log writes a debug message if debug logging is enabled.
// Arguments are handled in the manner of fmt.Print.
func Log(v ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if !enabled || logger == nil {
		return
	}
	logger.Print(v...)
}

// Logf writes a formatted debug message if debug logging is enabled.
// Arguments are handled in the manner of fmt.Printf.
func Logf(format string, v ...any) {
	mu.RLock()
	defer mu.RUnlock()

	if !enabled || logger == nil {
		return
	}
	logger.Printf(format, v...)
}

// LogError writes msg followed by err. A nil err logs msg alone.
func LogError(msg string, err error) {
	if err == nil {
		Log(msg)
		return
	}
	Logf("%s: %v", msg, err)
}

// Enabled returns whether debug logging is currently enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// defaultGetLogPath returns the path to the debug log file.
func defaultGetLogPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine user home: %w", err)
	}
	return filepath.Join(home, LogDirName, LogFileName), nil
}

// GetLogPath returns the file the current session logs to, or the default
// location when no log file is open.
func GetLogPath() (string, error) {
	mu.RLock()
	path := activePath
	mu.RUnlock()
	if path != "" {
		return path, nil
	}
	return getLogPath()
}
