package debug

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestInit_Disabled(t *testing.T) {
	// Reset state
	resetForTest()

	err := Init(false)
	if err != nil {
		t.Fatalf("Init(false) failed: %v", err)
	}

	if Enabled() {
		t.Error("Enabled() should return false when initialized with false")
	}

	// Logging should be no-ops
	Log("test message")
	Logf("test %s", "formatted")
}

func TestInit_Enabled(t *testing.T) {
	// Reset state
	resetForTest()

	// Use temp directory for log file
	tmpDir := t.TempDir()
	origGetLogPath := getLogPath
	getLogPath = func() (string, error) {
		return filepath.Join(tmpDir, LogDirName, LogFileName), nil
	}
	t.Cleanup(func() {
		getLogPath = origGetLogPath
		Close()
		resetForTest()
	})

	err := Init(true)
	if err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}

	if !Enabled() {
		t.Error("Enabled() should return true when initialized with true")
	}

	// Write some log messages
	Log("test message")
	Logf("test %s %d", "formatted", 42)

	// Verify log file was created and contains expected content
	logPath := filepath.Join(tmpDir, LogDirName, LogFileName)
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "debug log started") {
		t.Error("Log file should contain startup message")
	}
	if !strings.Contains(contentStr, "test message") {
		t.Error("Log file should contain 'test message'")
	}
	if !strings.Contains(contentStr, "test formatted 42") {
		t.Error("Log file should contain 'test formatted 42'")
	}
}

func TestInit_TruncatesExistingLog(t *testing.T) {
	// Reset state
	resetForTest()

	// Use temp directory for log file
	tmpDir := t.TempDir()
	origGetLogPath := getLogPath
	getLogPath = func() (string, error) {
		return filepath.Join(tmpDir, LogDirName, LogFileName), nil
	}
	t.Cleanup(func() {
		getLogPath = origGetLogPath
		Close()
		resetForTest()
	})

	// Create a pre-existing log file with content
	logDir := filepath.Join(tmpDir, LogDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		t.Fatalf("Failed to create log directory: %v", err)
	}
	logPath := filepath.Join(logDir, LogFileName)
	if err := os.WriteFile(logPath, []byte("old log content that should be truncated\n"), 0600); err != nil {
		t.Fatalf("Failed to write pre-existing log: %v", err)
	}

	// Initialize with debug enabled
	err := Init(true)
	if err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}

	// Verify old content was truncated
	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if strings.Contains(string(content), "old log content") {
		t.Error("Log file should have been truncated, but old content still present")
	}
	if !strings.Contains(string(content), "debug log started") {
		t.Error("Log file should contain new startup message")
	}

	previous, err := os.ReadFile(logPath + PreviousSuffix)
	if err != nil {
		t.Fatalf("Failed to read previous log: %v", err)
	}
	if !strings.Contains(string(previous), "old log content") {
		t.Error("Previous session's log should be kept beside the new one")
	}
}

func TestInit_HeaderNamesBuild(t *testing.T) {
	resetForTest()

	logPath := filepath.Join(t.TempDir(), "logs", "jabref-debug.log")
	t.Cleanup(func() {
		Close()
		resetForTest()
	})

	if err := Init(true, WithPath(logPath), WithVersion("5.2--2020-12-24--a1b2c3")); err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	first := strings.SplitN(string(content), "\n", 2)[0]
	for _, want := range []string{"JabRef 5.2--2020-12-24--a1b2c3", "pid ", runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(first, want) {
			t.Errorf("header %q should contain %q", first, want)
		}
	}
	if !strings.Contains(string(content), "log file: "+logPath) {
		t.Error("Log should record where it is written")
	}

	got, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() failed: %v", err)
	}
	if got != logPath {
		t.Errorf("GetLogPath() = %q, want active path %q", got, logPath)
	}
}

func TestInit_EmptyLogIsNotRotated(t *testing.T) {
	resetForTest()

	logPath := filepath.Join(t.TempDir(), LogFileName)
	t.Cleanup(func() {
		Close()
		resetForTest()
	})
	if err := os.WriteFile(logPath, nil, 0600); err != nil {
		t.Fatalf("Failed to write empty log: %v", err)
	}

	if err := Init(true, WithPath(logPath)); err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}
	if _, err := os.Stat(logPath + PreviousSuffix); !os.IsNotExist(err) {
		t.Errorf("empty log should not be rotated, stat err = %v", err)
	}
}

func TestInit_PathIsDirectory(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	if err := Init(true, WithPath(t.TempDir())); err == nil {
		t.Fatal("Init(true) should fail when the log path is a directory")
	}
}

func TestResolveLogPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	got, err := resolveLogPath("~/logs/jabref.log")
	if err != nil {
		t.Fatalf("resolveLogPath() failed: %v", err)
	}
	if want := filepath.Join(home, "logs", "jabref.log"); got != want {
		t.Errorf("resolveLogPath(~/...) = %q, want %q", got, want)
	}

	got, err = resolveLogPath("")
	if err != nil {
		t.Fatalf("resolveLogPath(\"\") failed: %v", err)
	}
	if !strings.HasSuffix(got, filepath.Join(LogDirName, LogFileName)) {
		t.Errorf("resolveLogPath(\"\") = %q, want default location", got)
	}
}

func TestClose(t *testing.T) {
	// Reset state
	resetForTest()

	// Use temp directory for log file
	tmpDir := t.TempDir()
	origGetLogPath := getLogPath
	getLogPath = func() (string, error) {
		return filepath.Join(tmpDir, LogDirName, LogFileName), nil
	}
	t.Cleanup(func() {
		getLogPath = origGetLogPath
		resetForTest()
	})

	err := Init(true)
	if err != nil {
		t.Fatalf("Init(true) failed: %v", err)
	}

	// Close should not panic
	Close()

	// Multiple closes should be safe
	Close()
	Close()
}

func TestGetLogPath(t *testing.T) {
	path, err := GetLogPath()
	if err != nil {
		t.Fatalf("GetLogPath() failed: %v", err)
	}

	if !strings.HasSuffix(path, filepath.Join(LogDirName, LogFileName)) {
		t.Errorf("GetLogPath() = %q, want suffix %q", path, filepath.Join(LogDirName, LogFileName))
	}
}

func TestLog_WhenDisabled(t *testing.T) {
	// Reset state
	resetForTest()

	err := Init(false)
	if err != nil {
		t.Fatalf("Init(false) failed: %v", err)
	}

	// These should be no-ops and not panic
	Log("test")
	Log("test", 123, "more")
	Logf("test %s", "fmt")
	Logf("test %d %s", 123, "fmt")
}

func TestInitWriter(t *testing.T) {
	resetForTest()
	t.Cleanup(resetForTest)

	var buf strings.Builder
	InitWriter(&buf)

	if !Enabled() {
		t.Fatal("Enabled() should return true after InitWriter with a writer")
	}

	LogError("could not reach server", os.ErrDeadlineExceeded)
	LogError("plain message", nil)

	out := buf.String()
	if !strings.Contains(out, "could not reach server: i/o timeout") {
		t.Errorf("expected error message in output, got %q", out)
	}
	if !strings.Contains(out, "plain message") {
		t.Errorf("expected plain message in output, got %q", out)
	}

	InitWriter(nil)
	if Enabled() {
		t.Error("Enabled() should return false after InitWriter(nil)")
	}
}

// resetForTest resets the package state for testing.
func resetForTest() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	enabled = false
	logger = nil
	activePath = ""
}
