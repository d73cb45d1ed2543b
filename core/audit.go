package core

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ScanLogLevel defines the verbosity of scan logging
type ScanLogLevel string

const (
	// ScanLogLevelMinimal logs only warnings and errors
	ScanLogLevelMinimal ScanLogLevel = "minimal"

	// ScanLogLevelStandard logs scan lifecycle events with moderate detail
	ScanLogLevelStandard ScanLogLevel = "standard"

	// ScanLogLevelVerbose logs everything including per-file events
	ScanLogLevelVerbose ScanLogLevel = "verbose"
)

// ScanLogSeverity defines the severity of scan log events
type ScanLogSeverity string

const (
	// SeverityInfo for normal operations
	SeverityInfo ScanLogSeverity = "info"

	// SeverityWarning for recoverable problems (skipped entries, unreadable files)
	SeverityWarning ScanLogSeverity = "warning"

	// SeverityError for fatal scan failures
	SeverityError ScanLogSeverity = "error"
)

// ScanEvent is one JSONL log entry emitted during analysis
type ScanEvent struct {
	ScanID    string          `json:"scan_id,omitempty"`
	Timestamp string          `json:"timestamp"`
	EventType string          `json:"event_type"`
	Severity  ScanLogSeverity `json:"severity"`

	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScanLogger writes scan events as JSONL with rotation and retention
type ScanLogger struct {
	mu            sync.Mutex
	logPath       string
	level         ScanLogLevel
	writer        io.Writer
	rotationSize  int64
	currentSize   int64
	logRetention  int
	initialized   bool
	enableConsole bool
}

// Global default logger
var defaultScanLogger *ScanLogger
var scanLoggerOnce sync.Once

// GetScanLogger returns the singleton scan logger instance
func GetScanLogger() *ScanLogger {
	scanLoggerOnce.Do(func() {
		// Default to the analysis log in the current directory
		defaultScanLogger = &ScanLogger{
			logPath:       "code_analysis.log",
			level:         ScanLogLevelStandard,
			rotationSize:  100 * 1024 * 1024,
			logRetention:  90,
			enableConsole: false,
		}
		defaultScanLogger.initialize()
	})

	return defaultScanLogger
}

// ConfigureScanLogger configures the scan logger with specific settings
func ConfigureScanLogger(path string, level ScanLogLevel, rotationSize int64, retention int, enableConsole bool) error {
	logger := GetScanLogger()

	logger.mu.Lock()
	defer logger.mu.Unlock()

	logger.logPath = path
	logger.level = level
	logger.rotationSize = rotationSize
	logger.logRetention = retention
	logger.enableConsole = enableConsole

	return logger.initialize()
}

// initialize the logger with current settings
func (l *ScanLogger) initialize() error {
	dir := filepath.Dir(l.logPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to get log file info: %w", err)
	}
	l.currentSize = info.Size()

	if l.enableConsole {
		l.writer = io.MultiWriter(f, os.Stderr)
	} else {
		l.writer = f
	}

	l.initialized = true
	return nil
}

// maybeRotateLog checks if log rotation is needed and performs it if so
func (l *ScanLogger) maybeRotateLog() error {
	if l.currentSize < l.rotationSize {
		return nil
	}

	if closer, ok := l.writer.(io.Closer); ok {
		closer.Close()
	}

	timestamp := time.Now().Format("20060102-150405")
	rotatedPath := fmt.Sprintf("%s.%s", l.logPath, timestamp)
	if err := os.Rename(l.logPath, rotatedPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	l.cleanupOldLogs()

	return l.initialize()
}

// cleanupOldLogs removes rotated files older than the retention period
func (l *ScanLogger) cleanupOldLogs() {
	dir := filepath.Dir(l.logPath)
	base := filepath.Base(l.logPath)

	cutoffTime := time.Now().AddDate(0, 0, -l.logRetention)

	files, err := filepath.Glob(filepath.Join(dir, base+".*"))
	if err != nil {
		return
	}

	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoffTime) {
			os.Remove(file)
		}
	}
}

// LogEvent logs a scan event
func (l *ScanLogger) LogEvent(event ScanEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.initialized {
		if err := l.initialize(); err != nil {
			return err
		}
	}

	if err := l.maybeRotateLog(); err != nil {
		return err
	}

	if event.Timestamp == "" {
		event.Timestamp = time.Now().Format(time.RFC3339Nano)
	}
	if event.Severity == "" {
		event.Severity = SeverityInfo
	}

	// Level filtering: minimal keeps warnings and errors only; standard
	// drops the chatty per-file events emitted at verbose level.
	if l.level == ScanLogLevelMinimal && event.Severity == SeverityInfo {
		return nil
	}
	if l.level != ScanLogLevelVerbose && event.EventType == "file_analyzed" {
		return nil
	}

	entry, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}

	n, err := fmt.Fprintln(l.writer, string(entry))
	if err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}
	l.currentSize += int64(n)

	return nil
}

// LogScanEvent is a helper to log an event through the singleton logger
func LogScanEvent(scanID, eventType string, severity ScanLogSeverity, metadata map[string]string) error {
	return GetScanLogger().LogEvent(ScanEvent{
		ScanID:    scanID,
		EventType: eventType,
		Severity:  severity,
		Metadata:  metadata,
	})
}
