// Package progress writes the append-only audit trail of a pipeline run.
package progress

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// TimestampLayout is Year-AbbreviatedMonth-Day-Hour:Minute:Second (24h)
const TimestampLayout = "2006-Jan-02-15:04:05"

// Logger records one progress message
type Logger interface {
	Log(message string) error
}

// FileLogger appends "<timestamp>,<message>" lines to a file.
// The file is opened and closed on every call; no handle outlives a Log.
type FileLogger struct {
	path   string
	now    func() time.Time
	logger *zap.Logger
}

// New creates a file logger for path
func New(path string) *FileLogger {
	return &FileLogger{
		path:   path,
		now:    time.Now,
		logger: zap.L().Named("progress"),
	}
}

// WithClock replaces the clock used for timestamps
func (l *FileLogger) WithClock(now func() time.Time) *FileLogger {
	l.now = now
	return l
}

// Path returns the log file location
func (l *FileLogger) Path() string { return l.path }

// Log appends one timestamped line
func (l *FileLogger) Log(message string) error {
	timestamp := l.now().Format(TimestampLayout)

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open progress log: %w", err)
	}

	if _, err := fmt.Fprintf(file, "%s,%s\n", timestamp, message); err != nil {
		file.Close()
		return fmt.Errorf("failed to write progress log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close progress log: %w", err)
	}

	l.logger.Info(message, zap.String("timestamp", timestamp))
	return nil
}
