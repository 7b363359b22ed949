package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup builds the process logger. Text goes to stderr; when logFile is
// non-empty a JSON stream additionally goes to a size-rotated file. The
// returned closer flushes and closes the file sink and is safe to call
// when no file sink was configured.
func Setup(levelName, logFile string) (*slog.Logger, func() error, error) {
	level, ok := ParseLevel(levelName)
	if !ok {
		return nil, nil, fmt.Errorf("unknown log level %q", levelName)
	}

	opts := &slog.HandlerOptions{Level: level}
	stderrHandler := slog.NewTextHandler(os.Stderr, opts)

	if logFile == "" {
		return slog.New(stderrHandler), func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    20, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
	}

	handler := slogmulti.Fanout(
		stderrHandler,
		slog.NewJSONHandler(rotator, opts),
	)
	return slog.New(handler), rotator.Close, nil
}

// ParseLevel maps a level name to its slog level. Unknown names report
// ok=false and default to info.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
