package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Log is the process-wide logger. It writes to stdout until SetOutputFile
// adds a log file.
var Log *slog.Logger

func init() {
	Log = newLogger(os.Stdout)
}

// SetOutputFile makes the logger write to both stdout and the given file.
func SetOutputFile(path string) (io.Closer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	Log = newLogger(io.MultiWriter(os.Stdout, file))
	return file, nil
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(handler)
}
