package logger

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// DailyFileHandler is a slog.Handler that appends each record to a file named
// after its level and day, <level>_DD_MM_YYYY.log, inside one directory.
// Info records go to the "log" file; the others to "debug", "warn" and
// "error". Records are formatted by slog's text handler.
type DailyFileHandler struct {
	mu    *sync.Mutex
	out   *dailyWriter
	inner slog.Handler
}

// NewDailyFileHandler creates dir if needed and returns a handler writing into
// it. opts is passed to the underlying text handler.
func NewDailyFileHandler(dir string, opts *slog.HandlerOptions) (*DailyFileHandler, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	out := &dailyWriter{dir: dir}
	return &DailyFileHandler{
		mu:    &sync.Mutex{},
		out:   out,
		inner: slog.NewTextHandler(out, opts),
	}, nil
}

// Enabled implements slog.Handler.
func (h *DailyFileHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *DailyFileHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	day := r.Time
	if day.IsZero() {
		day = time.Now()
	}
	h.out.name = FileName(r.Level, day)
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *DailyFileHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DailyFileHandler{mu: h.mu, out: h.out, inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *DailyFileHandler) WithGroup(name string) slog.Handler {
	return &DailyFileHandler{mu: h.mu, out: h.out, inner: h.inner.WithGroup(name)}
}

// FileName returns the file a record at level and t is written to.
func FileName(level slog.Level, t time.Time) string {
	return levelFileName(level) + "_" + t.Format("02_01_2006") + ".log"
}

func levelFileName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warn"
	case level >= slog.LevelInfo:
		return "log"
	default:
		return "debug"
	}
}

// dailyWriter appends to dir/name, opening the file per write. The text
// handler issues one Write per record; the handler's mutex guards name.
type dailyWriter struct {
	dir  string
	name string
}

func (w *dailyWriter) Write(p []byte) (int, error) {
	f, err := os.OpenFile(filepath.Join(w.dir, w.name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return 0, err
	}
	n, werr := f.Write(p)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	return n, werr
}
