package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	day := time.Date(2026, time.March, 7, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "debug_07_03_2026.log", FileName(slog.LevelDebug, day))
	assert.Equal(t, "log_07_03_2026.log", FileName(slog.LevelInfo, day))
	assert.Equal(t, "warn_07_03_2026.log", FileName(slog.LevelWarn, day))
	assert.Equal(t, "error_07_03_2026.log", FileName(slog.LevelError, day))
	assert.Equal(t, "error_07_03_2026.log", FileName(slog.LevelError+4, day))
}

func TestDailyFileHandler_SplitsByLevelAndDay(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	h, err := NewDailyFileHandler(dir, &slog.HandlerOptions{Level: slog.LevelDebug})
	require.NoError(t, err)

	ctx := context.Background()
	day1 := time.Date(2026, time.March, 7, 10, 0, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	withDB := h.WithAttrs([]slog.Attr{slog.String("database", "main")})
	for _, r := range []slog.Record{
		slog.NewRecord(day1, slog.LevelInfo, "statement executed", 0),
		slog.NewRecord(day1, slog.LevelError, "statement failed", 0),
		slog.NewRecord(day1, slog.LevelInfo, "connected", 0),
		slog.NewRecord(day2, slog.LevelWarn, "slow statement", 0),
	} {
		require.NoError(t, withDB.Handle(ctx, r))
	}

	info, err := os.ReadFile(filepath.Join(dir, "log_07_03_2026.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), `msg="statement executed" database=main`)
	assert.Contains(t, string(info), "msg=connected")
	assert.NotContains(t, string(info), "statement failed")

	errs, err := os.ReadFile(filepath.Join(dir, "error_07_03_2026.log"))
	require.NoError(t, err)
	assert.Contains(t, string(errs), `msg="statement failed"`)

	_, err = os.Stat(filepath.Join(dir, "warn_08_03_2026.log"))
	assert.NoError(t, err)
}

func TestDailyFileHandler_ThroughSlogAdapter(t *testing.T) {
	dir := t.TempDir()
	h, err := NewDailyFileHandler(dir, nil)
	require.NoError(t, err)

	log := NewSlogAdapter(slog.New(h))
	log.Debug("hidden below the default level")
	log.Warn("slow statement", "duration_ms", 250)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Regexp(t, `^warn_\d{2}_\d{2}_\d{4}\.log$`, entries[0].Name())
}
