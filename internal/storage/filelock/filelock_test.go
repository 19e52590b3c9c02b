package filelock

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWith_RunsOperation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	locker := New(Config{}, testLogger())

	called := false
	err := locker.With(context.Background(), path, func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestWith_ReturnsOperationError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	locker := New(Config{}, testLogger())
	opErr := errors.New("boom")

	err := locker.With(context.Background(), path, func() error { return opErr })

	assert.ErrorIs(t, err, opErr)
}

func TestWith_TimesOutWhenHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	holder := flock.New(path + ".lock")
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer holder.Unlock()

	locker := New(Config{
		Attempts: 2,
		Timeout:  20 * time.Millisecond,
		Backoff:  0,
		Poll:     5 * time.Millisecond,
	}, testLogger())

	called := false
	err = locker.With(context.Background(), path, func() error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrLockTimeout)
	assert.False(t, called)
}
