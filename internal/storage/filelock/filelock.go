// Package filelock serialises access to shared files across processes with
// advisory lock files.
package filelock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

var ErrLockTimeout = errors.New("lock timeout")

type Config struct {
	Attempts int
	Timeout  time.Duration
	Backoff  time.Duration
	Poll     time.Duration
}

// DefaultConfig gives 5 attempts of 10s each, 5s apart.
func DefaultConfig() Config {
	return Config{
		Attempts: 5,
		Timeout:  10 * time.Second,
		Backoff:  5 * time.Second,
		Poll:     100 * time.Millisecond,
	}
}

type Locker struct {
	config Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Locker {
	def := DefaultConfig()
	if cfg.Attempts <= 0 {
		cfg.Attempts = def.Attempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Backoff < 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.Poll <= 0 {
		cfg.Poll = def.Poll
	}
	return &Locker{config: cfg, logger: logger}
}

// With runs fn while holding <path>.lock. It returns ErrLockTimeout when the
// lock cannot be taken within the configured attempts.
func (l *Locker) With(ctx context.Context, path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path + ".lock")

	for attempt := 1; attempt <= l.config.Attempts; attempt++ {
		locked, err := l.tryLock(ctx, lock)
		if locked {
			defer func() {
				if err := lock.Unlock(); err != nil {
					l.logger.Warn("failed to release lock", "path", path, "error", err)
				}
			}()
			return fn()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		l.logger.Warn("lock attempt failed",
			"path", path,
			"attempt", attempt,
			"max_attempts", l.config.Attempts,
			"error", err,
		)

		if attempt == l.config.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.config.Backoff):
		}
	}

	return fmt.Errorf("acquire %s after %d attempts: %w", path, l.config.Attempts, ErrLockTimeout)
}

func (l *Locker) tryLock(ctx context.Context, lock *flock.Flock) (bool, error) {
	lockCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
	defer cancel()

	return lock.TryLockContext(lockCtx, l.config.Poll)
}
