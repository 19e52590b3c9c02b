// Package diskguard refuses to write files the disk cannot hold and blocks
// on operator acknowledgement until space is freed.
package diskguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/shirou/gopsutil/v4/disk"
)

var ErrInsufficientSpace = errors.New("insufficient disk space")

// Notifier tells an operator that the disk is full and returns once the
// operator asked for a retry.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// FreeSpaceFunc reports the free bytes of the filesystem holding path.
type FreeSpaceFunc func(ctx context.Context, path string) (uint64, error)

type Guard struct {
	notifier  Notifier
	freeSpace FreeSpaceFunc
	logger    *slog.Logger
}

type Option func(*Guard)

func WithFreeSpace(fn FreeSpaceFunc) Option {
	return func(g *Guard) { g.freeSpace = fn }
}

// New creates a guard. A nil notifier makes a full disk a hard error.
func New(notifier Notifier, logger *slog.Logger, opts ...Option) *Guard {
	g := &Guard{
		notifier:  notifier,
		freeSpace: diskFree,
		logger:    logger.With("component", "diskguard"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func diskFree(ctx context.Context, path string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}

// Ensure waits until the filesystem of dir has more than required free bytes.
func (g *Guard) Ensure(ctx context.Context, dir string, required int) error {
	for {
		free, err := g.freeSpace(ctx, dir)
		if err != nil {
			return fmt.Errorf("check disk space: %w", err)
		}
		if free > uint64(required) {
			return nil
		}

		msg := fmt.Sprintf("not enough space in %s: need %d bytes, %d free", dir, required, free)
		if err := g.wait(ctx, msg); err != nil {
			return err
		}
	}
}

// WriteFile writes data to path after checking free space. The file is
// replaced atomically so a failed write never truncates it.
func (g *Guard) WriteFile(ctx context.Context, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	for {
		if err := g.Ensure(ctx, dir, len(data)); err != nil {
			return err
		}

		err := writeReplace(path, data)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.ENOSPC) {
			return fmt.Errorf("write %s: %w", path, err)
		}

		if err := g.wait(ctx, fmt.Sprintf("disk full while writing %s", path)); err != nil {
			return err
		}
	}
}

func (g *Guard) wait(ctx context.Context, msg string) error {
	g.logger.Error("disk space exhausted", "detail", msg)

	if g.notifier == nil {
		return fmt.Errorf("%s: %w", msg, ErrInsufficientSpace)
	}
	if err := g.notifier.Notify(ctx, msg); err != nil {
		return fmt.Errorf("notify operator: %w", err)
	}

	g.logger.Info("retrying after operator acknowledgement")
	return ctx.Err()
}

func writeReplace(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
