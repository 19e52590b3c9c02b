// Package jsonfile keeps record lists as indented JSON arrays on disk, one
// file per logical store, each guarded by a lock file.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"content_syncer/internal/domain"
	"content_syncer/internal/storage/diskguard"
	"content_syncer/internal/storage/filelock"
)

var ErrCorrupt = errors.New("corrupt record file")

type Layout struct {
	RawDir      string
	ScrapersDir string
	FilteredDir string
	UploadedDir string
}

// Path maps a store key to its file.
func (l Layout) Path(key domain.StoreKey) (string, error) {
	day := key.Day.Format(domain.DateLayout)

	switch key.Kind {
	case domain.StoreDaily:
		return filepath.Join(l.RawDir, "DailyScrapped+"+day+".json"), nil
	case domain.StoreSite:
		if key.Site == "" {
			return "", errors.New("site store requires a site name")
		}
		return filepath.Join(l.ScrapersDir, key.Site+".json"), nil
	case domain.StoreFiltered:
		return filepath.Join(l.FilteredDir, "Filtered Data+"+day+".json"), nil
	case domain.StoreUploaded:
		return filepath.Join(l.UploadedDir, "Uploaded+"+day+".json"), nil
	default:
		return "", fmt.Errorf("unknown store kind %q", key.Kind)
	}
}

type Store struct {
	layout Layout
	locker *filelock.Locker
	guard  *diskguard.Guard
	logger *slog.Logger
}

func NewStore(layout Layout, locker *filelock.Locker, guard *diskguard.Guard, logger *slog.Logger) *Store {
	return &Store{
		layout: layout,
		locker: locker,
		guard:  guard,
		logger: logger.With("component", "jsonfile"),
	}
}

func (s *Store) Read(ctx context.Context, key domain.StoreKey) ([]domain.Record, error) {
	path, err := s.layout.Path(key)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	err = s.locker.With(ctx, path, func() error {
		records, err = readFile(path)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return records, nil
}

// Upsert replaces matching records in place and puts new ones in front.
func (s *Store) Upsert(ctx context.Context, key domain.StoreKey, records []domain.Record) error {
	path, err := s.layout.Path(key)
	if err != nil {
		return err
	}

	err = s.locker.With(ctx, path, func() error {
		existing, err := readFile(path)
		if err != nil {
			return err
		}
		return s.writeFile(ctx, path, domain.UpsertRecords(existing, records))
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}

	s.logger.Debug("records upserted", "store", key.String(), "count", len(records))
	return nil
}

func (s *Store) Write(ctx context.Context, key domain.StoreKey, records []domain.Record) error {
	path, err := s.layout.Path(key)
	if err != nil {
		return err
	}

	err = s.locker.With(ctx, path, func() error {
		return s.writeFile(ctx, path, records)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func readFile(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.Record{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Record{}, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, filepath.Base(path), err)
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, nil
}

func (s *Store) writeFile(ctx context.Context, path string, records []domain.Record) error {
	if records == nil {
		records = []domain.Record{}
	}
	data, err := Encode(records)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return s.guard.WriteFile(ctx, path, data)
}

// Encode renders v as four-space indented JSON without HTML escaping.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WithTransaction runs fn directly. Each file write is atomic on its own
// and there is nothing to roll back across files.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
