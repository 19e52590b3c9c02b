package scheduler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"content_syncer/internal/storage/diskguard"
	"content_syncer/internal/storage/filelock"
	"content_syncer/internal/storage/jsonfile"
)

type stateDocument struct {
	Jobs []json.RawMessage `json:"jobs"`
}

type entryID struct {
	ID string `json:"id"`
}

// FileStateStore keeps job records in one JSON document. Every save merges
// the given records into the file, so jobs registered by other processes
// survive.
type FileStateStore struct {
	path   string
	locker *filelock.Locker
	guard  *diskguard.Guard
	logger *slog.Logger
}

func NewFileStateStore(path string, locker *filelock.Locker, guard *diskguard.Guard, logger *slog.Logger) *FileStateStore {
	return &FileStateStore{
		path:   path,
		locker: locker,
		guard:  guard,
		logger: logger.With("component", "scheduler_state", "path", path),
	}
}

func (f *FileStateStore) Load(ctx context.Context, id string) (*JobRecord, error) {
	var entries []json.RawMessage
	err := f.locker.With(ctx, f.path, func() error {
		entries = f.read()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load scheduler state: %w", err)
	}

	for _, raw := range entries {
		if idOf(raw) != id {
			continue
		}
		var rec JobRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			f.logger.Warn("failed to decode persisted job", "job_id", id, "error", err)
			return nil, nil
		}
		return &rec, nil
	}
	return nil, nil
}

// LoadAll returns every record this process can decode. Entries it cannot
// decode are skipped here but kept in the file.
func (f *FileStateStore) LoadAll(ctx context.Context) ([]JobRecord, error) {
	var entries []json.RawMessage
	err := f.locker.With(ctx, f.path, func() error {
		entries = f.read()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load scheduler state: %w", err)
	}

	records := make([]JobRecord, 0, len(entries))
	for _, raw := range entries {
		var rec JobRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			f.logger.Warn("skipping undecodable persisted job", "job_id", idOf(raw), "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (f *FileStateStore) Save(ctx context.Context, records []JobRecord) error {
	err := f.locker.With(ctx, f.path, func() error {
		merged, err := mergeEntries(f.read(), records)
		if err != nil {
			return err
		}

		data, err := jsonfile.Encode(stateDocument{Jobs: merged})
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		return f.guard.WriteFile(ctx, f.path, data)
	})
	if err != nil {
		return fmt.Errorf("save scheduler state: %w", err)
	}
	return nil
}

// read returns the persisted entries undecoded. An unreadable document is
// logged and treated as empty.
func (f *FileStateStore) read() []json.RawMessage {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		f.logger.Error("failed to read scheduler state", "error", err)
		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		f.logger.Warn("scheduler state file is empty")
		return nil
	}

	var doc stateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		f.logger.Error("failed to decode scheduler state", "error", err)
		return nil
	}
	return doc.Jobs
}

// idOf returns the id of a raw entry, or "" when it has none.
func idOf(raw json.RawMessage) string {
	var e entryID
	if err := json.Unmarshal(raw, &e); err != nil {
		return ""
	}
	return e.ID
}

// mergeEntries replaces existing entries by ID and appends unknown ones,
// keeping the order of the existing document. Entries not named in updated
// are written back as they were read.
func mergeEntries(existing []json.RawMessage, updated []JobRecord) ([]json.RawMessage, error) {
	index := make(map[string]int, len(existing))
	merged := make([]json.RawMessage, 0, len(existing)+len(updated))
	for _, raw := range existing {
		id := idOf(raw)
		if id == "" {
			merged = append(merged, raw)
			continue
		}
		if i, ok := index[id]; ok {
			merged[i] = raw
			continue
		}
		index[id] = len(merged)
		merged = append(merged, raw)
	}

	for _, rec := range updated {
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("encode job %s: %w", rec.ID, err)
		}
		if i, ok := index[rec.ID]; ok {
			merged[i] = raw
			continue
		}
		index[rec.ID] = len(merged)
		merged = append(merged, raw)
	}
	return merged, nil
}
