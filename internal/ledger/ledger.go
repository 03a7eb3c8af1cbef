package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Store persists the set of clip identifiers already consumed by earlier runs.
// Implementations must treat a missing ledger as the empty set (cold start)
// and a corrupt ledger as an error: silently resetting usage history would
// resurface previously posted content.
type Store interface {
	Load(ctx context.Context) (map[string]bool, error)
	Record(ctx context.Context, id string) error
}

// FileStore keeps the ledger as a flat JSON array of identifiers on disk.
// Single-writer: concurrent runs against the same file are not supported.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Load(_ context.Context) (map[string]bool, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, fmt.Errorf("read ledger %s: %w", s.Path, err)
	}
	return decodeSet(data, s.Path)
}

// Record unions id into the persisted set. Recording the same identifier
// twice leaves exactly one entry.
func (s *FileStore) Record(ctx context.Context, id string) error {
	used, err := s.Load(ctx)
	if err != nil {
		return err
	}
	used[id] = true

	data, err := encodeSet(used)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.Path, data)
}

// writeFileAtomic replaces path via a sibling temp file and rename, so a
// crash mid-write can never leave a half-written ledger behind.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write ledger %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write ledger %s: %w", path, err)
	}
	return nil
}

// jsonStore is the slice of the S3 client the ledger needs.
type jsonStore interface {
	ReadJSON(ctx context.Context, key string, out any) (bool, error)
	WriteJSON(ctx context.Context, key string, v any) error
}

// S3Store keeps the same JSON array as a bucket object, for runners without
// a persistent filesystem.
type S3Store struct {
	store jsonStore
	key   string
}

func NewS3Store(store jsonStore, key string) *S3Store {
	return &S3Store{store: store, key: key}
}

func (s *S3Store) Load(ctx context.Context) (map[string]bool, error) {
	var ids []string
	found, err := s.store.ReadJSON(ctx, s.key, &ids)
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", s.key, err)
	}
	if !found {
		return map[string]bool{}, nil
	}
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		used[id] = true
	}
	return used, nil
}

func (s *S3Store) Record(ctx context.Context, id string) error {
	used, err := s.Load(ctx)
	if err != nil {
		return err
	}
	used[id] = true
	if err := s.store.WriteJSON(ctx, s.key, sortedIDs(used)); err != nil {
		return fmt.Errorf("write ledger %s: %w", s.key, err)
	}
	return nil
}

func decodeSet(data []byte, name string) (map[string]bool, error) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("ledger %s is corrupt: %w", name, err)
	}
	used := make(map[string]bool, len(ids))
	for _, id := range ids {
		used[id] = true
	}
	return used, nil
}

func encodeSet(used map[string]bool) ([]byte, error) {
	return json.Marshal(sortedIDs(used))
}

// sortedIDs keeps the persisted array stable across runs.
func sortedIDs(used map[string]bool) []string {
	ids := make([]string, 0, len(used))
	for id := range used {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
