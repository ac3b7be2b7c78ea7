// Package file implements the scanner's persistence interfaces on a single
// JSON document on disk. It is the zero-dependency alternative to the Redis
// backend, suited to one-shot CLI use.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/logger"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/profile"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// document is the on-disk layout of the state file.
type document struct {
	OldestSigs map[string]scan.Fact        `json:"oldestSigs"`
	Profiles   map[string]profile.Settings `json:"profiles"`
	Presets    map[string]string           `json:"presets"`
}

// Store is a file-backed implementation of scan.FactStorage and
// profile.Storage. Every mutation is written through to disk immediately.
type Store struct {
	mu   sync.Mutex
	path string
	doc  document
}

var (
	_ scan.FactStorage = (*Store)(nil)
	_ profile.Storage  = (*Store)(nil)
)

// NewStore loads the state file at path, starting from an empty state if the
// file is missing. A corrupt file is logged and discarded rather than
// aborting: the cache is a heuristic, losing it only costs extra lookups.
func NewStore(ctx context.Context, path string) *Store {
	store := &Store{
		path: path,
		doc: document{
			OldestSigs: make(map[string]scan.Fact),
			Profiles:   make(map[string]profile.Settings),
			Presets:    make(map[string]string),
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn(ctx, "failed to read state file, starting empty", "path", path, "error", err)
		}
		return store
	}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Warn(ctx, "state file is corrupt, starting empty", "path", path, "error", err)
		return store
	}

	if doc.OldestSigs != nil {
		store.doc.OldestSigs = doc.OldestSigs
	}
	if doc.Profiles != nil {
		store.doc.Profiles = doc.Profiles
	}
	if doc.Presets != nil {
		store.doc.Presets = doc.Presets
	}

	return store
}

// persist writes the full document to disk. Callers must hold mu.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}

	return nil
}

func (s *Store) GetFact(_ context.Context, address string) (scan.Fact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact, ok := s.doc.OldestSigs[address]
	return fact, ok, nil
}

func (s *Store) PutFact(_ context.Context, address string, fact scan.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.OldestSigs[address] = fact
	return s.persist()
}

func (s *Store) InvalidateFact(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.OldestSigs[address]; !ok {
		return nil
	}

	delete(s.doc.OldestSigs, address)
	return s.persist()
}

func (s *Store) InvalidateAllFacts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.OldestSigs) == 0 {
		return nil
	}

	s.doc.OldestSigs = make(map[string]scan.Fact)
	return s.persist()
}

func (s *Store) GetSettings(_ context.Context, name string) (profile.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings, ok := s.doc.Profiles[name]
	return settings, ok, nil
}

func (s *Store) PutSettings(_ context.Context, name string, settings profile.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Profiles[name] = settings
	return s.persist()
}

func (s *Store) GetPresets(_ context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.doc.Presets))
	for name, address := range s.doc.Presets {
		out[name] = address
	}

	return out, nil
}

func (s *Store) PutPreset(_ context.Context, name, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Presets[name] = address
	return s.persist()
}

func (s *Store) DeletePreset(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.doc.Presets[name]; !ok {
		return false, nil
	}

	delete(s.doc.Presets, name)
	return true, s.persist()
}
