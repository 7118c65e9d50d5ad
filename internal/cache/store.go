// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/RubixDev/carpet-database/internal/atomicfile"
	"github.com/RubixDev/carpet-database/internal/modspec"
)

type (
	// Record is the on-disk form of one cache entry.
	Record struct {
		Hash  uint64            `json:"hash"`
		Rules []modspec.RawRule `json:"rules"`
	}

	// Store reads and writes records under a data directory.
	Store struct {
		dir    string
		logger *log.Logger
	}
)

// NewStore creates a store rooted at dir. A nil logger discards diagnostics.
func NewStore(dir string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{dir: dir, logger: logger.WithPrefix("cache")}
}

// Dir returns the data directory of the store.
func (s *Store) Dir() string { return s.dir }

// Path returns the record path of slug at major.
func (s *Store) Path(slug string, major modspec.MajorVersion) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", slug, major))
}

// Lookup returns the cached rules for slug at major if the stored record was
// produced by the configuration with fingerprint fp.
func (s *Store) Lookup(slug string, major modspec.MajorVersion, fp uint64) ([]modspec.RawRule, bool) {
	path := s.Path(slug, major)
	rec, err := s.Read(slug, major)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Debug("no cache record", "path", path)
		return nil, false
	case err != nil:
		s.logger.Debug("unreadable cache record", "path", path, "err", err)
		return nil, false
	case rec.Hash != fp:
		s.logger.Debug("fingerprint changed", "path", path, "stored", rec.Hash, "current", fp)
		return nil, false
	case len(rec.Rules) == 0:
		s.logger.Debug("cache record has no rules", "path", path)
		return nil, false
	}
	return rec.Rules, true
}

// Read loads the raw record of slug at major without validating it.
func (s *Store) Read(slug string, major modspec.MajorVersion) (*Record, error) {
	data, err := os.ReadFile(s.Path(slug, major))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}
	for i := range rec.Rules {
		rec.Rules[i].Normalize()
	}
	return &rec, nil
}

// Save writes the record of slug at major. The file is written to a temporary
// sibling first and renamed into place, so readers never see a partial record.
func (s *Store) Save(slug string, major modspec.MajorVersion, fp uint64, rules []modspec.RawRule) error {
	data, err := json.Marshal(Record{Hash: fp, Rules: rules})
	if err != nil {
		return fmt.Errorf("encode cache record: %w", err)
	}
	path := s.Path(slug, major)
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("save cache record: %w", err)
	}
	s.logger.Debug("saved cache record", "path", path, "rules", len(rules))
	return nil
}
