// Package docstore loads the immutable document store artifact written
// by the index builder. Records are read-only for the process lifetime;
// a rebuild replaces the file wholesale and requires a reload.
package docstore

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"fundfaq/internal/domain"
)

// Store holds the corpus records and an id lookup over them.
type Store struct {
	records []domain.Record
	byID    map[string]domain.Record
}

// New builds a store from records, rejecting duplicate or missing ids.
func New(records []domain.Record) (*Store, error) {
	byID := make(map[string]domain.Record, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.Errorf("record %d has no id", i)
		}
		if _, ok := byID[r.ID]; ok {
			return nil, errors.Errorf("duplicate record id %q", r.ID)
		}
		byID[r.ID] = r
	}
	return &Store{records: records, byID: byID}, nil
}

// Load reads a JSON document store file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read document store")
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "decode document store")
	}
	return New(records)
}

// Save writes records as the document store artifact, creating
// directories as needed. Used by the index builder.
func Save(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (domain.Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// Len reports the number of records in the corpus.
func (s *Store) Len() int { return len(s.records) }

// Records returns the corpus in store order.
func (s *Store) Records() []domain.Record { return s.records }
