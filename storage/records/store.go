// Package records implements the record store: each collection is kept as one JSON document on a Backend.
package records

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

// Backend persists raw collection documents.
type Backend interface {
	// Load returns the document of the collection. found is false if it was never saved.
	Load(ctx context.Context, collection string) (doc []byte, found bool, err error)
	Save(ctx context.Context, collection string, doc []byte) error
}

// Store is a core.RecordStore over a Backend. It is safe for concurrent use:
// mutations are serialized and reads always return copies.
type Store struct {
	backend Backend
	mu      sync.Mutex
	newID   func() string
}

var _ core.RecordStore = (*Store)(nil)

func NewStore(backend Backend) *Store {
	return &Store{
		backend: backend,
		newID:   func() string { return uuid.New().String() },
	}
}

func (s *Store) load(ctx context.Context, collection string) ([]core.Record, bool, error) {
	doc, found, err := s.backend.Load(ctx, collection)
	if err != nil {
		return nil, false, errors.Wrapf(err, "loading %s", collection)
	}
	records := make([]core.Record, 0)
	if !found || len(doc) == 0 {
		return records, found, nil
	}
	if err := json.Unmarshal(doc, &records); err != nil {
		return nil, found, errors.Wrapf(err, "decoding %s", collection)
	}
	return records, found, nil
}

func (s *Store) save(ctx context.Context, collection string, records []core.Record) error {
	doc, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", collection)
	}
	return errors.Wrapf(s.backend.Save(ctx, collection, doc), "saving %s", collection)
}

func (s *Store) Get(ctx context.Context, collection string) ([]core.Record, error) {
	records, _, err := s.load(ctx, collection)
	return records, err
}

func (s *Store) Add(ctx context.Context, collection string, fields core.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.load(ctx, collection)
	if err != nil {
		return "", err
	}
	rec := fields.Clone()
	id := rec.ID()
	if id == "" {
		id = s.newID()
		rec["id"] = id
	}
	records = append(records, rec)
	if err := s.save(ctx, collection, records); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Replace(ctx context.Context, collection, id string, partial core.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.load(ctx, collection)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.ID() != id {
			continue
		}
		for k, v := range partial {
			if k == "id" {
				continue // ids are immutable
			}
			rec[k] = v
		}
		return true, s.save(ctx, collection, records)
	}
	return false, nil
}

func (s *Store) Remove(ctx context.Context, collection, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, _, err := s.load(ctx, collection)
	if err != nil {
		return false, err
	}
	kept := make([]core.Record, 0, len(records))
	for _, rec := range records {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return true, nil
	}
	return true, s.save(ctx, collection, kept)
}

func (s *Store) Seed(ctx context.Context, collection string, records []core.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a saved collection is never seeded again, even once emptied
	_, found, err := s.load(ctx, collection)
	if err != nil {
		return false, err
	}
	if found {
		return false, nil
	}
	seeded := make([]core.Record, 0, len(records))
	for _, rec := range records {
		rec = rec.Clone()
		if rec.ID() == "" {
			rec["id"] = s.newID()
		}
		seeded = append(seeded, rec)
	}
	if err := s.save(ctx, collection, seeded); err != nil {
		return false, err
	}
	return true, nil
}
