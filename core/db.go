package core

import "context"

// Record collections
const (
	CollectionUsers    = "users"
	CollectionTeachers = "teachers"
	CollectionClasses  = "classes"
)

type (
	// Record is one unstructured entry of a collection. Every record carries a string "id" field.
	Record map[string]interface{}

	// RecordStore maps a collection name to an ordered sequence of records.
	RecordStore interface {
		// Get returns a copy of all records of the collection, in insertion order.
		Get(ctx context.Context, collection string) ([]Record, error)
		// Add appends a record and returns its id. An id is generated unless fields["id"] is set.
		Add(ctx context.Context, collection string, fields Record) (string, error)
		// Replace merges `partial` over the record with the given id. It reports false if there is no such record.
		Replace(ctx context.Context, collection, id string, partial Record) (bool, error)
		// Remove deletes the record with the given id. Removing a missing id still reports true.
		Remove(ctx context.Context, collection, id string) (bool, error)
		// Seed writes `records` only if the collection was never saved. An emptied collection is not seeded again.
		// It reports whether anything was written.
		Seed(ctx context.Context, collection string, records []Record) (bool, error)
	}
)

// ID returns the record's id, or "" if it has none.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
