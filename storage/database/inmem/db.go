// Package inmemdb keeps collection documents in process memory.
package inmemdb

import (
	"context"
	"sync"
)

type DB struct {
	mutex sync.RWMutex
	docs  map[string][]byte
}

func NewDB() *DB {
	return &DB{docs: make(map[string][]byte)}
}

func (db *DB) Load(_ context.Context, collection string) ([]byte, bool, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	doc, ok := db.docs[collection]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), doc...), true, nil
}

func (db *DB) Save(_ context.Context, collection string, doc []byte) error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.docs[collection] = append([]byte(nil), doc...)
	return nil
}

// Flush drops every collection.
func (db *DB) Flush() {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	db.docs = make(map[string][]byte)
}
