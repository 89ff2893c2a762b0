// Package pgdb keeps collection documents in the `collections` table of a Postgres database.
package pgdb

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/ratiba/core"
)

const (
	loadQuery = `SELECT doc FROM collections WHERE name = $1`
	saveQuery = `INSERT INTO collections (name, doc, updated_at) VALUES ($1, $2, now())
ON CONFLICT (name) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`
)

type DB struct {
	db *sqlx.DB
}

func NewDB(db *sqlx.DB) *DB {
	return &DB{db: db}
}

func (db *DB) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	var doc []byte
	if err := db.db.GetContext(ctx, &doc, loadQuery, collection); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(connErr(err), "selecting collection %s", collection)
	}
	return doc, true, nil
}

func (db *DB) Save(ctx context.Context, collection string, doc []byte) error {
	if _, err := db.db.ExecContext(ctx, saveQuery, collection, string(doc)); err != nil {
		return errors.Wrapf(connErr(err), "upserting collection %s", collection)
	}
	return nil
}

// connErr turns a lost connection into a shutdown error.
func connErr(err error) error {
	if errors.Is(err, sql.ErrConnDone) {
		return core.NewShutdownError(err)
	}
	return err
}
