// Package redisdb keeps collection documents in Redis, one string key per collection.
package redisdb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/ratiba/core"
)

type DB struct {
	client *redis.Client
	prefix string
}

// Open connects to the Redis server and checks that it answers.
func Open(ctx context.Context, conf core.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return client, nil
}

func NewDB(client *redis.Client, keyPrefix string) *DB {
	return &DB{client: client, prefix: keyPrefix}
}

func (db *DB) key(collection string) string {
	return db.prefix + collection
}

func (db *DB) Load(ctx context.Context, collection string) ([]byte, bool, error) {
	doc, err := db.client.Get(ctx, db.key(collection)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(connErr(err), "GET %s", db.key(collection))
	}
	return doc, true, nil
}

func (db *DB) Save(ctx context.Context, collection string, doc []byte) error {
	return errors.Wrapf(connErr(db.client.Set(ctx, db.key(collection), doc, 0).Err()), "SET %s", db.key(collection))
}

// connErr turns a closed client into a shutdown error.
func connErr(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return core.NewShutdownError(err)
	}
	return err
}
