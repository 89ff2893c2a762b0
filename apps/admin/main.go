package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/trezcool/ratiba/core"
	"github.com/trezcool/ratiba/storage/database"
	inmemdb "github.com/trezcool/ratiba/storage/database/inmem"
	pgdb "github.com/trezcool/ratiba/storage/database/postgres"
	redisdb "github.com/trezcool/ratiba/storage/database/redis"
	"github.com/trezcool/ratiba/storage/records"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()
	ctx := context.Background()

	// set up the store backend
	var (
		backend records.Backend
		db      *sql.DB
	)
	switch conf.Store.Engine {
	case core.StoreRedis:
		client, err := redisdb.Open(ctx, conf.Redis)
		errAndDie(err)
		defer client.Close()
		backend = redisdb.NewDB(client, conf.Redis.KeyPrefix)
	case core.StorePostgres:
		sqlxDB, err := database.Open(ctx, conf.Database)
		errAndDie(err)
		defer sqlxDB.Close()
		backend = pgdb.NewDB(sqlxDB)
		db = sqlxDB.DB
	default:
		// changes are lost on exit: only useful to preview the seeded timetable
		backend = inmemdb.NewDB()
	}
	store := records.NewStore(backend)
	if conf.Store.Engine == core.StoreMemory && conf.Store.Seed {
		_, err := records.SeedDefaults(ctx, store)
		errAndDie(err)
	}

	// start CLI
	cli := commandLine{
		db:       db,
		store:    store,
		usrRepo:  records.NewUserRepository(store),
		teachers: records.NewTeacherRepository(store),
		sessions: records.NewSessionRepository(store),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
