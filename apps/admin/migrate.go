package main

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/trezcool/ratiba/storage/database"
	"github.com/trezcool/ratiba/storage/records"
)

var gooseRunFunc = goose.Run // mockable

// migrate runs a goose command against the embedded migrations.
func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, database.MigrationsDir, arguments...)
}

func (cli *commandLine) seed() error {
	seeded, err := records.SeedDefaults(context.Background(), cli.store)
	if err != nil {
		return err
	}
	if len(seeded) == 0 {
		fmt.Fprintln(cli.out, "nothing to seed")
		return nil
	}
	for _, collection := range seeded {
		fmt.Fprintf(cli.out, "seeded %s\n", collection)
	}
	return nil
}
