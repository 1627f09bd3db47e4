package main

import (
	"elorank/internal/config"
	"elorank/internal/util"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsURL = "file://resources/migrations"

// migrateDatabase applies ("up", the default) or reverts ("down") the
// migrations on the configured database.
func migrateDatabase(direction string) (err error) {
	conf, err := config.NewFromUserConfigDir()
	if err != nil {
		return err
	}

	m, err := migrate.New(migrationsURL, "sqlite3://"+conf.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = util.ConcatErrors([]error{srcErr, dbErr})
		}
	}()

	switch direction {
	case "", "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("info: %s is up to date", conf.DatabasePath)
		return nil
	}

	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Printf("info: %s has no migration applied", conf.DatabasePath)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("info: %s migrated to version %d (dirty: %t)", conf.DatabasePath, version, dirty)

	return nil
}
