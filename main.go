package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
)

// Version holds the build-time version string.
var Version = "unknown" // nolint:gochecknoglobals

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("error: unable to load .env: %s", err)
	}

	flag.Parse()

	var err error
	switch flag.Arg(0) {
	case "version":
		fmt.Fprintf(os.Stdout, "elorank %s\n", Version)
	case "help":
		fmt.Fprint(os.Stdout, help())
		return
	case "migrate":
		err = migrateDatabase(flag.Arg(1))
	case "dev:fixtures":
		err = loadFixtures()
	case "leaderboard":
		err = printLeaderboard(os.Stdout, flag.Arg(1), flag.Arg(2))
	case "leaderboard:sync":
		err = syncLeaderboards()
	case "history":
		err = printHistory(os.Stdout, flag.Arg(1), flag.Arg(2))
	default:
		fmt.Fprint(os.Stderr, help())
		os.Exit(1)
	}

	if err != nil {
		log.Printf("error: %s", err)
		os.Exit(1)
	}
}

func help() string {
	return fmt.Sprintf(`
elorank keeps Elo ratings for players and teams and records the outcome of
their matches.

Usage: %[1]s COMMAND [ARGS…]

COMMANDS
    dev:fixtures         create default data for quick testing during development
    help                 display this help
    history TYPE NAME    display the rating changes of a Player or Team
    leaderboard TYPE [N] display the N best rated Player or Team (default 10)
    leaderboard:sync     rebuild the Redis leaderboards from the database
    migrate [up|down]    apply or revert the database migrations
    version              display the current version

ENVIRONMENT
    ELORANK_DB             path to the SQLite database
    ELORANK_REDIS_ADDR     address of the Redis leaderboard mirror
    ELORANK_REDIS_PASSWORD password of the Redis leaderboard mirror
    ELORANK_BASE_RATING    rating given to newcomers
    ELORANK_K_FACTOR       fixed K-factor, overrides the default tiers
`,
		os.Args[0],
	)
}
