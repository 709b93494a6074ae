package main

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/sqlite"
	"github.com/myrjola/dvdcluedo/internal/testhelpers"
	"log/slog"
	"os"
	"time"
)

// Migrates a copy of the production database and checks the saved games survived.
func main() {
	logger := testhelpers.NewLogger(os.Stdout)
	var (
		err       error
		start     = time.Now()
		ctx       context.Context
		sqliteURL string
		ok        bool
		cancel    context.CancelFunc
	)
	ctx = context.Background()
	ctx, cancel = context.WithTimeout(ctx, 5*time.Second) //nolint:mnd // 5 seconds

	if sqliteURL, ok = os.LookupEnv("DVDCLUEDO_SQLITE_URL"); !ok {
		logger.LogAttrs(ctx, slog.LevelError, "DVDCLUEDO_SQLITE_URL not set")
		os.Exit(1)
	}

	var db *sqlite.Database
	if db, err = sqlite.NewDatabase(ctx, sqliteURL, logger); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating database",
			slog.String("url", sqliteURL), errors.SlogError(err))
		os.Exit(1)
	}

	var players, saves int
	if err = db.ReadOnly.GetContext(ctx, &players, `SELECT COUNT(DISTINCT player_id) FROM player_values`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error counting players", errors.SlogError(err))
		os.Exit(1)
	}
	if players == 0 {
		logger.LogAttrs(ctx, slog.LevelError, "no players found, something is likely wrong")
		os.Exit(1)
	}
	if err = db.ReadOnly.GetContext(ctx, &saves,
		`SELECT COUNT(*) FROM player_values WHERE key = 'ValidSaveData' AND value = '1'`); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error counting saves", errors.SlogError(err))
		os.Exit(1)
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "player count", slog.Int("players", players), slog.Int("saves", saves))

	logger.LogAttrs(ctx, slog.LevelInfo, "Migration test successful 🙌", slog.Duration("duration", time.Since(start)))
	cancel()
	if err = db.Close(); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error closing database", errors.SlogError(err))
		os.Exit(1)
	}
	os.Exit(0)
}
