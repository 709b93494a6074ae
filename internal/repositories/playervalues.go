package repositories

import (
	"context"
	"database/sql"
	"github.com/jmoiron/sqlx"
	"github.com/myrjola/dvdcluedo/internal/errors"
	"github.com/myrjola/dvdcluedo/internal/sqlite"
	"log/slog"
)

// PlayerValueRepository stores string preferences per player, one row per key.
type PlayerValueRepository struct {
	database *sqlite.Database
	logger   *slog.Logger
}

func NewPlayerValueRepository(database *sqlite.Database, logger *slog.Logger) *PlayerValueRepository {
	return &PlayerValueRepository{
		database: database,
		logger:   logger,
	}
}

type playerValue struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Get returns all stored values of the player keyed by name. Unknown players have no values.
func (r *PlayerValueRepository) Get(ctx context.Context, playerID string) (map[string]string, error) {
	var rows []playerValue
	stmt := `SELECT key, value FROM player_values WHERE player_id = ?`
	if err := r.database.ReadOnly.SelectContext(ctx, &rows, stmt, playerID); err != nil {
		return nil, errors.Wrap(err, "select player values", slog.String("player_id", playerID))
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Set upserts the given values in one transaction, leaving other keys untouched.
func (r *PlayerValueRepository) Set(ctx context.Context, playerID string, values map[string]string) (err error) {
	var tx *sqlx.Tx
	if tx, err = r.database.ReadWrite.BeginTxx(ctx, nil); err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			err = errors.Join(err, errors.Wrap(rollbackErr, "rollback"))
		}
	}()

	stmt := `INSERT INTO player_values (player_id, key, value) VALUES (?, ?, ?)
ON CONFLICT (player_id, key) DO UPDATE SET value = excluded.value,
                                           updated = STRFTIME('%Y-%m-%dT%H:%M:%fZ')`
	for key, value := range values {
		if _, err = tx.ExecContext(ctx, stmt, playerID, key, value); err != nil {
			return errors.Wrap(err, "upsert player value", slog.String("key", key))
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// Delete removes every value of the player.
func (r *PlayerValueRepository) Delete(ctx context.Context, playerID string) error {
	stmt := `DELETE FROM player_values WHERE player_id = ?`
	if _, err := r.database.ReadWrite.ExecContext(ctx, stmt, playerID); err != nil {
		return errors.Wrap(err, "delete player values", slog.String("player_id", playerID))
	}
	return nil
}
