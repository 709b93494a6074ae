package sqlite

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"log/slog"
	"testing"
)

func TestDatabase_migrate(t *testing.T) {
	t.Parallel()
	const (
		valuesV1 = `CREATE TABLE player_values (player_id TEXT NOT NULL, key TEXT NOT NULL, value TEXT NOT NULL,
    PRIMARY KEY (player_id, key)) WITHOUT ROWID`
		valuesV2 = `CREATE TABLE player_values (player_id TEXT NOT NULL, key TEXT NOT NULL, value TEXT NOT NULL,
    updated TEXT NOT NULL DEFAULT 'never', PRIMARY KEY (player_id, key)) WITHOUT ROWID`
		insertValue = "INSERT INTO player_values (player_id, key, value) VALUES ('p1', 'Case', '2')"
		keyIndex    = "CREATE INDEX player_values_key_idx ON player_values (key)"
		touchRow    = `CREATE TRIGGER player_values_touch AFTER UPDATE ON player_values
BEGIN UPDATE player_values SET updated = 'touched' WHERE player_id = NEW.player_id AND key = NEW.key; END`
	)
	type step struct {
		schema  string
		exec    []string
		wantErr bool
	}
	tests := []struct {
		name    string
		steps   []step
		query   string
		want    int
		wantErr bool
	}{
		{
			name:  "empty schema",
			steps: []step{{schema: ""}},
			query: "SELECT COUNT(*) FROM sqlite_schema",
			want:  0,
		},
		{
			name:  "create table",
			steps: []step{{schema: valuesV1, exec: []string{insertValue}}},
			query: "SELECT COUNT(*) FROM player_values",
			want:  1,
		},
		{
			name:    "drop table",
			steps:   []step{{schema: valuesV1, exec: []string{insertValue}}, {schema: ""}},
			query:   "SELECT COUNT(*) FROM player_values",
			wantErr: true,
		},
		{
			name:  "add column keeps rows",
			steps: []step{{schema: valuesV1, exec: []string{insertValue}}, {schema: valuesV2}},
			query: "SELECT COUNT(*) FROM player_values WHERE value = '2' AND updated = 'never'",
			want:  1,
		},
		{
			name:  "remove column keeps rows",
			steps: []step{{schema: valuesV2, exec: []string{insertValue}}, {schema: valuesV1}},
			query: "SELECT COUNT(*) FROM player_values WHERE value = '2'",
			want:  1,
		},
		{
			name:  "create index",
			steps: []step{{schema: valuesV1}, {schema: valuesV1 + ";" + keyIndex}},
			query: "SELECT COUNT(*) FROM sqlite_schema WHERE type = 'index' AND name = 'player_values_key_idx'",
			want:  1,
		},
		{
			name:  "drop index",
			steps: []step{{schema: valuesV1 + ";" + keyIndex}, {schema: valuesV1}},
			query: "SELECT COUNT(*) FROM sqlite_schema WHERE type = 'index' AND name = 'player_values_key_idx'",
			want:  0,
		},
		{
			name: "update index",
			steps: []step{
				{schema: valuesV1 + ";" + keyIndex},
				{schema: valuesV1 + "; CREATE INDEX player_values_key_idx ON player_values (key, value)"},
			},
			query: "SELECT COUNT(*) FROM sqlite_schema WHERE name = 'player_values_key_idx' AND sql LIKE '%(key, value)'",
			want:  1,
		},
		{
			name:  "index survives table rebuild",
			steps: []step{{schema: valuesV1 + ";" + keyIndex}, {schema: valuesV2 + ";" + keyIndex}},
			query: "SELECT COUNT(*) FROM sqlite_schema WHERE type = 'index' AND name = 'player_values_key_idx'",
			want:  1,
		},
		{
			name: "create trigger",
			steps: []step{
				{schema: valuesV2},
				{schema: valuesV2 + ";" + touchRow, exec: []string{
					insertValue, "UPDATE player_values SET value = '3'",
				}},
			},
			query: "SELECT COUNT(*) FROM player_values WHERE updated = 'touched'",
			want:  1,
		},
		{
			name: "drop trigger",
			steps: []step{
				{schema: valuesV2 + ";" + touchRow},
				{schema: valuesV2, exec: []string{insertValue, "UPDATE player_values SET value = '3'"}},
			},
			query: "SELECT COUNT(*) FROM player_values WHERE updated = 'touched'",
			want:  0,
		},
		{
			name: "foreign key violation rolls back",
			steps: []step{
				{schema: "CREATE TABLE cases (id INTEGER PRIMARY KEY); CREATE TABLE saves (case_id INTEGER)",
					exec: []string{"INSERT INTO saves (case_id) VALUES (7)"}},
				{schema: "CREATE TABLE cases (id INTEGER PRIMARY KEY); " +
					"CREATE TABLE saves (case_id INTEGER REFERENCES cases (id))", wantErr: true},
			},
			query: "SELECT COUNT(*) FROM sqlite_schema WHERE name = 'saves' AND sql LIKE '%REFERENCES%'",
			want:  0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			logger := testhelpers.NewLogger(io.Discard)
			db, err := connect(":memory:", logger)
			require.NoError(t, err)
			t.Cleanup(func() { _ = db.Close() })
			for _, s := range tt.steps {
				logger.LogAttrs(ctx, slog.LevelInfo, "migrating", slog.String("schema", s.schema))
				err = db.migrate(ctx, s.schema)
				if s.wantErr {
					require.Error(t, err)
					continue
				}
				require.NoError(t, err)
				for _, query := range s.exec {
					_, err = db.ReadWrite.ExecContext(ctx, query)
					require.NoError(t, err, query)
				}
			}
			var got int
			err = db.ReadWrite.GetContext(ctx, &got, tt.query)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestNewDatabase(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	db, err := NewDatabase(ctx, ":memory:", testhelpers.NewLogger(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.ReadWrite.ExecContext(ctx,
		"INSERT INTO player_values (player_id, key, value) VALUES ('p1', 'Speed', '2')")
	require.NoError(t, err)

	var value string
	require.NoError(t, db.ReadOnly.GetContext(ctx, &value,
		"SELECT value FROM player_values WHERE player_id = 'p1' AND key = 'Speed'"))
	require.Equal(t, "2", value)

	_, err = db.ReadOnly.ExecContext(ctx, "DELETE FROM player_values")
	require.Error(t, err, "read-only pool must reject writes")

	// Migrating again with the same schema is a no-op that keeps the data.
	require.NoError(t, db.migrate(ctx, schemaDefinition))
	require.NoError(t, db.ReadOnly.GetContext(ctx, &value,
		"SELECT value FROM player_values WHERE player_id = 'p1' AND key = 'Speed'"))
	require.Equal(t, "2", value)
}
