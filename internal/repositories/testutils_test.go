package repositories_test

import (
	"context"
	"github.com/myrjola/dvdcluedo/internal/repositories"
	"github.com/myrjola/dvdcluedo/internal/sqlite"
	"github.com/myrjola/dvdcluedo/internal/testhelpers"
	"io"
	"testing"
)

// newTestRepository creates a repository over a fresh in-memory database.
func newTestRepository(t *testing.T) *repositories.PlayerValueRepository {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := testhelpers.NewLogger(io.Discard)
	database, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		cancel()
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cancel()
		if err = database.Close(); err != nil {
			t.Fatal(err)
		}
	})
	return repositories.NewPlayerValueRepository(database, logger)
}
