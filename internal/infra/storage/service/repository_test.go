package service

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facumancuso/alessi-sub000/internal/domain"
	"github.com/facumancuso/alessi-sub000/internal/infra/storage/migrate"
	"github.com/facumancuso/alessi-sub000/pkg/dbmetrics"
)

// openTestDB подключается к PostgreSQL из TEST_DATABASE_DSN, иначе тест пропускается
func openTestDB(t *testing.T) *dbmetrics.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	raw, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = raw.Close() })

	db := dbmetrics.Wrap(raw, nil, "test")

	_, file, _, _ := runtime.Caller(0)
	schema := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations", "001_init.sql")
	require.NoError(t, migrate.Apply(context.Background(), db, schema))

	return db
}

func TestRepository_CreateGetByIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	code := "T-" + uuid.NewString()[:8]
	created, err := repo.Create(ctx, &domain.Service{Code: code, Name: "Corte", DurationMinutes: 30, PriceMinorUnits: 5000})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Delete(ctx, created.ID) })

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, code, got.Code)
	assert.Equal(t, int64(5000), got.PriceMinorUnits)

	// чужие и некорректные ID пропускаются
	list, err := repo.GetByIDs(ctx, []string{created.ID, uuid.NewString(), "corte"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = repo.Create(ctx, &domain.Service{Code: code, Name: "Duplicado", DurationMinutes: 30, PriceMinorUnits: 1})
	assert.True(t, domain.IsConflict(err))

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.True(t, domain.IsNotFound(err))
}
