package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogmaster/core/internal/adapters/repository"
	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/database"
)

// Set BLOGMASTER_TEST_DATABASE_DSN to a disposable PostgreSQL database to run these.
func newPostgresRepo(t *testing.T) *repository.PostgresPostRepository {
	t.Helper()

	dsn := os.Getenv("BLOGMASTER_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("BLOGMASTER_TEST_DATABASE_DSN not set")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	db := &database.DB{DB: conn}

	migrator, err := database.NewMigrator(db)
	require.NoError(t, err)
	_, err = migrator.Up()
	require.NoError(t, err)

	_, err = conn.Exec(`TRUNCATE posts`)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = conn.Exec(`TRUNCATE posts`) })

	return repository.NewPostgresPostRepository(db)
}

func TestPostgres_CRUD(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.HealthCheck(ctx))
	assert.Contains(t, repo.Stats(), "open_connections")

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)

	for i := 0; i < 3; i++ {
		post := &entities.Post{Author: "A", Title: "T", Content: "C"}
		require.NoError(t, repo.Create(ctx, post))
		assert.Equal(t, i+1, post.ID)
	}

	removed, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.False(t, removed)

	post := &entities.Post{Author: "D", Title: "four", Content: "C"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 4, post.ID)

	require.NoError(t, repo.Update(ctx, &entities.Post{ID: 1, Author: "X", Title: "Y", Content: "Z"}))
	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, entities.Post{ID: 1, Author: "X", Title: "Y", Content: "Z"}, *got)

	err = repo.Update(ctx, &entities.Post{ID: 99, Author: "X", Title: "Y", Content: "Z"})
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	posts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, ids(posts))
}

func TestPostgres_Import(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	in := []entities.Post{
		{ID: 5, Author: "A", Title: "five", Content: "C"},
		{ID: 2, Author: "B", Title: "two", Content: "C"},
	}

	n, err := repo.Import(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = repo.Import(ctx, in)
	require.NoError(t, err)
	assert.Zero(t, n)

	post := &entities.Post{Author: "N", Title: "next", Content: "C"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 6, post.ID)
}

func TestPostgres_ImportIDAboveInt32(t *testing.T) {
	repo := newPostgresRepo(t)
	ctx := context.Background()

	n, err := repo.Import(ctx, []entities.Post{{ID: 3_000_000_000, Author: "A", Title: "big", Content: "C"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	post := &entities.Post{Author: "N", Title: "next", Content: "C"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 3_000_000_001, post.ID)
}
