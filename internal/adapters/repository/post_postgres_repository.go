package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/database"
	"github.com/blogmaster/core/internal/ports"
)

// PostgresPostRepository implements the PostRepository interface on PostgreSQL.
// Ids follow the same max(id)+1 rule as the file store.
type PostgresPostRepository struct {
	db *database.DB
}

// NewPostgresPostRepository creates a new post repository
func NewPostgresPostRepository(db *database.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

var _ ports.PostRepository = (*PostgresPostRepository)(nil)

func (r *PostgresPostRepository) List(ctx context.Context) ([]entities.Post, error) {
	query := `SELECT id, author, title, content FROM posts ORDER BY id`

	posts := []entities.Post{}
	if err := r.db.DB.SelectContext(ctx, &posts, query); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return posts, nil
}

func (r *PostgresPostRepository) GetByID(ctx context.Context, id int) (*entities.Post, error) {
	query := `SELECT id, author, title, content FROM posts WHERE id = $1`

	var post entities.Post
	err := r.db.DB.GetContext(ctx, &post, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}

	return &post, nil
}

func (r *PostgresPostRepository) Create(ctx context.Context, post *entities.Post) error {
	query := `
		INSERT INTO posts (id, author, title, content)
		SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3 FROM posts
		RETURNING id`

	err := r.db.DB.QueryRowxContext(ctx, query, post.Author, post.Title, post.Content).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *PostgresPostRepository) Update(ctx context.Context, post *entities.Post) error {
	query := `UPDATE posts SET author = $2, title = $3, content = $4 WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, post.ID, post.Author, post.Title, post.Content)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if rows == 0 {
		return entities.ErrPostNotFound
	}

	return nil
}

func (r *PostgresPostRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}

	return rows > 0, nil
}

func (r *PostgresPostRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// Stats reports connection pool statistics for the detailed health check
func (r *PostgresPostRepository) Stats() map[string]interface{} {
	return r.db.GetConnectionInfo()
}

// Import inserts posts with their existing ids in one transaction.
// Posts whose id is already present are skipped; the number inserted is returned.
func (r *PostgresPostRepository) Import(ctx context.Context, posts []entities.Post) (int, error) {
	query := `
		INSERT INTO posts (id, author, title, content)
		VALUES (:id, :author, :title, :content)
		ON CONFLICT (id) DO NOTHING`

	inserted := 0
	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, p := range posts {
			result, err := tx.NamedExecContext(ctx, query, p)
			if err != nil {
				return fmt.Errorf("import post %d: %w", p.ID, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("import post %d: %w", p.ID, err)
			}
			inserted += int(rows)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return inserted, nil
}
