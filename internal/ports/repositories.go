package ports

import (
	"context"

	"github.com/blogmaster/core/internal/domain/entities"
)

// PostRepository defines the interface for post data operations.
// Every call works against the full backing collection; implementations
// keep insertion order and assign ids as max(id)+1.
type PostRepository interface {
	List(ctx context.Context) ([]entities.Post, error)
	GetByID(ctx context.Context, id int) (*entities.Post, error)
	// Create assigns the next id and writes it back into post.
	Create(ctx context.Context, post *entities.Post) error
	// Update replaces author, title and content of the post with post.ID.
	Update(ctx context.Context, post *entities.Post) error
	// Delete reports whether a post was removed. A missing id is not an error.
	Delete(ctx context.Context, id int) (bool, error)
	HealthCheck(ctx context.Context) error
}
