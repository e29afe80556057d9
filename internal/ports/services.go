package ports

import (
	"context"

	"github.com/blogmaster/core/internal/domain/entities"
)

// PostService interface for post management operations
type PostService interface {
	ListPosts(ctx context.Context) ([]entities.Post, error)
	GetPost(ctx context.Context, id int) (*entities.Post, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*entities.Post, error)
	UpdatePost(ctx context.Context, id int, req UpdatePostRequest) (*entities.Post, error)
	DeletePost(ctx context.Context, id int) (bool, error)
}

// Request/Response Types

type CreatePostRequest = entities.PostInput

type UpdatePostRequest = entities.PostInput

// ValidationErrorResponse is returned with 422 when a submitted post is incomplete
type ValidationErrorResponse struct {
	Message string             `json:"message"`
	ID      int                `json:"id,omitempty"`
	Post    entities.PostInput `json:"post"`
	Fields  map[string]string  `json:"fields"`
}
