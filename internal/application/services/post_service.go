package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/ports"
)

// PostService handles post-related operations
type PostService struct {
	postRepo  ports.PostRepository
	validator *validator.Validate
	logger    *logger.Logger
}

var _ ports.PostService = (*PostService)(nil)

// NewPostService creates a new post service
func NewPostService(postRepo ports.PostRepository, logger *logger.Logger) *PostService {
	return &PostService{
		postRepo:  postRepo,
		validator: NewValidator(),
		logger:    logger,
	}
}

// NewValidator returns a validator that reports fields by their json name
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ListPosts returns every post in store order
func (s *PostService) ListPosts(ctx context.Context) ([]entities.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// GetPost retrieves a post by ID
func (s *PostService) GetPost(ctx context.Context, id int) (*entities.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost validates the trimmed input and stores it under the next id
func (s *PostService) CreatePost(ctx context.Context, req ports.CreatePostRequest) (*entities.Post, error) {
	input, err := s.validate(0, req)
	if err != nil {
		return nil, err
	}

	post := input.NewPost()
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.LogPostAction("create", post.ID, map[string]interface{}{"title": post.Title})

	return post, nil
}

// UpdatePost replaces the text fields of an existing post. A missing post
// is reported before the input is validated.
func (s *PostService) UpdatePost(ctx context.Context, id int, req ports.UpdatePostRequest) (*entities.Post, error) {
	existing, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}

	input, err := s.validate(id, req)
	if err != nil {
		return nil, err
	}

	input.Apply(existing)
	if err := s.postRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	s.logger.LogPostAction("update", id, map[string]interface{}{"title": existing.Title})

	return existing, nil
}

// DeletePost removes a post and reports whether one was removed.
// Deleting a missing post succeeds without changes.
func (s *PostService) DeletePost(ctx context.Context, id int) (bool, error) {
	removed, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete post: %w", err)
	}

	if !removed {
		s.logger.Debugw("Delete skipped, post not found", "post_id", id)
		return false, nil
	}

	s.logger.LogPostAction("delete", id, nil)
	return true, nil
}

func (s *PostService) validate(id int, req entities.PostInput) (entities.PostInput, error) {
	input := req.Trimmed()

	err := s.validator.Struct(input)
	if err == nil {
		return input, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return input, fmt.Errorf("validate post: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}

	return input, &entities.ValidationError{ID: id, Input: input, Fields: fields}
}
