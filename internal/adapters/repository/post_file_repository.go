package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sync"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/ports"
)

var errNotArray = errors.New("top-level value is not an array")

// PostFileRepository keeps every post in a single JSON array file.
// Each operation reads the whole file, applies at most one change and
// rewrites the whole file. The mutex serializes callers inside one
// process only; two processes sharing the file can still lose updates.
type PostFileRepository struct {
	path string
	mu   sync.Mutex
}

// NewPostFileRepository creates a repository backed by the file at path.
// The file is not touched until the first operation.
func NewPostFileRepository(path string) *PostFileRepository {
	return &PostFileRepository{path: path}
}

var _ ports.PostRepository = (*PostFileRepository)(nil)

// Path returns the backing file location
func (r *PostFileRepository) Path() string {
	return r.path
}

// Load reads the full post list, creating the file as an empty array if it
// does not exist yet.
func (r *PostFileRepository) Load(ctx context.Context) ([]entities.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

// Save overwrites the backing file with posts, in order.
func (r *PostFileRepository) Save(ctx context.Context, posts []entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, posts)
}

func (r *PostFileRepository) List(ctx context.Context) ([]entities.Post, error) {
	return r.Load(ctx)
}

func (r *PostFileRepository) GetByID(ctx context.Context, id int) (*entities.Post, error) {
	posts, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := FindIndex(posts, id)
	if idx < 0 {
		return nil, entities.ErrPostNotFound
	}

	post := posts[idx]
	return &post, nil
}

func (r *PostFileRepository) Create(ctx context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return err
	}

	id, err := NextID(posts)
	if err != nil {
		return err
	}

	post.ID = id
	posts = append(posts, *post)

	if err := r.save(ctx, posts); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

func (r *PostFileRepository) Update(ctx context.Context, post *entities.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return err
	}

	idx := FindIndex(posts, post.ID)
	if idx < 0 {
		return entities.ErrPostNotFound
	}

	post.Input().Apply(&posts[idx])

	if err := r.save(ctx, posts); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

func (r *PostFileRepository) Delete(ctx context.Context, id int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	posts, err := r.load(ctx)
	if err != nil {
		return false, err
	}

	idx := FindIndex(posts, id)
	if idx < 0 {
		return false, nil
	}

	posts = append(posts[:idx], posts[idx+1:]...)

	if err := r.save(ctx, posts); err != nil {
		return false, fmt.Errorf("delete post: %w", err)
	}
	return true, nil
}

func (r *PostFileRepository) HealthCheck(ctx context.Context) error {
	if _, err := r.Load(ctx); err != nil {
		return fmt.Errorf("post store health check failed: %w", err)
	}
	return nil
}

func (r *PostFileRepository) load(ctx context.Context) ([]entities.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		posts := []entities.Post{}
		if err := r.save(ctx, posts); err != nil {
			return nil, fmt.Errorf("initialize post store: %w", err)
		}
		return posts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read post store: %w", err)
	}

	return decodePosts(r.path, data)
}

func (r *PostFileRepository) save(ctx context.Context, posts []entities.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodePosts(posts)
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}

	if err := atomicWriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("write post store: %w", err)
	}
	return nil
}

// FindIndex returns the position of the first post with the given id, or -1.
func FindIndex(posts []entities.Post, id int) int {
	for i, p := range posts {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// NextID returns one more than the highest id in posts, or 1 when empty.
// Deleting the highest post frees its id for the next create.
// It fails with ErrIDExhausted when the highest id is math.MaxInt.
func NextID(posts []entities.Post) (int, error) {
	maxID := 0
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	if maxID == math.MaxInt {
		return 0, entities.ErrIDExhausted
	}
	return maxID + 1, nil
}

func decodePosts(path string, data []byte) ([]entities.Post, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &entities.ParseError{Path: path, Err: errNotArray}
	}

	var posts []entities.Post
	if err := json.Unmarshal(trimmed, &posts); err != nil {
		return nil, &entities.ParseError{Path: path, Err: err}
	}

	seen := make(map[int]struct{}, len(posts))
	for i, p := range posts {
		if p.ID <= 0 {
			return nil, &entities.ParseError{Path: path, Err: fmt.Errorf("record %d: id must be positive, got %d", i, p.ID)}
		}
		if _, dup := seen[p.ID]; dup {
			return nil, &entities.ParseError{Path: path, Err: fmt.Errorf("record %d: duplicate id %d", i, p.ID)}
		}
		seen[p.ID] = struct{}{}
	}

	if posts == nil {
		posts = []entities.Post{}
	}
	return posts, nil
}

func encodePosts(posts []entities.Post) ([]byte, error) {
	if posts == nil {
		posts = []entities.Post{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(posts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
