package repository_test

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogmaster/core/internal/adapters/repository"
	"github.com/blogmaster/core/internal/domain/entities"
)

func newRepo(t *testing.T) (*repository.PostFileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	return repository.NewPostFileRepository(path), path
}

func seed(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func ids(posts []entities.Post) []int {
	out := make([]int, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestLoad_CreatesMissingFile(t *testing.T) {
	repo, path := newRepo(t)

	_, err := os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)

	posts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestLoad_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "posts.json")
	repo := repository.NewPostFileRepository(path)

	_, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, path, repo.Path())
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `[{"id": 1,`},
		{name: "object top level", content: `{"id": 1}`},
		{name: "null top level", content: `null`},
		{name: "empty file", content: ``},
		{name: "wrong element type", content: `["hello"]`},
		{name: "missing id", content: `[{"author":"A","title":"T","content":"C"}]`},
		{name: "negative id", content: `[{"id":-2,"author":"A","title":"T","content":"C"}]`},
		{name: "duplicate id", content: `[{"id":1,"author":"A","title":"T","content":"C"},{"id":1,"author":"B","title":"T","content":"C"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, path := newRepo(t)
			seed(t, path, tt.content)

			_, err := repo.Load(context.Background())
			require.Error(t, err)

			pe, ok := entities.AsParseError(err)
			require.True(t, ok, "expected ParseError, got %T: %v", err, err)
			assert.Equal(t, path, pe.Path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(data), "corrupt file must be left untouched")
		})
	}
}

func TestLoad_TrustsTextFields(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[{"id":5,"author":"","title":"  ","content":"x","extra":true}]`)

	posts, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []entities.Post{{ID: 5, Author: "", Title: "  ", Content: "x"}}, posts)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[
  {"id": 3, "author": "Zoë", "title": "<b>Ünïcode</b> & more", "content": "line1\nline2"},
  {"id": 1, "author": "A", "title": "T", "content": "C"}
]`)
	ctx := context.Background()

	before, err := repo.Load(ctx)
	require.NoError(t, err)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, before))

	after, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, string(original), string(rewritten))
	assert.Contains(t, string(rewritten), "<b>Ünïcode</b> & more", "html and non-ascii are written verbatim")
}

func TestSave_NilWritesEmptyArray(t *testing.T) {
	repo, path := newRepo(t)

	require.NoError(t, repo.Save(context.Background(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestSave_Format(t *testing.T) {
	repo, path := newRepo(t)

	require.NoError(t, repo.Save(context.Background(), []entities.Post{{ID: 1, Author: "A", Title: "T", Content: "C"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := "[\n  {\n    \"id\": 1,\n    \"author\": \"A\",\n    \"title\": \"T\",\n    \"content\": \"C\"\n  }\n]\n"
	assert.Equal(t, expected, string(data))
}

func TestFindIndex(t *testing.T) {
	posts := []entities.Post{{ID: 4}, {ID: 9}, {ID: 2}}

	assert.Equal(t, 0, repository.FindIndex(posts, 4))
	assert.Equal(t, 2, repository.FindIndex(posts, 2))
	assert.Equal(t, -1, repository.FindIndex(posts, 7))
	assert.Equal(t, -1, repository.FindIndex(nil, 1))
}

func TestNextID(t *testing.T) {
	tests := []struct {
		name  string
		posts []entities.Post
		want  int
	}{
		{name: "nil", posts: nil, want: 1},
		{name: "empty", posts: []entities.Post{}, want: 1},
		{name: "unordered", posts: []entities.Post{{ID: 4}, {ID: 9}, {ID: 2}}, want: 10},
		{name: "just below max", posts: []entities.Post{{ID: math.MaxInt - 1}}, want: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := repository.NextID(tt.posts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNextID_Exhausted(t *testing.T) {
	_, err := repository.NextID([]entities.Post{{ID: 3}, {ID: math.MaxInt}})
	assert.ErrorIs(t, err, entities.ErrIDExhausted)
}

func TestCreate_MaxIDLeavesStoreReadable(t *testing.T) {
	repo, path := newRepo(t)
	ctx := context.Background()
	content := fmt.Sprintf(`[{"id": %d, "author": "A", "title": "T", "content": "C"}]`, math.MaxInt)
	seed(t, path, content)

	post := &entities.Post{Author: "B", Title: "T2", Content: "C2"}
	err := repo.Create(ctx, post)
	assert.ErrorIs(t, err, entities.ErrIDExhausted)
	assert.Zero(t, post.ID)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	posts, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{math.MaxInt}, ids(posts))
}

func TestCreate_EmptyStore(t *testing.T) {
	repo, path := newRepo(t)
	ctx := context.Background()

	post := &entities.Post{Author: "A", Title: "T", Content: "C"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, entities.Post{ID: 1, Author: "A", Title: "T", Content: "C"}, *post)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"author":"A","title":"T","content":"C"}]`, string(data))
}

func TestCreate_IDsIncreaseMonotonically(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	last := 0
	seen := map[int]bool{}
	for i := 0; i < 25; i++ {
		post := &entities.Post{Author: "A", Title: "T", Content: "C"}
		require.NoError(t, repo.Create(ctx, post))
		assert.Greater(t, post.ID, last)
		assert.False(t, seen[post.ID])
		seen[post.ID] = true
		last = post.ID
	}

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 25)
}

func TestCreate_ReusesDeletedMaxID(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entities.Post{Author: "A", Title: "T", Content: "C"}))
	}

	removed, err := repo.Delete(ctx, 3)
	require.NoError(t, err)
	require.True(t, removed)

	post := &entities.Post{Author: "B", Title: "T2", Content: "C2"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 3, post.ID)
}

func TestDeleteMiddleThenCreate(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[
  {"id": 1, "author": "A", "title": "one", "content": "C"},
  {"id": 2, "author": "A", "title": "two", "content": "C"},
  {"id": 3, "author": "A", "title": "three", "content": "C"}
]`)
	ctx := context.Background()

	removed, err := repo.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, removed)

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, ids(posts))

	post := &entities.Post{Author: "D", Title: "four", Content: "C"}
	require.NoError(t, repo.Create(ctx, post))
	assert.Equal(t, 4, post.ID)

	posts, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4}, ids(posts))
}

func TestDelete_MissingIsNoop(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[{"id": 1, "author": "A", "title": "T", "content": "C"}]`)
	ctx := context.Background()

	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, old, old))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, 42)
	require.NoError(t, err)
	assert.False(t, removed)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(old), "file must not be rewritten")
}

func TestUpdate(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[
  {"id": 1, "author": "A", "title": "one", "content": "C"},
  {"id": 2, "author": "B", "title": "two", "content": "C"},
  {"id": 3, "author": "C", "title": "three", "content": "C"}
]`)
	ctx := context.Background()

	require.NoError(t, repo.Update(ctx, &entities.Post{ID: 2, Author: "X", Title: "Y", Content: "Z"}))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids(posts), "update never reorders")
	assert.Equal(t, entities.Post{ID: 2, Author: "X", Title: "Y", Content: "Z"}, posts[1])
}

func TestUpdate_NotFound(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[{"id": 1, "author": "A", "title": "T", "content": "C"}]`)

	err := repo.Update(context.Background(), &entities.Post{ID: 9, Author: "X", Title: "Y", Content: "Z"})
	assert.ErrorIs(t, err, entities.ErrPostNotFound)
}

func TestGetByID(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `[{"id": 7, "author": "A", "title": "T", "content": "C"}]`)
	ctx := context.Background()

	post, err := repo.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "T", post.Title)

	_, err = repo.GetByID(ctx, 8)
	assert.ErrorIs(t, err, entities.ErrPostNotFound)
}

func TestMutationsPropagateParseError(t *testing.T) {
	repo, path := newRepo(t)
	seed(t, path, `not json`)
	ctx := context.Background()

	err := repo.Create(ctx, &entities.Post{Author: "A", Title: "T", Content: "C"})
	_, ok := entities.AsParseError(err)
	assert.True(t, ok)

	_, err = repo.Delete(ctx, 1)
	_, ok = entities.AsParseError(err)
	assert.True(t, ok)

	assert.Error(t, repo.HealthCheck(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestCanceledContext(t *testing.T) {
	repo, path := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	repo := repository.NewPostFileRepository(filepath.Join(dir, "posts.json"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entities.Post{Author: "A", Title: "T", Content: "C"}))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "posts.json", entries[0].Name())
}
