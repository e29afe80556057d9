package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogmaster/core/cmd/api/commands"
	"github.com/blogmaster/core/internal/domain/entities"
)

func setupStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posts.json")
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", path)
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPostsCommands(t *testing.T) {
	path := setupStore(t)

	out, err := run(t, "posts", "list")
	require.NoError(t, err)
	assert.Equal(t, "No posts\n", out)

	out, err = run(t, "posts", "create", "--author", "Ann", "--title", "Hello", "--content", "World")
	require.NoError(t, err)
	assert.Equal(t, "Post 1 created\n", out)

	out, err = run(t, "posts", "update", "1", "--author", "Ann", "--title", "Hi", "--content", "There")
	require.NoError(t, err)
	assert.Equal(t, "Post 1 updated\n", out)

	out, err = run(t, "posts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Hi")
	assert.NotContains(t, out, "Hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"author":"Ann","title":"Hi","content":"There"}]`, string(data))

	out, err = run(t, "posts", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Post 1 deleted\n", out)

	out, err = run(t, "posts", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "Post 1 not found, nothing to do\n", out)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestPostsCommands_Errors(t *testing.T) {
	setupStore(t)

	_, err := run(t, "posts", "create", "--author", "Ann", "--title", "  ")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrInvalidPost)
	assert.Equal(t, entities.ValidationMessage, err.Error())

	_, err = run(t, "posts", "update", "3", "--author", "A", "--title", "T", "--content", "C")
	assert.ErrorIs(t, err, entities.ErrPostNotFound)

	_, err = run(t, "posts", "delete", "abc")
	assert.ErrorContains(t, err, "invalid post id")

	_, err = run(t, "posts", "update")
	assert.Error(t, err)
}

func TestMigrateRequiresPostgres(t *testing.T) {
	setupStore(t)

	_, err := run(t, "migrate", "up")
	assert.ErrorContains(t, err, "migrations need storage driver")
}

func TestImportMissingFile(t *testing.T) {
	setupStore(t)
	missing := filepath.Join(t.TempDir(), "nope.json")

	_, err := run(t, "import", "--from", missing)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, statErr := os.Stat(missing)
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "BlogMaster v"+commands.Version)
}
