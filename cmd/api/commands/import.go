package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blogmaster/core/internal/adapters/repository"
)

// NewImportCommand creates the command that copies a JSON post file into PostgreSQL
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import posts from a JSON file into PostgreSQL",
		Long:  "Copy every post from a JSON post file into the posts table, keeping ids. Posts whose id already exists are skipped.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			return runImport(cmd, from)
		},
	}

	importCmd.Flags().String("from", "", "JSON post file to read (defaults to storage.path)")

	return importCmd
}

func runImport(cmd *cobra.Command, from string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if from == "" {
		from = e.cfg.Storage.Path
	}

	// Load would create a missing file
	if _, err := os.Stat(from); err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}

	posts, err := repository.NewPostFileRepository(from).Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("read %s: %w", from, err)
	}

	db, err := e.database()
	if err != nil {
		return err
	}

	inserted, err := repository.NewPostgresPostRepository(db).Import(cmd.Context(), posts)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	e.logger.Infow("Posts imported", "from", from, "read", len(posts), "inserted", inserted)
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d posts from %s\n", inserted, len(posts), from)
	return nil
}
