package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/blogmaster/core/internal/application/services"
	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/ports"
)

// NewPostsCommand creates the posts command for managing the store from a shell
func NewPostsCommand() *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Post management commands",
		Long:  "List, create, update and delete posts in the configured store",
	}

	postsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPostService(cmd, func(svc ports.PostService) error {
				posts, err := svc.ListPosts(cmd.Context())
				if err != nil {
					return err
				}
				return printPosts(cmd, posts)
			})
		},
	})

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input := postInputFromFlags(cmd)
			return withPostService(cmd, func(svc ports.PostService) error {
				post, err := svc.CreatePost(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d created\n", post.ID)
				return nil
			})
		},
	}
	addPostFlags(createCmd)
	postsCmd.AddCommand(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the author, title and content of a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input := postInputFromFlags(cmd)
			return withPostService(cmd, func(svc ports.PostService) error {
				if _, err := svc.UpdatePost(cmd.Context(), id, input); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d updated\n", id)
				return nil
			})
		},
	}
	addPostFlags(updateCmd)
	postsCmd.AddCommand(updateCmd)

	postsCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post (no-op when it does not exist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withPostService(cmd, func(svc ports.PostService) error {
				removed, err := svc.DeletePost(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "Post %d not found, nothing to do\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted\n", id)
				return nil
			})
		},
	})

	return postsCmd
}

func addPostFlags(cmd *cobra.Command) {
	cmd.Flags().String("author", "", "Post author (required)")
	cmd.Flags().String("title", "", "Post title (required)")
	cmd.Flags().String("content", "", "Post content, Markdown (required)")
}

func postInputFromFlags(cmd *cobra.Command) entities.PostInput {
	author, _ := cmd.Flags().GetString("author")
	title, _ := cmd.Flags().GetString("title")
	content, _ := cmd.Flags().GetString("content")
	return entities.PostInput{Author: author, Title: title, Content: content}
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", arg)
	}
	return id, nil
}

func withPostService(cmd *cobra.Command, fn func(ports.PostService) error) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	defer e.close()

	repo, err := e.postRepository()
	if err != nil {
		return err
	}

	return fn(services.NewPostService(repo, e.logger.WithComponent("cli")))
}

func printPosts(cmd *cobra.Command, posts []entities.Post) error {
	if len(posts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No posts")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tAUTHOR\tTITLE")
	for _, p := range posts {
		fmt.Fprintf(w, "%d\t%s\t%s\n", p.ID, p.Author, p.Title)
	}
	return w.Flush()
}
