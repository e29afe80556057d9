package http

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/config"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/ports"
)

// FeedHandler publishes the posts as an RSS 2.0 feed
type FeedHandler struct {
	postService ports.PostService
	markdown    goldmark.Markdown
	app         config.AppConfig
	logger      *logger.Logger
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(postService ports.PostService, md goldmark.Markdown, app config.AppConfig, logger *logger.Logger) *FeedHandler {
	return &FeedHandler{
		postService: postService,
		markdown:    md,
		app:         app,
		logger:      logger,
	}
}

// RSS writes every post, highest id first
func (h *FeedHandler) RSS(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	feed := h.buildFeed(posts)

	rss, err := feed.ToRss()
	if err != nil {
		h.logger.Errorw("RSS generation failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate RSS")
	}

	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}

func (h *FeedHandler) buildFeed(posts []entities.Post) *feeds.Feed {
	baseURL := strings.TrimRight(h.app.BaseURL, "/")

	feed := &feeds.Feed{
		Title:       h.app.Name,
		Link:        &feeds.Link{Href: baseURL + "/"},
		Description: fmt.Sprintf("Latest posts from %s", h.app.Name),
		Created:     time.Now(),
	}

	sorted := make([]entities.Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	for _, post := range sorted {
		link := fmt.Sprintf("%s/#post-%d", baseURL, post.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Author:      &feeds.Author{Name: post.Author},
			Description: string(renderMarkdown(h.markdown, post.Content)),
		})
	}

	return feed
}
