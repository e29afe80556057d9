package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/ports"
)

const postNotFoundText = "Post not found"

// PageHandler serves the server-rendered HTML pages
type PageHandler struct {
	postService ports.PostService
	logger      *logger.Logger
}

type indexPage struct {
	Posts []entities.Post
}

type formPage struct {
	ID    int
	Post  entities.PostInput
	Error string
}

// NewPageHandler creates a new page handler
func NewPageHandler(postService ports.PostService, logger *logger.Logger) *PageHandler {
	return &PageHandler{
		postService: postService,
		logger:      logger,
	}
}

// Index lists every post
func (h *PageHandler) Index(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "index.html", indexPage{Posts: posts})
}

// AddForm shows an empty post form
func (h *PageHandler) AddForm(c echo.Context) error {
	return c.Render(http.StatusOK, "add.html", formPage{})
}

// Add creates a post from the submitted form
func (h *PageHandler) Add(c echo.Context) error {
	var in entities.PostInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}

	if _, err := h.postService.CreatePost(c.Request().Context(), in); err != nil {
		if ve, ok := entities.AsValidationError(err); ok {
			return c.Render(http.StatusOK, "add.html", formPage{Post: ve.Input, Error: ve.Error()})
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// UpdateForm shows the form pre-filled with the stored post
func (h *PageHandler) UpdateForm(c echo.Context) error {
	id, ok := pagePostID(c)
	if !ok {
		return c.String(http.StatusNotFound, postNotFoundText)
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		if entities.IsNotFound(err) {
			return c.String(http.StatusNotFound, postNotFoundText)
		}
		return err
	}

	return c.Render(http.StatusOK, "update.html", formPage{ID: post.ID, Post: post.Input()})
}

// Update replaces the text of an existing post from the submitted form
func (h *PageHandler) Update(c echo.Context) error {
	id, ok := pagePostID(c)
	if !ok {
		return c.String(http.StatusNotFound, postNotFoundText)
	}

	var in entities.PostInput
	if err := (&echo.DefaultBinder{}).BindBody(c, &in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}

	if _, err := h.postService.UpdatePost(c.Request().Context(), id, in); err != nil {
		if entities.IsNotFound(err) {
			return c.String(http.StatusNotFound, postNotFoundText)
		}
		if ve, ok := entities.AsValidationError(err); ok {
			return c.Render(http.StatusOK, "update.html", formPage{ID: id, Post: ve.Input, Error: ve.Error()})
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Delete removes a post if present and always returns home
func (h *PageHandler) Delete(c echo.Context) error {
	id, ok := pagePostID(c)
	if !ok {
		return c.String(http.StatusNotFound, postNotFoundText)
	}

	if _, err := h.postService.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// pagePostID accepts only non-negative integer ids, like a typed route segment
func pagePostID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
