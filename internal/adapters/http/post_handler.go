package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogmaster/core/internal/domain/entities"
	"github.com/blogmaster/core/internal/infrastructure/logger"
	"github.com/blogmaster/core/internal/ports"
)

// PostHandler serves the JSON post API
type PostHandler struct {
	postService ports.PostService
	logger      *logger.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(postService ports.PostService, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger,
	}
}

// ListPosts godoc
// @Summary List posts
// @Tags Posts
// @Produce json
// @Success 200 {array} entities.Post
// @Router /posts [get]
func (h *PostHandler) ListPosts(c echo.Context) error {
	posts, err := h.postService.ListPosts(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary Get a post
// @Tags Posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} entities.Post
// @Failure 404 {object} MessageResponse
// @Router /posts/{id} [get]
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), id)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// CreatePost godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param post body entities.PostInput true "Post fields"
// @Success 201 {object} entities.Post
// @Failure 422 {object} ports.ValidationErrorResponse
// @Router /posts [post]
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req ports.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	post, err := h.postService.CreatePost(c.Request().Context(), req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(http.StatusCreated, post)
}

// UpdatePost godoc
// @Summary Update a post
// @Tags Posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param post body entities.PostInput true "Post fields"
// @Success 200 {object} entities.Post
// @Failure 404 {object} MessageResponse
// @Failure 422 {object} ports.ValidationErrorResponse
// @Router /posts/{id} [put]
func (h *PostHandler) UpdatePost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	var req ports.UpdatePostRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), id, req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return c.JSON(http.StatusOK, post)
}

// DeletePost godoc
// @Summary Delete a post
// @Description Succeeds whether or not the post existed
// @Tags Posts
// @Param id path int true "Post ID"
// @Success 204
// @Router /posts/{id} [delete]
func (h *PostHandler) DeletePost(c echo.Context) error {
	id, err := parsePostID(c)
	if err != nil {
		return err
	}

	if _, err := h.postService.DeletePost(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

// serviceError maps domain errors to responses. Anything else is left to
// the server's error handler.
func (h *PostHandler) serviceError(c echo.Context, err error) error {
	if entities.IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}

	if ve, ok := entities.AsValidationError(err); ok {
		h.logger.Debugw("Rejected post", "post_id", ve.ID, "fields", ve.Fields)
		return c.JSON(http.StatusUnprocessableEntity, ports.ValidationErrorResponse{
			Message: ve.Error(),
			ID:      ve.ID,
			Post:    ve.Input,
			Fields:  ve.Fields,
		})
	}

	return err
}
