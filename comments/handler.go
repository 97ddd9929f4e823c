package comments

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Repository persists comments.
type Repository interface {
	Create(ctx context.Context, n NewComment) (Comment, error)
	ListByPost(ctx context.Context, post string) ([]Comment, error)
}

// Handler serves the comment read and write endpoints.
type Handler struct {
	repo   Repository
	logger zerolog.Logger
}

// NewHandler creates a comment API handler backed by repo.
func NewHandler(repo Repository, logger zerolog.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// RegisterRoutes mounts GET and POST /comments on g.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/comments", h.List)
	g.POST("/comments", h.Create)
}

// record is the wire shape of a comment returned by the read endpoint.
type record struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    User      `json:"author"`
}

// createRequest uses pointers so a missing field can be told from an empty one.
type createRequest struct {
	Content *string `json:"content"`
	Post    *string `json:"post"`
	UserID  *string `json:"userId"`
}

// List returns the comments of the post named by the "post" query parameter
// in storage order.
func (h *Handler) List(c echo.Context) error {
	post := c.QueryParam("post")
	if post == "" {
		return c.JSON(http.StatusUnprocessableEntity, []FieldError{{Field: "post", Message: "Required"}})
	}
	list, err := h.repo.ListByPost(c.Request().Context(), post)
	if err != nil {
		h.logger.Error().Err(err).Str("post", post).Msg("list comments")
		return c.NoContent(http.StatusInternalServerError)
	}
	out := make([]record, 0, len(list))
	for _, cm := range list {
		out = append(out, record{ID: cm.ID, Content: cm.Content, CreatedAt: cm.CreatedAt, Author: cm.Author})
	}
	return c.JSON(http.StatusOK, out)
}

// Create stores a new comment and answers with its id.
func (h *Handler) Create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, []FieldError{{Field: "body", Message: "Expected a JSON object"}})
	}
	var fe fieldErrors
	if req.Content == nil {
		fe.add("content", "Required")
	}
	if req.Post == nil {
		fe.add("post", "Required")
	}
	if req.UserID == nil {
		fe.add("userId", "Required")
	}
	if len(fe) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, fe)
	}

	created, err := h.repo.Create(c.Request().Context(), NewComment{
		Content: *req.Content,
		Post:    *req.Post,
		UserID:  *req.UserID,
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusUnprocessableEntity, ve.Fields)
		}
		h.logger.Error().Err(err).Str("post", *req.Post).Msg("create comment")
		return c.NoContent(http.StatusInternalServerError)
	}
	h.logger.Info().Str("id", created.ID).Str("post", created.Post).Msg("comment created")
	return c.JSON(http.StatusCreated, map[string]string{"id": created.ID})
}
