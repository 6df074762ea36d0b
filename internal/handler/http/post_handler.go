// Package httphandler contains the HTTP handlers for the public API.
package httphandler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/agora/internal/application/authz"
	postapp "github.com/lllypuk/agora/internal/application/post"
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/middleware"
)

// CreatePostRequest represents the request to create a post.
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

// UpdatePostRequest represents the partial update of a post. Absent fields
// are left unchanged.
type UpdatePostRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Categories  []string `json:"categories"`
}

// VoteRequest represents a vote on a post or comment.
type VoteRequest struct {
	Direction string `json:"direction"`
}

// PostResponse represents a post in API responses.
type PostResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
	CreatedBy   string   `json:"created_by"`
	VoteCount   int      `json:"vote_count"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// VoteResponse carries the vote count after a vote was applied.
type VoteResponse struct {
	ID        string `json:"id"`
	VoteCount int    `json:"vote_count"`
}

// PostService defines the interface for post operations.
// Declared on the consumer side per project guidelines.
type PostService interface {
	Create(ctx context.Context, cmd postapp.CreateCommand) (*postdomain.Post, error)
	Get(ctx context.Context, id uuid.UUID) (*postdomain.Post, error)
	List(ctx context.Context, filters postapp.Filters) ([]*postdomain.Post, error)
	Update(ctx context.Context, actor authz.Actor, cmd postapp.UpdateCommand) (*postdomain.Post, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
	Vote(ctx context.Context, id uuid.UUID, direction vote.Direction) (int, error)
}

// PostHandler handles post-related HTTP requests.
type PostHandler struct {
	postService PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// RegisterRoutes registers post routes with the router.
func (h *PostHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().GET("/posts", h.List)
	r.Public().GET("/posts/:id", h.Get)
	r.Public().GET("/users/:id/posts", h.ListByUser)

	r.Auth().POST("/posts", h.Create)
	r.Auth().PUT("/posts/:id", h.Update)
	r.Auth().DELETE("/posts/:id", h.Delete)
	r.Auth().POST("/posts/:id/vote", h.Vote)
}

// Create handles POST /api/v1/posts.
func (h *PostHandler) Create(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	var req CreatePostRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	cmd := postapp.CreateCommand{
		Title:       req.Title,
		Description: req.Description,
		Categories:  req.Categories,
		CreatedBy:   actor.UserID,
	}

	p, err := h.postService.Create(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, "post created", ToPostResponse(p))
}

// Get handles GET /api/v1/posts/:id.
func (h *PostHandler) Get(c echo.Context) error {
	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	p, err := h.postService.Get(c.Request().Context(), postID)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "post retrieved", ToPostResponse(p))
}

// List handles GET /api/v1/posts.
// Supports category, created_by, offset and limit query parameters.
func (h *PostHandler) List(c echo.Context) error {
	filters, parseErr := parsePostFilters(c)
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, parseErr.Error())
	}

	posts, err := h.postService.List(c.Request().Context(), filters)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, ToPostResponse(p))
	}

	return httpserver.RespondOK(c, "posts retrieved", responses)
}

// ListByUser handles GET /api/v1/users/:id/posts.
func (h *PostHandler) ListByUser(c echo.Context) error {
	userID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid user ID format")
	}

	posts, err := h.postService.List(c.Request().Context(), postapp.Filters{CreatedBy: userID})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	responses := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		responses = append(responses, ToPostResponse(p))
	}

	return httpserver.RespondOK(c, "posts retrieved", responses)
}

// Update handles PUT /api/v1/posts/:id.
func (h *PostHandler) Update(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	var req UpdatePostRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	cmd := postapp.UpdateCommand{
		PostID: postID,
		Update: postdomain.Update{
			Title:       req.Title,
			Description: req.Description,
			Categories:  req.Categories,
		},
	}

	p, err := h.postService.Update(c.Request().Context(), actor, cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "post updated", ToPostResponse(p))
}

// Delete handles DELETE /api/v1/posts/:id.
// Deleting a post also removes its comments.
func (h *PostHandler) Delete(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	if err := h.postService.Delete(c.Request().Context(), actor, postID); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "post deleted", nil)
}

// Vote handles POST /api/v1/posts/:id/vote.
func (h *PostHandler) Vote(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	var req VoteRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	direction, dirErr := vote.ParseDirection(req.Direction)
	if dirErr != nil {
		return httpserver.RespondError(c, dirErr)
	}

	count, err := h.postService.Vote(c.Request().Context(), postID, direction)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "vote recorded", VoteResponse{
		ID:        postID.String(),
		VoteCount: count,
	})
}

// ToPostResponse converts a domain post to its API representation.
func ToPostResponse(p *postdomain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID().String(),
		Title:       p.Title(),
		Description: p.Description(),
		Categories:  p.Categories(),
		CreatedBy:   p.CreatedBy().String(),
		VoteCount:   p.VoteCount(),
		CreatedAt:   p.CreatedAt().Format(timeFormat),
		UpdatedAt:   p.UpdatedAt().Format(timeFormat),
	}
}

// parsePostFilters extracts listing filters from query parameters.
func parsePostFilters(c echo.Context) (postapp.Filters, error) {
	filters := postapp.Filters{
		Category: c.QueryParam("category"),
	}

	if createdBy := c.QueryParam("created_by"); createdBy != "" {
		id, err := uuid.ParseUUID(createdBy)
		if err != nil {
			return postapp.Filters{}, errInvalidCreatedBy
		}
		filters.CreatedBy = id
	}

	if offset := c.QueryParam("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return postapp.Filters{}, errInvalidOffset
		}
		filters.Offset = n
	}

	if limit := c.QueryParam("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return postapp.Filters{}, errInvalidLimit
		}
		filters.Limit = n
	}

	return filters, nil
}
