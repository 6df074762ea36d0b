package httphandler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/agora/internal/application/authz"
	commentapp "github.com/lllypuk/agora/internal/application/comment"
	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/middleware"
)

// AddCommentRequest represents the request to add a comment to a post.
type AddCommentRequest struct {
	Description string `json:"description"`
}

// UpdateCommentRequest represents the partial update of a comment.
type UpdateCommentRequest struct {
	Description *string `json:"description"`
}

// CommentResponse represents a comment in API responses.
type CommentResponse struct {
	ID          string `json:"id"`
	PostID      string `json:"post_id"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	VoteCount   int    `json:"vote_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CommentService defines the interface for comment operations.
// Declared on the consumer side per project guidelines.
type CommentService interface {
	Add(ctx context.Context, cmd commentapp.AddCommand) (*commentdomain.Comment, error)
	Get(ctx context.Context, commentID uuid.UUID) (*commentdomain.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*commentdomain.Comment, error)
	Update(ctx context.Context, actor authz.Actor, cmd commentapp.UpdateCommand) (*commentdomain.Comment, error)
	Delete(ctx context.Context, actor authz.Actor, commentID uuid.UUID) error
	Vote(ctx context.Context, commentID uuid.UUID, direction vote.Direction) (int, error)
}

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	commentService CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// RegisterRoutes registers comment routes with the router. Comments are
// created and listed under their post; single-comment operations address
// the comment by its own ID.
func (h *CommentHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().GET("/posts/:id/comments", h.ListByPost)
	r.Public().GET("/comments/:id", h.Get)

	r.Auth().POST("/posts/:id/comments", h.Add)
	r.Auth().PUT("/comments/:id", h.Update)
	r.Auth().DELETE("/comments/:id", h.Delete)
	r.Auth().POST("/comments/:id/vote", h.Vote)
}

// Add handles POST /api/v1/posts/:id/comments.
func (h *CommentHandler) Add(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	var req AddCommentRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	cmd := commentapp.AddCommand{
		PostID:      postID,
		Description: req.Description,
		CreatedBy:   actor.UserID,
	}

	comment, err := h.commentService.Add(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, "comment added", ToCommentResponse(comment))
}

// Get handles GET /api/v1/comments/:id.
func (h *CommentHandler) Get(c echo.Context) error {
	commentID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid comment ID format")
	}

	comment, err := h.commentService.Get(c.Request().Context(), commentID)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "comment retrieved", ToCommentResponse(comment))
}

// ListByPost handles GET /api/v1/posts/:id/comments.
// A post without comments yields an empty list, not an error.
func (h *CommentHandler) ListByPost(c echo.Context) error {
	postID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid post ID format")
	}

	comments, err := h.commentService.ListByPost(c.Request().Context(), postID)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	responses := make([]CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, ToCommentResponse(comment))
	}

	return httpserver.RespondOK(c, "comments retrieved", responses)
}

// Update handles PUT /api/v1/comments/:id.
func (h *CommentHandler) Update(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	commentID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid comment ID format")
	}

	var req UpdateCommentRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	cmd := commentapp.UpdateCommand{
		CommentID: commentID,
		Update: commentdomain.Update{
			Description: req.Description,
		},
	}

	comment, err := h.commentService.Update(c.Request().Context(), actor, cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "comment updated", ToCommentResponse(comment))
}

// Delete handles DELETE /api/v1/comments/:id.
func (h *CommentHandler) Delete(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	commentID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid comment ID format")
	}

	if err := h.commentService.Delete(c.Request().Context(), actor, commentID); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "comment deleted", nil)
}

// Vote handles POST /api/v1/comments/:id/vote.
func (h *CommentHandler) Vote(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	commentID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid comment ID format")
	}

	var req VoteRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	direction, dirErr := vote.ParseDirection(req.Direction)
	if dirErr != nil {
		return httpserver.RespondError(c, dirErr)
	}

	count, err := h.commentService.Vote(c.Request().Context(), commentID, direction)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "vote recorded", VoteResponse{
		ID:        commentID.String(),
		VoteCount: count,
	})
}

// ToCommentResponse converts a domain comment to its API representation.
func ToCommentResponse(comment *commentdomain.Comment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID().String(),
		PostID:      comment.PostID().String(),
		Description: comment.Description(),
		CreatedBy:   comment.CreatedBy().String(),
		VoteCount:   comment.VoteCount(),
		CreatedAt:   comment.CreatedAt().Format(timeFormat),
		UpdatedAt:   comment.UpdatedAt().Format(timeFormat),
	}
}
