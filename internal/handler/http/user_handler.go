package httphandler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	userapp "github.com/lllypuk/agora/internal/application/user"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
	"github.com/lllypuk/agora/internal/middleware"
)

// UpdateProfileRequest represents the partial update of the caller's own
// profile. Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// AdminUpdateUserRequest represents the admin update of any user. It adds
// the role to the profile fields.
type AdminUpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// ChangePasswordRequest represents a password change for the caller.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UserService defines the interface for user lookup and account operations.
// Declared on the consumer side per project guidelines.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (*userdomain.User, error)
	List(ctx context.Context) ([]userapp.Listing, error)
	Update(ctx context.Context, cmd userapp.UpdateCommand) (*userdomain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userService UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers user routes with the router. The listing and the
// by-ID mutations are restricted to admins; profile and password routes act
// on the caller.
func (h *UserHandler) RegisterRoutes(r *httpserver.Router) {
	r.Auth().GET("/users/me", h.Me)
	r.Auth().PUT("/users/me", h.UpdateMe)
	r.Auth().PATCH("/users/password", h.ChangePassword)
	r.Auth().GET("/users/:id", h.Get)
	r.Auth().GET("/users", h.List, middleware.RequireAdmin())
	r.Auth().PUT("/users/:id", h.Update, middleware.RequireAdmin())
	r.Auth().DELETE("/users/:id", h.Delete, middleware.RequireAdmin())
}

// Me handles GET /api/v1/users/me.
func (h *UserHandler) Me(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	u, err := h.userService.Get(c.Request().Context(), actor.UserID)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "user retrieved", ToUserResponse(u))
}

// UpdateMe handles PUT /api/v1/users/me.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	var req UpdateProfileRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	u, err := h.userService.Update(c.Request().Context(), userapp.UpdateCommand{
		UserID:   actor.UserID,
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "user updated", ToUserResponse(u))
}

// ChangePassword handles PATCH /api/v1/users/password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	actor := middleware.GetActor(c)
	if actor.UserID.IsZero() {
		return httpserver.RespondErrorWithCode(c, http.StatusUnauthorized, "authentication required")
	}

	var req ChangePasswordRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	err := h.userService.ChangePassword(c.Request().Context(), actor.UserID, req.OldPassword, req.NewPassword)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "password updated", nil)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	userID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid user ID format")
	}

	u, err := h.userService.Get(c.Request().Context(), userID)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "user retrieved", ToUserResponse(u))
}

// List handles GET /api/v1/users. Admin only.
func (h *UserHandler) List(c echo.Context) error {
	listings, err := h.userService.List(c.Request().Context())
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "users retrieved", listings)
}

// Update handles PUT /api/v1/users/:id. Admin only; may change the role.
func (h *UserHandler) Update(c echo.Context) error {
	userID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid user ID format")
	}

	var req AdminUpdateUserRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	u, err := h.userService.Update(c.Request().Context(), userapp.UpdateCommand{
		UserID:   userID,
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "user updated", ToUserResponse(u))
}

// Delete handles DELETE /api/v1/users/:id. Admin only.
func (h *UserHandler) Delete(c echo.Context) error {
	userID, parseErr := uuid.ParseUUID(c.Param("id"))
	if parseErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid user ID format")
	}

	if err := h.userService.Delete(c.Request().Context(), userID); err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "user deleted", nil)
}
