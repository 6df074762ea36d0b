package httphandler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	userapp "github.com/lllypuk/agora/internal/application/user"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/infrastructure/httpserver"
)

// RegisterRequest represents the request to register a new user.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the request to authenticate a user.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents a user in API responses. The password hash is
// never exposed.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// LoginResponse carries the issued token together with the user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AuthService defines the interface for registration and authentication.
// Declared on the consumer side per project guidelines.
type AuthService interface {
	Register(ctx context.Context, cmd userapp.RegisterCommand) (*userdomain.User, error)
	Login(ctx context.Context, email, password string) (userapp.LoginResult, error)
}

// AuthHandler handles registration and login HTTP requests.
type AuthHandler struct {
	authService AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers auth routes with the router. Both routes are
// public.
func (h *AuthHandler) RegisterRoutes(r *httpserver.Router) {
	r.Public().POST("/auth/register", h.Register)
	r.Public().POST("/auth/login", h.Login)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	cmd := userapp.RegisterCommand{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	u, err := h.authService.Register(c.Request().Context(), cmd)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondCreated(c, "user registered", ToUserResponse(u))
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if bindErr := c.Bind(&req); bindErr != nil {
		return httpserver.RespondErrorWithCode(c, http.StatusBadRequest, "invalid request body")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpserver.RespondError(c, err)
	}

	return httpserver.RespondOK(c, "login successful", LoginResponse{
		Token: result.Token,
		User:  ToUserResponse(result.User),
	})
}

// ToUserResponse converts a domain user to its API representation.
func ToUserResponse(u *userdomain.User) UserResponse {
	return UserResponse{
		ID:        u.ID().String(),
		Username:  u.Username(),
		Email:     u.Email(),
		Role:      string(u.Role()),
		CreatedAt: u.CreatedAt().Format(timeFormat),
	}
}
