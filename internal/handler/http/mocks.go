package httphandler

import (
	"context"

	"github.com/lllypuk/agora/internal/application/authz"
	commentapp "github.com/lllypuk/agora/internal/application/comment"
	postapp "github.com/lllypuk/agora/internal/application/post"
	userapp "github.com/lllypuk/agora/internal/application/user"
	commentdomain "github.com/lllypuk/agora/internal/domain/comment"
	"github.com/lllypuk/agora/internal/domain/errs"
	postdomain "github.com/lllypuk/agora/internal/domain/post"
	userdomain "github.com/lllypuk/agora/internal/domain/user"
	"github.com/lllypuk/agora/internal/domain/uuid"
	"github.com/lllypuk/agora/internal/domain/vote"
)

// MockPostService is a mock implementation of PostService for testing.
type MockPostService struct {
	posts map[uuid.UUID]*postdomain.Post

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

// NewMockPostService creates a new mock post service.
func NewMockPostService() *MockPostService {
	return &MockPostService{
		posts: make(map[uuid.UUID]*postdomain.Post),
	}
}

// AddPost seeds the mock with a post.
func (m *MockPostService) AddPost(p *postdomain.Post) {
	m.posts[p.ID()] = p
}

// Create creates a post in the mock service.
func (m *MockPostService) Create(_ context.Context, cmd postapp.CreateCommand) (*postdomain.Post, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	p, err := postdomain.NewPost(cmd.Title, cmd.Description, cmd.Categories, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}
	m.posts[p.ID()] = p
	return p, nil
}

// Get gets a post from the mock service.
func (m *MockPostService) Get(_ context.Context, id uuid.UUID) (*postdomain.Post, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return p, nil
}

// List lists posts from the mock service.
func (m *MockPostService) List(_ context.Context, filters postapp.Filters) ([]*postdomain.Post, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	result := make([]*postdomain.Post, 0, len(m.posts))
	for _, p := range m.posts {
		if filters.Category != "" && !p.HasCategory(filters.Category) {
			continue
		}
		if !filters.CreatedBy.IsZero() && p.CreatedBy() != filters.CreatedBy {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Update updates a post in the mock service.
func (m *MockPostService) Update(
	_ context.Context,
	actor authz.Actor,
	cmd postapp.UpdateCommand,
) (*postdomain.Post, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	p, ok := m.posts[cmd.PostID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if actor.UserID != p.CreatedBy() && !actor.Role.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if err := p.Apply(cmd.Update); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete deletes a post from the mock service.
func (m *MockPostService) Delete(_ context.Context, actor authz.Actor, id uuid.UUID) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	p, ok := m.posts[id]
	if !ok {
		return errs.ErrNotFound
	}
	if actor.UserID != p.CreatedBy() && !actor.Role.IsAdmin() {
		return errs.ErrForbidden
	}
	delete(m.posts, id)
	return nil
}

// Vote applies a vote to a post in the mock service.
func (m *MockPostService) Vote(_ context.Context, id uuid.UUID, direction vote.Direction) (int, error) {
	if m.ForcedErr != nil {
		return 0, m.ForcedErr
	}
	p, ok := m.posts[id]
	if !ok {
		return 0, errs.ErrNotFound
	}
	count := p.VoteCount() + direction.Delta()
	m.posts[id] = postdomain.Reconstruct(
		p.ID(), p.Title(), p.Description(), p.Categories(),
		p.CreatedBy(), count, p.CreatedAt(), p.UpdatedAt(),
	)
	return count, nil
}

// MockCommentService is a mock implementation of CommentService for testing.
type MockCommentService struct {
	comments map[uuid.UUID]*commentdomain.Comment

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

// NewMockCommentService creates a new mock comment service.
func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		comments: make(map[uuid.UUID]*commentdomain.Comment),
	}
}

// AddComment seeds the mock with a comment.
func (m *MockCommentService) AddComment(comment *commentdomain.Comment) {
	m.comments[comment.ID()] = comment
}

// Add creates a comment in the mock service.
func (m *MockCommentService) Add(_ context.Context, cmd commentapp.AddCommand) (*commentdomain.Comment, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	comment, err := commentdomain.NewComment(cmd.PostID, cmd.Description, cmd.CreatedBy)
	if err != nil {
		return nil, err
	}
	m.comments[comment.ID()] = comment
	return comment, nil
}

// Get gets a comment from the mock service.
func (m *MockCommentService) Get(_ context.Context, commentID uuid.UUID) (*commentdomain.Comment, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	comment, ok := m.comments[commentID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return comment, nil
}

// ListByPost lists comments for a post from the mock service.
func (m *MockCommentService) ListByPost(_ context.Context, postID uuid.UUID) ([]*commentdomain.Comment, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	result := make([]*commentdomain.Comment, 0)
	for _, comment := range m.comments {
		if comment.PostID() == postID {
			result = append(result, comment)
		}
	}
	return result, nil
}

// Update updates a comment in the mock service.
func (m *MockCommentService) Update(
	_ context.Context,
	actor authz.Actor,
	cmd commentapp.UpdateCommand,
) (*commentdomain.Comment, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	comment, ok := m.comments[cmd.CommentID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if actor.UserID != comment.CreatedBy() && !actor.Role.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	if err := comment.Apply(cmd.Update); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete deletes a comment from the mock service.
func (m *MockCommentService) Delete(_ context.Context, actor authz.Actor, commentID uuid.UUID) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	comment, ok := m.comments[commentID]
	if !ok {
		return errs.ErrNotFound
	}
	if actor.UserID != comment.CreatedBy() && !actor.Role.IsAdmin() {
		return errs.ErrForbidden
	}
	delete(m.comments, commentID)
	return nil
}

// Vote applies a vote to a comment in the mock service.
func (m *MockCommentService) Vote(_ context.Context, commentID uuid.UUID, direction vote.Direction) (int, error) {
	if m.ForcedErr != nil {
		return 0, m.ForcedErr
	}
	comment, ok := m.comments[commentID]
	if !ok {
		return 0, errs.ErrNotFound
	}
	count := comment.VoteCount() + direction.Delta()
	m.comments[commentID] = commentdomain.Reconstruct(
		comment.ID(), comment.Description(), count,
		comment.PostID(), comment.CreatedBy(), comment.CreatedAt(), comment.UpdatedAt(),
	)
	return count, nil
}

// MockUserService is a mock implementation of AuthService and UserService
// for testing.
type MockUserService struct {
	users     map[uuid.UUID]*userdomain.User
	passwords map[string]string
	token     string

	// ForcedErr, when set, is returned by every method.
	ForcedErr error
}

// NewMockUserService creates a new mock user service.
func NewMockUserService() *MockUserService {
	return &MockUserService{
		users:     make(map[uuid.UUID]*userdomain.User),
		passwords: make(map[string]string),
		token:     "test-token",
	}
}

// AddUser seeds the mock with a user and its password.
func (m *MockUserService) AddUser(u *userdomain.User, password string) {
	m.users[u.ID()] = u
	m.passwords[u.Email()] = password
}

// Register registers a user in the mock service.
func (m *MockUserService) Register(_ context.Context, cmd userapp.RegisterCommand) (*userdomain.User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	for _, u := range m.users {
		if u.Email() == cmd.Email {
			return nil, errs.ErrAlreadyExists
		}
	}
	u, err := userdomain.NewUser(cmd.Username, cmd.Email, "hashed:"+cmd.Password)
	if err != nil {
		return nil, err
	}
	m.users[u.ID()] = u
	m.passwords[u.Email()] = cmd.Password
	return u, nil
}

// Login authenticates a user against the mock service.
func (m *MockUserService) Login(_ context.Context, email, password string) (userapp.LoginResult, error) {
	if m.ForcedErr != nil {
		return userapp.LoginResult{}, m.ForcedErr
	}
	stored, ok := m.passwords[email]
	if !ok || stored != password {
		return userapp.LoginResult{}, errs.ErrUnauthorized
	}
	for _, u := range m.users {
		if u.Email() == email {
			return userapp.LoginResult{Token: m.token, User: u}, nil
		}
	}
	return userapp.LoginResult{}, errs.ErrUnauthorized
}

// Get gets a user from the mock service.
func (m *MockUserService) Get(_ context.Context, id uuid.UUID) (*userdomain.User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	u, ok := m.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// Update updates a user in the mock service.
func (m *MockUserService) Update(_ context.Context, cmd userapp.UpdateCommand) (*userdomain.User, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	u, ok := m.users[cmd.UserID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if cmd.Username != nil || cmd.Email != nil {
		if err := u.Apply(userdomain.Update{Username: cmd.Username, Email: cmd.Email}); err != nil {
			return nil, err
		}
	}
	if cmd.Role != nil {
		role, err := userdomain.ParseRole(*cmd.Role)
		if err != nil {
			return nil, err
		}
		if err := u.SetRole(role); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// ChangePassword changes a user's password in the mock service.
func (m *MockUserService) ChangePassword(_ context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	u, ok := m.users[userID]
	if !ok {
		return errs.ErrNotFound
	}
	if m.passwords[u.Email()] != oldPassword {
		return errs.ErrInvalidInput
	}
	m.passwords[u.Email()] = newPassword
	return nil
}

// Delete deletes a user from the mock service.
func (m *MockUserService) Delete(_ context.Context, id uuid.UUID) error {
	if m.ForcedErr != nil {
		return m.ForcedErr
	}
	u, ok := m.users[id]
	if !ok {
		return errs.ErrNotFound
	}
	delete(m.passwords, u.Email())
	delete(m.users, id)
	return nil
}

// List lists users from the mock service.
func (m *MockUserService) List(_ context.Context) ([]userapp.Listing, error) {
	if m.ForcedErr != nil {
		return nil, m.ForcedErr
	}
	listings := make([]userapp.Listing, 0, len(m.users))
	for _, u := range m.users {
		listings = append(listings, userapp.Listing{
			ID:        u.ID(),
			Username:  u.Username(),
			Email:     u.Email(),
			Role:      string(u.Role()),
			CreatedAt: u.CreatedAt(),
		})
	}
	return listings, nil
}
