package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// RegisterInput carries self-registration data. The role is always
// resident; admin-created accounts go through UserService.Create.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Apartment string
	Building  string
}

// AuthService implements registration and login.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login returns a signed token and the authenticated user.
	// Deactivated accounts fail with domain.ErrAccountDisabled.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
