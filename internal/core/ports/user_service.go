package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
)

// CreateUserInput is the admin account-creation payload (any role).
type CreateUserInput struct {
	Name        string
	Email       string
	Password    string
	Role        domain.Role
	Phone       string
	Apartment   string
	Building    string
	CommunityID string
}

// ListUsersInput carries the admin listing parameters.
type ListUsersInput struct {
	Role   domain.Role
	Search string
	Page   int
	Limit  int
}

// ListUsersResult is a page of users plus pagination totals.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService implements directory operations over accounts.
type UserService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	List(ctx context.Context, actor domain.Actor, input ListUsersInput) (*ListUsersResult, error)
	// Update applies the permitted subset of upd per the role field-mask
	// table. Non-admins may only update their own record.
	Update(ctx context.Context, actor domain.Actor, id string, upd policy.UserUpdate) (*domain.User, error)
	// Delete removes an account. Admin only; self-delete is rejected.
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
