package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// ListUsersFilter carries query parameters for the admin user listing.
type ListUsersFilter struct {
	Role        domain.Role // optional
	Search      string      // optional: partial match on name or email
	CommunityID string      // optional
	Page        int         // 1-based
	Limit       int
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks up the normalized (lowercase, trimmed) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindSummaries resolves a set of user ids to embeddable projections.
	FindSummaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	// Update applies the given field set atomically to a single document.
	Update(ctx context.Context, id string, set map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) error
}
