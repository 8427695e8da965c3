package ports

import (
	"context"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
)

// ListAnnouncementsFilter carries query parameters for announcements.
// When VisibleToRole is set the store applies the role/expiry visibility
// predicate itself, so the returned total counts only visible records.
type ListAnnouncementsFilter struct {
	Scope         policy.Scope
	VisibleToRole domain.Role
	VisibleAt     time.Time
	Page          int
	Limit         int
}

// AnnouncementRepository defines persistence for announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error)
	FindByID(ctx context.Context, id string) (*domain.Announcement, error)
	List(ctx context.Context, filter ListAnnouncementsFilter) ([]*domain.Announcement, int64, error)
	Update(ctx context.Context, id string, set map[string]any) (*domain.Announcement, error)
	Delete(ctx context.Context, id string) error
}
