package ports

import (
	"context"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
)

// CreateAnnouncementInput carries a new announcement. Attachments are
// uploaded through the image store before the record is persisted.
type CreateAnnouncementInput struct {
	Title       string
	Body        string
	TargetRoles []domain.Role
	ExpiresAt   *time.Time
	Attachments []ImageUpload
}

// UpdateAnnouncementInput carries a partial announcement update.
type UpdateAnnouncementInput struct {
	Title       *string
	Body        *string
	TargetRoles *[]domain.Role
	ExpiresAt   *time.Time
}

// ListAnnouncementsResult is a page of announcements.
type ListAnnouncementsResult struct {
	Items      []*domain.Announcement
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AnnouncementService implements role- and expiry-filtered announcements.
type AnnouncementService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateAnnouncementInput) (*domain.Announcement, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Announcement, error)
	List(ctx context.Context, actor domain.Actor, page, limit int) (*ListAnnouncementsResult, error)
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateAnnouncementInput) (*domain.Announcement, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
