package domain

import (
	"errors"
	"time"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

// Announcement is a community-wide notice. An empty TargetRoles list means
// the announcement is visible to every role.
type Announcement struct {
	ID          string     `json:"id" bson:"-"`
	Title       string     `json:"title" bson:"title"`
	Body        string     `json:"body" bson:"body"`
	TargetRoles []Role     `json:"target_roles,omitempty" bson:"target_roles,omitempty"`
	Attachments []string   `json:"attachments,omitempty" bson:"attachments,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	CreatedBy   UserRef    `json:"created_by" bson:"created_by"`
	CommunityID string     `json:"community_id,omitempty" bson:"community_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// VisibleTo reports whether the announcement may be shown to the given
// role at time now: the target-role list is empty or contains the role,
// and the announcement has not expired.
func (a *Announcement) VisibleTo(role Role, now time.Time) bool {
	if a.ExpiresAt != nil && !a.ExpiresAt.After(now) {
		return false
	}
	if len(a.TargetRoles) == 0 {
		return true
	}
	for _, r := range a.TargetRoles {
		if r == role {
			return true
		}
	}
	return false
}
