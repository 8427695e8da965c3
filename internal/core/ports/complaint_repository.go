package ports

import (
	"context"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
)

// ListComplaintsFilter combines the policy scope with the caller's explicit
// query filters. The scope always wins: explicit filters only narrow it.
type ListComplaintsFilter struct {
	Scope      policy.Scope
	Status     domain.ComplaintStatus   // optional
	Priority   domain.ComplaintPriority // optional
	Category   domain.ComplaintCategory // optional
	AssigneeID string                   // optional, admin narrowing
	Page       int                      // 1-based
	Limit      int
}

// ComplaintRepository defines persistence operations for complaints.
// All single-record mutations use the store's atomic field-set update.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error)
	FindByID(ctx context.Context, id string, scope policy.Scope) (*domain.Complaint, error)
	// List returns a page of complaints newest-first and the total count.
	List(ctx context.Context, filter ListComplaintsFilter) ([]*domain.Complaint, int64, error)
	// SetStatus atomically updates status (and resolved_at when non-nil)
	// and appends a status-history entry.
	SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, changedBy string, resolvedAt *time.Time) error
	// SetAssignee atomically sets the assignee reference and forces status
	// to in_progress, appending the matching history entry.
	SetAssignee(ctx context.Context, id string, assignee domain.UserRef, changedBy string) error
	AppendNote(ctx context.Context, id string, note domain.Note) error
	SetFeedback(ctx context.Context, id string, fb domain.Feedback) error

	// Aggregations for the dashboard, evaluated under the given scope.
	CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.ComplaintStatus]int64, error)
	CountByCategory(ctx context.Context, scope policy.Scope) (map[domain.ComplaintCategory]int64, error)
	CountByPriority(ctx context.Context, scope policy.Scope) (map[domain.ComplaintPriority]int64, error)
	Recent(ctx context.Context, scope policy.Scope, limit int) ([]*domain.Complaint, error)
	// ResolvedByAssignee returns, per staff id, the created/resolved
	// timestamps of that staff member's resolved complaints.
	ResolvedByAssignee(ctx context.Context, assigneeID string) ([]ResolvedSpan, error)
	CountAssigned(ctx context.Context, assigneeID string) (int64, error)
}

// ResolvedSpan is the (createdAt, resolvedAt) pair of one resolved
// complaint, used to compute average resolution time.
type ResolvedSpan struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}
