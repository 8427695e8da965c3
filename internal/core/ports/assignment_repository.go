package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
)

// ListAssignmentsFilter carries query parameters for the assignment ledger.
type ListAssignmentsFilter struct {
	Scope  policy.Scope
	Status domain.AssignmentStatus // optional
	// Search matches the denormalized complaint title and the assignee
	// name/email, case-insensitively.
	Search string
	Page   int
	Limit  int
}

// AssignmentRepository defines persistence for the append-only assignment
// ledger. Delete exists solely as the compensating action when the paired
// complaint update fails.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error)
	List(ctx context.Context, filter ListAssignmentsFilter) ([]*domain.Assignment, int64, error)
	Delete(ctx context.Context, id string) error
}
