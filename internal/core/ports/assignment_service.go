package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// ListAssignmentsInput carries the ledger listing parameters.
type ListAssignmentsInput struct {
	Status domain.AssignmentStatus
	Search string
	Page   int
	Limit  int
}

// ListAssignmentsResult is a page of assignments plus pagination totals.
type ListAssignmentsResult struct {
	Items      []*domain.Assignment
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AssignmentService exposes the assignment ledger. Creation is delegated
// to ComplaintService.AssignStaff so the dual write lives in one place.
type AssignmentService interface {
	List(ctx context.Context, actor domain.Actor, input ListAssignmentsInput) (*ListAssignmentsResult, error)
}
