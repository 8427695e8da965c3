package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

// AssignmentService reads the assignment ledger. Creation happens through
// ComplaintService.AssignStaff so the complaint projection and the ledger
// record are written in one place.
type AssignmentService struct {
	repo   ports.AssignmentRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewAssignmentService(repo ports.AssignmentRepository, users ports.UserRepository, logger zerolog.Logger) *AssignmentService {
	return &AssignmentService{repo: repo, users: users, logger: logger}
}

// List returns a scoped page of assignments. Staff see only their own;
// admins see everything, optionally narrowed by status and search.
func (s *AssignmentService) List(ctx context.Context, actor domain.Actor, input ports.ListAssignmentsInput) (*ports.ListAssignmentsResult, error) {
	d := policy.Decide(actor, policy.ResourceAssignment, policy.ActionList)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}

	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.repo.List(ctx, ports.ListAssignmentsFilter{
		Scope:  d.Scope,
		Status: input.Status,
		Search: input.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	s.resolveAssigners(ctx, items)

	return &ports.ListAssignmentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// resolveAssigners expands the assigned_by references; the assignee is
// already resolved at write time. Lookup failures leave bare ids.
func (s *AssignmentService) resolveAssigners(ctx context.Context, items []*domain.Assignment) {
	ids := make([]string, 0, len(items))
	for _, a := range items {
		ids = append(ids, a.AssignedBy.ID)
	}
	if len(ids) == 0 {
		return
	}

	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve assigner refs")
		return
	}
	for _, a := range items {
		if u, ok := summaries[a.AssignedBy.ID]; ok {
			a.AssignedBy.Resolve(u)
		}
	}
}
