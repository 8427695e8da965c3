package service

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

const recentComplaintsLimit = 10

// DashboardService computes role-scoped aggregate statistics. Category and
// priority breakdowns are zero-filled over every known value so consumers
// can chart them without guarding against missing keys.
type DashboardService struct {
	complaints ports.ComplaintRepository
	users      ports.UserRepository
	logger     zerolog.Logger
}

func NewDashboardService(complaints ports.ComplaintRepository, users ports.UserRepository, logger zerolog.Logger) *DashboardService {
	return &DashboardService{complaints: complaints, users: users, logger: logger}
}

func (s *DashboardService) Stats(ctx context.Context, actor domain.Actor) (*ports.DashboardStats, error) {
	d := policy.Decide(actor, policy.ResourceDashboard, policy.ActionRead)
	if d.Effect == policy.Deny {
		return nil, domain.ErrForbidden
	}
	scope := d.Scope

	byStatus, err := s.complaints.CountByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.complaints.CountByCategory(ctx, scope)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.complaints.CountByPriority(ctx, scope)
	if err != nil {
		return nil, err
	}
	recent, err := s.complaints.Recent(ctx, scope, recentComplaintsLimit)
	if err != nil {
		return nil, err
	}

	stats := &ports.DashboardStats{
		ByStatus:   zeroFillStatus(byStatus),
		ByCategory: zeroFillCategory(byCategory),
		ByPriority: zeroFillPriority(byPriority),
		Recent:     recent,
	}
	for _, n := range stats.ByStatus {
		stats.TotalComplaints += n
	}

	if actor.IsAdmin() {
		perf, err := s.staffPerformance(ctx)
		if err != nil {
			return nil, err
		}
		stats.StaffPerformance = perf
	}
	return stats, nil
}

// staffPerformance computes, per staff member: assigned count, resolved
// count, and the rounded mean resolution time in whole days.
func (s *DashboardService) staffPerformance(ctx context.Context) ([]ports.StaffPerformance, error) {
	staff, _, err := s.users.List(ctx, ports.ListUsersFilter{Role: domain.RoleStaff, Limit: maxPageLimit, Page: 1})
	if err != nil {
		return nil, err
	}

	perf := make([]ports.StaffPerformance, 0, len(staff))
	for _, member := range staff {
		assigned, err := s.complaints.CountAssigned(ctx, member.ID)
		if err != nil {
			return nil, err
		}
		spans, err := s.complaints.ResolvedByAssignee(ctx, member.ID)
		if err != nil {
			return nil, err
		}

		perf = append(perf, ports.StaffPerformance{
			Staff:             member.Summary(),
			AssignedCount:     assigned,
			ResolvedCount:     int64(len(spans)),
			AvgResolutionDays: avgResolutionDays(spans),
		})
	}
	return perf, nil
}

// avgResolutionDays is round(mean(resolvedAt - createdAt) in days), 0 when
// there are no resolved complaints.
func avgResolutionDays(spans []ports.ResolvedSpan) int64 {
	if len(spans) == 0 {
		return 0
	}
	var total time.Duration
	for _, span := range spans {
		total += span.ResolvedAt.Sub(span.CreatedAt)
	}
	mean := total / time.Duration(len(spans))
	return int64(math.Round(mean.Hours() / 24))
}

func zeroFillStatus(counts map[domain.ComplaintStatus]int64) map[domain.ComplaintStatus]int64 {
	out := map[domain.ComplaintStatus]int64{
		domain.StatusPending:    0,
		domain.StatusInProgress: 0,
		domain.StatusResolved:   0,
		domain.StatusCancelled:  0,
	}
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func zeroFillCategory(counts map[domain.ComplaintCategory]int64) map[domain.ComplaintCategory]int64 {
	out := make(map[domain.ComplaintCategory]int64, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		out[c] = 0
	}
	for k, v := range counts {
		out[k] = v
	}
	return out
}

func zeroFillPriority(counts map[domain.ComplaintPriority]int64) map[domain.ComplaintPriority]int64 {
	out := make(map[domain.ComplaintPriority]int64, len(domain.AllPriorities))
	for _, p := range domain.AllPriorities {
		out[p] = 0
	}
	for k, v := range counts {
		out[k] = v
	}
	return out
}
