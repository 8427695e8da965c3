package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

func TestDashboardStats_ZeroFillAndTotal(t *testing.T) {
	complaints := newStubComplaintRepo()
	complaints.statusCounts = map[domain.ComplaintStatus]int64{
		domain.StatusPending:  3,
		domain.StatusResolved: 2,
	}
	complaints.categoryCounts = map[domain.ComplaintCategory]int64{
		domain.CategoryNoise: 5,
	}
	users := newStubUserRepo()
	svc := NewDashboardService(complaints, users, zerolog.Nop())

	stats, err := svc.Stats(context.Background(), resident("res-1"))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.TotalComplaints != 5 {
		t.Errorf("total = %d, want 5 (sum of status counts)", stats.TotalComplaints)
	}
	if len(stats.ByStatus) != 4 {
		t.Errorf("status map not zero-filled: %+v", stats.ByStatus)
	}
	if stats.ByStatus[domain.StatusInProgress] != 0 || stats.ByStatus[domain.StatusCancelled] != 0 {
		t.Errorf("missing statuses not zeroed: %+v", stats.ByStatus)
	}
	if len(stats.ByCategory) != len(domain.AllCategories) {
		t.Errorf("category map has %d keys, want %d", len(stats.ByCategory), len(domain.AllCategories))
	}
	if len(stats.ByPriority) != len(domain.AllPriorities) {
		t.Errorf("priority map has %d keys, want %d", len(stats.ByPriority), len(domain.AllPriorities))
	}
	if stats.StaffPerformance != nil {
		t.Errorf("resident got staff performance: %+v", stats.StaffPerformance)
	}
}

func TestDashboardStats_StaffPerformanceForAdmin(t *testing.T) {
	complaints := newStubComplaintRepo()
	complaints.statusCounts = map[domain.ComplaintStatus]int64{}
	users := newStubUserRepo()
	users.seed(domain.User{ID: "staff-1", Name: "Sam", Email: "sam@x.io", Role: domain.RoleStaff, CommunityID: "comm-1"})

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	complaints.assignedCounts = map[string]int64{"staff-1": 4}
	complaints.spans = map[string][]ports.ResolvedSpan{
		"staff-1": {
			{CreatedAt: base, ResolvedAt: base.Add(24 * time.Hour)},
			{CreatedAt: base, ResolvedAt: base.Add(72 * time.Hour)},
		},
	}

	svc := NewDashboardService(complaints, users, zerolog.Nop())
	stats, err := svc.Stats(context.Background(), adminActor("adm-1"))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if len(stats.StaffPerformance) != 1 {
		t.Fatalf("staff performance rows = %d, want 1", len(stats.StaffPerformance))
	}
	perf := stats.StaffPerformance[0]
	if perf.Staff.ID != "staff-1" {
		t.Errorf("staff = %s, want staff-1", perf.Staff.ID)
	}
	if perf.AssignedCount != 4 {
		t.Errorf("assigned = %d, want 4", perf.AssignedCount)
	}
	if perf.ResolvedCount != 2 {
		t.Errorf("resolved = %d, want 2", perf.ResolvedCount)
	}
	// mean of 1 day and 3 days is 2 days
	if perf.AvgResolutionDays != 2 {
		t.Errorf("avg days = %d, want 2", perf.AvgResolutionDays)
	}
}

func TestAvgResolutionDays_Empty(t *testing.T) {
	if got := avgResolutionDays(nil); got != 0 {
		t.Errorf("avg of no spans = %d, want 0", got)
	}
}
