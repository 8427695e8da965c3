package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// StaffPerformance summarizes one staff member's workload. Average
// resolution time is whole days, rounded; 0 when nothing is resolved.
type StaffPerformance struct {
	Staff             domain.UserSummary `json:"staff"`
	AssignedCount     int64              `json:"assigned_count"`
	ResolvedCount     int64              `json:"resolved_count"`
	AvgResolutionDays int64              `json:"avg_resolution_days"`
}

// DashboardStats is the role-scoped aggregate view. Category and priority
// maps are zero-filled over every known value.
type DashboardStats struct {
	TotalComplaints  int64                                `json:"total_complaints"`
	ByStatus         map[domain.ComplaintStatus]int64     `json:"by_status"`
	ByCategory       map[domain.ComplaintCategory]int64   `json:"by_category"`
	ByPriority       map[domain.ComplaintPriority]int64   `json:"by_priority"`
	Recent           []*domain.Complaint                  `json:"recent"`
	StaffPerformance []StaffPerformance                   `json:"staff_performance,omitempty"`
}

// DashboardService computes aggregate statistics scoped by the same rules
// as complaint listing. Staff performance appears for admins only.
type DashboardService interface {
	Stats(ctx context.Context, actor domain.Actor) (*DashboardStats, error)
}
