package ports

import (
	"context"
	"io"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
)

// ImageUpload is one multipart file attached to a complaint.
type ImageUpload struct {
	Name   string
	Reader io.Reader
}

// CreateComplaintInput carries everything needed to file a complaint.
// The submitter is always forced to the acting user.
type CreateComplaintInput struct {
	Title       string
	Description string
	Category    domain.ComplaintCategory
	Priority    domain.ComplaintPriority // empty = medium
	Location    *domain.Location
	Images      []ImageUpload
}

// ListComplaintsInput carries the list parameters before policy scoping.
type ListComplaintsInput struct {
	Status     domain.ComplaintStatus
	Priority   domain.ComplaintPriority
	Category   domain.ComplaintCategory
	AssigneeID string // admin narrowing only
	Page       int
	Limit      int // default 10
}

// ListComplaintsResult is a page of complaints plus pagination totals.
type ListComplaintsResult struct {
	Items      []*domain.Complaint
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// AssignStaffInput pairs a complaint with a staff member.
type AssignStaffInput struct {
	ComplaintID string
	StaffID     string
	DueDate     *time.Time
	Notes       string
}

// ComplaintService defines the lifecycle operations for complaints.
type ComplaintService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateComplaintInput) (*domain.Complaint, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.Complaint, error)
	List(ctx context.Context, actor domain.Actor, input ListComplaintsInput) (*ListComplaintsResult, error)
	// UpdateStatus validates the transition table and the actor's
	// authority over this specific complaint.
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
	// AssignStaff is admin-only and writes the Assignment ledger record
	// together with the complaint projection as one unit of work.
	AssignStaff(ctx context.Context, actor domain.Actor, input AssignStaffInput) (*domain.Assignment, error)
	AddNote(ctx context.Context, actor domain.Actor, id, content string, isInternal bool) (*domain.Complaint, error)
	// SubmitFeedback records the submitter's rating on a resolved
	// complaint. Resubmission overwrites the previous feedback.
	SubmitFeedback(ctx context.Context, actor domain.Actor, id string, rating int, comment string) (*domain.Complaint, error)
}
