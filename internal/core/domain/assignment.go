package domain

import (
	"errors"
	"time"
)

// AssignmentStatus is the state of a staff-complaint pairing.
// No exposed operation moves an assignment away from active; the ledger is
// treated as an append-only record and the complaint carries the live view.
type AssignmentStatus string

const (
	AssignmentActive    AssignmentStatus = "active"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentCancelled AssignmentStatus = "cancelled"
)

var ErrAssignmentNotFound = errors.New("assignment not found")

// Assignment is the auditable record of an admin pairing a staff member
// with a complaint. Complaint.Assignee/Status is the derived projection;
// the two are written as one unit of work.
type Assignment struct {
	ID          string           `json:"id" bson:"-"`
	ComplaintID string           `json:"complaint_id" bson:"complaint_id"`
	Assignee    UserRef          `json:"assignee" bson:"assignee"`
	AssignedBy  UserRef          `json:"assigned_by" bson:"assigned_by"`
	Status      AssignmentStatus `json:"status" bson:"status"`
	AssignedAt  time.Time        `json:"assigned_at" bson:"assigned_at"`
	DueDate     *time.Time       `json:"due_date,omitempty" bson:"due_date,omitempty"`
	Notes       string           `json:"notes,omitempty" bson:"notes,omitempty"`
	CommunityID string           `json:"community_id,omitempty" bson:"community_id,omitempty"`

	// ComplaintTitle is denormalized at write time so ledger listings and
	// free-text search do not require a join per row.
	ComplaintTitle string `json:"complaint_title" bson:"complaint_title"`
}
