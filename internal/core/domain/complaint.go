package domain

import (
	"errors"
	"time"
)

// ComplaintStatus represents the lifecycle state of a complaint.
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "pending"
	StatusInProgress ComplaintStatus = "in_progress"
	StatusResolved   ComplaintStatus = "resolved"
	StatusCancelled  ComplaintStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// resolved and cancelled are terminal.
var validTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusResolved, StatusCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s ComplaintStatus) CanTransitionTo(next ComplaintStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the four known statuses.
func ValidStatus(s ComplaintStatus) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusCancelled:
		return true
	}
	return false
}

// ComplaintCategory classifies what a complaint is about.
type ComplaintCategory string

const (
	CategoryMaintenance ComplaintCategory = "maintenance"
	CategorySecurity    ComplaintCategory = "security"
	CategoryCleanliness ComplaintCategory = "cleanliness"
	CategoryNoise       ComplaintCategory = "noise"
	CategoryParking     ComplaintCategory = "parking"
	CategoryUtilities   ComplaintCategory = "utilities"
	CategorySafety      ComplaintCategory = "safety"
	CategoryOther       ComplaintCategory = "other"
)

// AllCategories lists every category, in the order dashboards report them.
var AllCategories = []ComplaintCategory{
	CategoryMaintenance, CategorySecurity, CategoryCleanliness, CategoryNoise,
	CategoryParking, CategoryUtilities, CategorySafety, CategoryOther,
}

// ComplaintPriority orders complaints by urgency.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "low"
	PriorityMedium ComplaintPriority = "medium"
	PriorityHigh   ComplaintPriority = "high"
	PriorityUrgent ComplaintPriority = "urgent"
)

// AllPriorities lists every priority, in the order dashboards report them.
var AllPriorities = []ComplaintPriority{
	PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent,
}

// ValidCategory reports whether c is a known category.
func ValidCategory(c ComplaintCategory) bool {
	for _, k := range AllCategories {
		if k == c {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p ComplaintPriority) bool {
	for _, k := range AllPriorities {
		if k == p {
			return true
		}
	}
	return false
}

var ErrValidation = errors.New("invalid input")
var ErrComplaintNotFound = errors.New("complaint not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")
var ErrNotResolved = errors.New("complaint is not resolved")
var ErrInvalidRating = errors.New("rating must be between 1 and 5")
var ErrNotStaff = errors.New("assignee must be an active staff account")

// Location pinpoints where in the community a complaint applies.
type Location struct {
	Building string  `json:"building,omitempty" bson:"building,omitempty"`
	Floor    string  `json:"floor,omitempty" bson:"floor,omitempty"`
	Room     string  `json:"room,omitempty" bson:"room,omitempty"`
	Lat      float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng      float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// Note is a comment appended to a complaint by staff or admin. Internal
// notes are stripped from every resident-facing read.
type Note struct {
	Content    string    `json:"content" bson:"content"`
	Author     UserRef   `json:"author" bson:"author"`
	IsInternal bool      `json:"is_internal" bson:"is_internal"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
}

// Feedback is the submitter's rating of a resolved complaint.
type Feedback struct {
	Rating      int       `json:"rating" bson:"rating"`
	Comment     string    `json:"comment,omitempty" bson:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at" bson:"submitted_at"`
}

// StatusChange records a single transition in the complaint's history.
type StatusChange struct {
	Status    ComplaintStatus `json:"status" bson:"status"`
	ChangedBy string          `json:"changed_by" bson:"changed_by"`
	Timestamp time.Time       `json:"timestamp" bson:"timestamp"`
}

// Complaint is the core aggregate root.
type Complaint struct {
	ID            string            `json:"id" bson:"-"`
	Title         string            `json:"title" bson:"title"`
	Description   string            `json:"description" bson:"description"`
	Category      ComplaintCategory `json:"category" bson:"category"`
	Priority      ComplaintPriority `json:"priority" bson:"priority"`
	Status        ComplaintStatus   `json:"status" bson:"status"`
	Submitter     UserRef           `json:"submitter" bson:"submitter"`
	Assignee      *UserRef          `json:"assignee,omitempty" bson:"assignee,omitempty"`
	Images        []string          `json:"images,omitempty" bson:"images,omitempty"`
	Location      *Location         `json:"location,omitempty" bson:"location,omitempty"`
	CommunityID   string            `json:"community_id,omitempty" bson:"community_id,omitempty"`
	Notes         []Note            `json:"notes,omitempty" bson:"notes,omitempty"`
	ProofImages   []string          `json:"proof_images,omitempty" bson:"proof_images,omitempty"`
	StatusHistory []StatusChange    `json:"status_history,omitempty" bson:"status_history,omitempty"`
	ResolvedAt    *time.Time        `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	Feedback      *Feedback         `json:"feedback,omitempty" bson:"feedback,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" bson:"updated_at"`
}

// VisibleNotes returns the notes the given role may see. Residents never
// see internal notes.
func (c *Complaint) VisibleNotes(role Role) []Note {
	if role != RoleResident {
		return c.Notes
	}
	visible := make([]Note, 0, len(c.Notes))
	for _, n := range c.Notes {
		if !n.IsInternal {
			visible = append(visible, n)
		}
	}
	return visible
}
