package domain

import "time"

// EventKind names a lifecycle event consumed by the notification fan-out.
type EventKind string

const (
	EventComplaintCreated   EventKind = "complaint.created"
	EventComplaintAssigned  EventKind = "complaint.assigned"
	EventStatusChanged      EventKind = "complaint.status_changed"
	EventFeedbackSubmitted  EventKind = "complaint.feedback"
	EventAnnouncementPosted EventKind = "announcement.posted"
)

// LifecycleEvent is emitted after every state-changing operation. Delivery
// is best-effort: the fan-out logs and drops failures, it never aborts the
// write that produced the event.
type LifecycleEvent struct {
	ID          string    `json:"id"`
	Kind        EventKind `json:"kind"`
	ComplaintID string    `json:"complaint_id,omitempty"`
	UserID      string    `json:"user_id,omitempty"` // recipient hint (e.g. assignee)
	CommunityID string    `json:"community_id,omitempty"`
	ActorID     string    `json:"actor_id"`
	Detail      string    `json:"detail,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}
