package domain

import "time"

// ActivityLog is one entry in the append-only audit trail. Entries are
// never mutated or deleted after insertion; write failures are logged by
// callers and never fail the primary operation.
type ActivityLog struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	ActorID     string    `json:"actor_id" bson:"actor_id"`
	Action      string    `json:"action" bson:"action"`
	EntityType  string    `json:"entity_type" bson:"entity_type"`
	EntityID    string    `json:"entity_id" bson:"entity_id"`
	Details     string    `json:"details,omitempty" bson:"details,omitempty"`
	CommunityID string    `json:"community_id,omitempty" bson:"community_id,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
