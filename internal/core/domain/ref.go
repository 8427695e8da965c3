package domain

// UserRef is a reference to a user that is either a bare id or a resolved
// summary, with the state explicit at every call site. Repositories store
// the id; read paths that join against the user collection return the
// resolved form.
type UserRef struct {
	ID   string       `json:"id" bson:"id"`
	User *UserSummary `json:"user,omitempty" bson:"-"`
}

// RefID returns a bare (unresolved) reference.
func RefID(id string) UserRef { return UserRef{ID: id} }

// RefResolved returns a resolved reference carrying the user projection.
func RefResolved(u UserSummary) UserRef { return UserRef{ID: u.ID, User: &u} }

// Resolved reports whether the reference carries the user projection.
func (r UserRef) Resolved() bool { return r.User != nil }

// Resolve attaches a summary to the reference in place when the ids match.
func (r *UserRef) Resolve(u UserSummary) {
	if r.ID == u.ID {
		r.User = &u
	}
}
