package domain

// Actor is the authenticated account performing an operation. It is passed
// explicitly into every policy and service call; there is no ambient
// "current user" state anywhere in the core.
type Actor struct {
	ID          string
	Role        Role
	CommunityID string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsStaff reports whether the actor carries the staff role.
func (a Actor) IsStaff() bool { return a.Role == RoleStaff }
