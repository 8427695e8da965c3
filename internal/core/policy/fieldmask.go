package policy

import "github.com/resihub/community-system/internal/core/domain"

// UserUpdate carries the fields a PATCH on a user may set. Nil pointers
// mean "leave unchanged". Password is the plaintext to re-hash; the
// service hashes it before persisting.
type UserUpdate struct {
	Name        *string
	Phone       *string
	Apartment   *string
	Building    *string
	Email       *string
	Role        *domain.Role
	IsActive    *bool
	CommunityID *string
	Password    *string
}

// userField identifies one settable user attribute in the mask table.
type userField int

const (
	fieldName userField = iota
	fieldPhone
	fieldApartment
	fieldBuilding
	fieldEmail
	fieldRole
	fieldIsActive
	fieldCommunityID
	fieldPassword
)

// ownProfileFields is the field mask for non-admin actors editing their
// own record. Admins may set every field. Keeping this declarative avoids
// the per-field conditionals drifting away from the rule table.
var ownProfileFields = map[userField]bool{
	fieldName:      true,
	fieldPhone:     true,
	fieldApartment: true,
	fieldBuilding:  true,
}

// FilterUserUpdate returns the subset of upd the actor is permitted to
// apply to the target user, and whether anything was discarded.
func FilterUserUpdate(actor domain.Actor, targetID string, upd UserUpdate) (UserUpdate, bool) {
	if actor.IsAdmin() {
		return upd, false
	}
	if actor.ID != targetID {
		// Non-admins never touch someone else's record; the Decide scope
		// already blocks this, so an empty update is returned defensively.
		return UserUpdate{}, true
	}

	var out UserUpdate
	dropped := false
	keep := func(f userField) bool {
		if ownProfileFields[f] {
			return true
		}
		dropped = true
		return false
	}

	if upd.Name != nil && keep(fieldName) {
		out.Name = upd.Name
	}
	if upd.Phone != nil && keep(fieldPhone) {
		out.Phone = upd.Phone
	}
	if upd.Apartment != nil && keep(fieldApartment) {
		out.Apartment = upd.Apartment
	}
	if upd.Building != nil && keep(fieldBuilding) {
		out.Building = upd.Building
	}
	if upd.Email != nil {
		_ = keep(fieldEmail)
	}
	if upd.Role != nil {
		_ = keep(fieldRole)
	}
	if upd.IsActive != nil {
		_ = keep(fieldIsActive)
	}
	if upd.CommunityID != nil {
		_ = keep(fieldCommunityID)
	}
	if upd.Password != nil {
		_ = keep(fieldPassword)
	}
	return out, dropped
}
