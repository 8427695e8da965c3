// Package policy is the pure access-control decision layer. Given an actor
// and a (resource, action) pair it returns Allow, Deny, or Allow with a
// scoping predicate that list/read queries must apply. It performs no I/O
// and never returns an error: Deny is a decision, not a failure.
package policy

import "github.com/resihub/community-system/internal/core/domain"

// Resource names a protected entity class.
type Resource string

const (
	ResourceComplaint    Resource = "complaint"
	ResourceUser         Resource = "user"
	ResourceAssignment   Resource = "assignment"
	ResourceAnnouncement Resource = "announcement"
	ResourceFee          Resource = "fee"
	ResourceDashboard    Resource = "dashboard"
)

// Action names what the actor wants to do.
type Action string

const (
	ActionRead   Action = "read"
	ActionList   Action = "list"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Scope is the query predicate injected into scoped list/read operations.
// Zero-value fields are unconstrained; repositories translate set fields
// into store filters.
type Scope struct {
	SubmitterID string
	AssigneeID  string
	CommunityID string
}

// Unscoped reports whether the scope constrains nothing.
func (s Scope) Unscoped() bool {
	return s.SubmitterID == "" && s.AssigneeID == "" && s.CommunityID == ""
}

// Effect is the outcome of a policy decision.
type Effect int

const (
	Deny Effect = iota
	Allow
	AllowScoped
)

// Decision pairs an effect with its scope (meaningful only for AllowScoped).
type Decision struct {
	Effect Effect
	Scope  Scope
}

func deny() Decision { return Decision{Effect: Deny} }
func allow() Decision { return Decision{Effect: Allow} }
func scoped(s Scope) Decision { return Decision{Effect: AllowScoped, Scope: s} }

// Decide evaluates the rule table for an actor acting on a resource class.
// Per-record checks that need the record itself (staff ownership of a
// specific complaint, feedback by submitter) live in the services; Decide
// covers everything expressible from the actor alone.
func Decide(actor domain.Actor, resource Resource, action Action) Decision {
	if actor.ID == "" || !domain.ValidRole(actor.Role) {
		return deny()
	}

	switch resource {
	case ResourceComplaint:
		return decideComplaint(actor, action)
	case ResourceUser:
		return decideUser(actor, action)
	case ResourceAssignment:
		return decideAssignment(actor, action)
	case ResourceAnnouncement:
		return decideAnnouncement(actor, action)
	case ResourceFee:
		if actor.IsAdmin() {
			return allow()
		}
		return deny()
	case ResourceDashboard:
		return decideComplaint(actor, ActionList) // same scoping as complaint lists
	}
	return deny()
}

func decideComplaint(actor domain.Actor, action Action) Decision {
	switch action {
	case ActionCreate:
		// Any authenticated actor; the submitter is forced server-side.
		return allow()
	case ActionRead, ActionList:
		switch actor.Role {
		case domain.RoleResident:
			return scoped(Scope{SubmitterID: actor.ID, CommunityID: actor.CommunityID})
		case domain.RoleStaff:
			return scoped(Scope{AssigneeID: actor.ID, CommunityID: actor.CommunityID})
		default:
			return allow()
		}
	case ActionUpdate:
		switch actor.Role {
		case domain.RoleAdmin:
			return allow()
		case domain.RoleStaff:
			// Allowed in principle; services verify the complaint is
			// assigned to this actor before mutating.
			return scoped(Scope{AssigneeID: actor.ID})
		default:
			return deny()
		}
	case ActionDelete:
		// Complaints are permanent records: no delete surface for any role.
		return deny()
	}
	return deny()
}

func decideUser(actor domain.Actor, action Action) Decision {
	switch action {
	case ActionRead, ActionUpdate:
		// Self access is granted; services compare target id to actor id
		// and consult the field-mask table for updates.
		if actor.IsAdmin() {
			return allow()
		}
		return scoped(Scope{SubmitterID: actor.ID})
	case ActionList, ActionCreate, ActionDelete:
		if actor.IsAdmin() {
			return allow()
		}
		return deny()
	}
	return deny()
}

func decideAssignment(actor domain.Actor, action Action) Decision {
	switch action {
	case ActionCreate:
		if actor.IsAdmin() {
			return allow()
		}
		return deny()
	case ActionRead, ActionList:
		switch actor.Role {
		case domain.RoleAdmin:
			return allow()
		case domain.RoleStaff:
			return scoped(Scope{AssigneeID: actor.ID, CommunityID: actor.CommunityID})
		default:
			return deny()
		}
	}
	return deny()
}

func decideAnnouncement(actor domain.Actor, action Action) Decision {
	switch action {
	case ActionRead, ActionList:
		// Visibility (target roles, expiry) is evaluated per record with
		// Announcement.VisibleTo; community scoping applies here.
		if actor.IsAdmin() {
			return allow()
		}
		return scoped(Scope{CommunityID: actor.CommunityID})
	case ActionCreate, ActionUpdate, ActionDelete:
		if actor.IsAdmin() {
			return allow()
		}
		return deny()
	}
	return deny()
}
