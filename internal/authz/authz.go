package authz

import (
	"github.com/certtrack/exam-center/internal/models"
)

// ===============================
// Actions
// ===============================

type Verb string

const (
	VerbRead   Verb = "read"
	VerbCreate Verb = "create"
	VerbUpdate Verb = "update"
	VerbDelete Verb = "delete"
)

type Entity string

const (
	EntityUser       Entity = "user"
	EntityFranchise  Entity = "franchise"
	EntityExamRecord Entity = "examRecord"
)

type Action struct {
	Verb   Verb
	Entity Entity
}

// ===============================
// Actor / Target
// ===============================

// Actor is the authenticated caller. It is threaded explicitly through
// every decision; there is no ambient request-user state.
type Actor struct {
	ID           uint
	Role         string
	FranchiseIDs []uint
}

// Target identifies the resource an action is aimed at. Zero fields mean
// "not applicable" (e.g. FranchiseID on a user read).
type Target struct {
	UserID   uint
	UserRole string

	FranchiseID uint

	// For user create/update: the role the actor wants the target to have.
	RequestedRole string
}

// ===============================
// Decision
// ===============================

type Decision struct {
	Allowed bool
	Reason  string
}

func admit() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// ===============================
// Rules
// ===============================

// Authorize decides whether actor may perform action on target. Pure:
// it never touches storage and has no side effects.
func Authorize(actor Actor, action Action, target Target) Decision {
	switch actor.Role {
	case models.RoleSuperadmin:
		return authorizeSuperadmin(actor, action, target)
	case models.RoleAdmin:
		return authorizeAdmin(actor, action, target)
	case models.RoleUser:
		return authorizeUser(actor, action, target)
	}
	return deny("unknown role")
}

// Superadmins are unrestricted. The superadmin-target guard in
// authorizeAdmin never applies to them.
func authorizeSuperadmin(_ Actor, _ Action, _ Target) Decision {
	return admit()
}

func authorizeAdmin(actor Actor, action Action, target Target) Decision {
	switch action.Entity {
	case EntityFranchise:
		return admit()

	case EntityUser:
		if action.Verb == VerbRead {
			return admit()
		}
		// Admins may never touch a superadmin account that is not their own.
		if target.UserRole == models.RoleSuperadmin && target.UserID != actor.ID {
			return deny("Only superadmins can modify or delete other superadmins.")
		}
		// Nor grant (or keep) the superadmin role on anyone.
		if (action.Verb == VerbCreate || action.Verb == VerbUpdate) &&
			target.RequestedRole == models.RoleSuperadmin {
			return deny("Only superadmins can assign the superadmin role.")
		}
		return admit()

	case EntityExamRecord:
		// Exam-data CRUD is not membership-scoped for admins.
		return admit()
	}
	return deny("unknown entity")
}

func authorizeUser(actor Actor, action Action, target Target) Decision {
	switch action.Entity {
	case EntityUser:
		if action.Verb == VerbRead && target.UserID == actor.ID {
			return admit()
		}
		return deny("users cannot manage accounts")

	case EntityFranchise:
		if action.Verb == VerbRead && memberOf(actor, target.FranchiseID) {
			return admit()
		}
		return deny("users cannot manage franchises")

	case EntityExamRecord:
		if memberOf(actor, target.FranchiseID) {
			return admit()
		}
		return deny("not authorized for this franchise")
	}
	return deny("unknown entity")
}

func memberOf(actor Actor, franchiseID uint) bool {
	for _, id := range actor.FranchiseIDs {
		if id == franchiseID {
			return true
		}
	}
	return false
}
