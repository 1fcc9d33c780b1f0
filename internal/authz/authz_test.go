package authz

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/certtrack/exam-center/internal/models"
)

// ==========================
// Fixtures
// ==========================

func superadmin(id uint) Actor {
	return Actor{ID: id, Role: models.RoleSuperadmin}
}

func admin(id uint, franchises ...uint) Actor {
	return Actor{ID: id, Role: models.RoleAdmin, FranchiseIDs: franchises}
}

func member(id uint, franchises ...uint) Actor {
	return Actor{ID: id, Role: models.RoleUser, FranchiseIDs: franchises}
}

var allVerbs = []Verb{VerbRead, VerbCreate, VerbUpdate, VerbDelete}

// ==========================
// Role x action matrix
// ==========================

func TestAuthorizeMatrix(t *testing.T) {
	tests := []struct {
		name    string
		actor   Actor
		action  Action
		target  Target
		allowed bool
	}{
		// ---- superadmin: unrestricted ----
		{"superadmin deletes superadmin", superadmin(1), Action{VerbDelete, EntityUser}, Target{UserID: 2, UserRole: models.RoleSuperadmin}, true},
		{"superadmin creates superadmin", superadmin(1), Action{VerbCreate, EntityUser}, Target{RequestedRole: models.RoleSuperadmin}, true},
		{"superadmin writes exam data anywhere", superadmin(1), Action{VerbCreate, EntityExamRecord}, Target{FranchiseID: 99}, true},
		{"superadmin deletes franchise", superadmin(1), Action{VerbDelete, EntityFranchise}, Target{FranchiseID: 7}, true},

		// ---- admin: franchises ----
		{"admin creates franchise", admin(10), Action{VerbCreate, EntityFranchise}, Target{}, true},
		{"admin updates any franchise", admin(10), Action{VerbUpdate, EntityFranchise}, Target{FranchiseID: 42}, true},
		{"admin deletes any franchise", admin(10), Action{VerbDelete, EntityFranchise}, Target{FranchiseID: 42}, true},

		// ---- admin: users ----
		{"admin creates plain user", admin(10), Action{VerbCreate, EntityUser}, Target{RequestedRole: models.RoleUser}, true},
		{"admin creates another admin", admin(10), Action{VerbCreate, EntityUser}, Target{RequestedRole: models.RoleAdmin}, true},
		{"admin cannot create superadmin", admin(10), Action{VerbCreate, EntityUser}, Target{RequestedRole: models.RoleSuperadmin}, false},
		{"admin cannot promote to superadmin", admin(10), Action{VerbUpdate, EntityUser}, Target{UserID: 3, UserRole: models.RoleUser, RequestedRole: models.RoleSuperadmin}, false},
		{"admin updates other admin", admin(10), Action{VerbUpdate, EntityUser}, Target{UserID: 11, UserRole: models.RoleAdmin}, true},
		{"admin updates itself", admin(10), Action{VerbUpdate, EntityUser}, Target{UserID: 10, UserRole: models.RoleAdmin}, true},
		{"admin cannot update superadmin", admin(10), Action{VerbUpdate, EntityUser}, Target{UserID: 1, UserRole: models.RoleSuperadmin}, false},
		{"admin cannot delete superadmin", admin(10), Action{VerbDelete, EntityUser}, Target{UserID: 1, UserRole: models.RoleSuperadmin}, false},
		{"admin deletes plain user", admin(10), Action{VerbDelete, EntityUser}, Target{UserID: 3, UserRole: models.RoleUser}, true},
		{"admin reads users", admin(10), Action{VerbRead, EntityUser}, Target{UserID: 1, UserRole: models.RoleSuperadmin}, true},

		// ---- admin: exam data is not membership-scoped ----
		{"admin writes exam data in foreign franchise", admin(10, 1), Action{VerbCreate, EntityExamRecord}, Target{FranchiseID: 2}, true},
		{"admin deletes exam data in foreign franchise", admin(10), Action{VerbDelete, EntityExamRecord}, Target{FranchiseID: 5}, true},

		// ---- user: own account only ----
		{"user reads own account", member(20, 1), Action{VerbRead, EntityUser}, Target{UserID: 20}, true},
		{"user cannot read other account", member(20, 1), Action{VerbRead, EntityUser}, Target{UserID: 21}, false},
		{"user cannot create users", member(20, 1), Action{VerbCreate, EntityUser}, Target{RequestedRole: models.RoleUser}, false},
		{"user cannot delete users", member(20, 1), Action{VerbDelete, EntityUser}, Target{UserID: 21, UserRole: models.RoleUser}, false},

		// ---- user: franchises ----
		{"user reads member franchise", member(20, 1, 2), Action{VerbRead, EntityFranchise}, Target{FranchiseID: 2}, true},
		{"user cannot read foreign franchise", member(20, 1), Action{VerbRead, EntityFranchise}, Target{FranchiseID: 2}, false},
		{"user cannot create franchises", member(20, 1), Action{VerbCreate, EntityFranchise}, Target{}, false},
		{"user cannot delete franchises", member(20, 1), Action{VerbDelete, EntityFranchise}, Target{FranchiseID: 1}, false},

		// ---- user: exam data scoped to memberships ----
		{"user writes exam data in member franchise", member(20, 1), Action{VerbCreate, EntityExamRecord}, Target{FranchiseID: 1}, true},
		{"user cannot write exam data in foreign franchise", member(20, 1), Action{VerbCreate, EntityExamRecord}, Target{FranchiseID: 2}, false},
		{"user updates exam data in member franchise", member(20, 1, 3), Action{VerbUpdate, EntityExamRecord}, Target{FranchiseID: 3}, true},
		{"user cannot delete exam data in foreign franchise", member(20, 1), Action{VerbDelete, EntityExamRecord}, Target{FranchiseID: 9}, false},
		{"user with no memberships denied", member(20), Action{VerbCreate, EntityExamRecord}, Target{FranchiseID: 1}, false},

		// ---- unknown role ----
		{"unknown role denied", Actor{ID: 5, Role: "ghost"}, Action{VerbRead, EntityUser}, Target{UserID: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Authorize(tt.actor, tt.action, tt.target)
			assert.Equal(t, tt.allowed, decision.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, decision.Reason)
			}
		})
	}
}

// ==========================
// Superadmin protection invariant
// ==========================

// No admin actor, for any verb and any id combination, may mutate or
// delete a superadmin target.
func TestAdminNeverTouchesSuperadmin(t *testing.T) {
	verbs := []Verb{VerbCreate, VerbUpdate, VerbDelete}

	for actorID := uint(1); actorID <= 5; actorID++ {
		for targetID := uint(1); targetID <= 5; targetID++ {
			for _, verb := range verbs {
				name := fmt.Sprintf("admin_%d_%s_superadmin_%d", actorID, verb, targetID)
				t.Run(name, func(t *testing.T) {
					decision := Authorize(
						admin(actorID, 1, 2, 3),
						Action{Verb: verb, Entity: EntityUser},
						Target{UserID: targetID, UserRole: models.RoleSuperadmin},
					)
					if actorID == targetID {
						// Self-service on one's own account is not the
						// superadmin takeover this rule guards against.
						return
					}
					assert.False(t, decision.Allowed, "admin %d must not %s superadmin %d", actorID, verb, targetID)
				})
			}
		}
	}
}

// Denial reasons surface to API clients verbatim, so each must name the
// rule that actually fired: touching a superadmin target is a different
// refusal than trying to hand out the superadmin role.
func TestAdminDenialReasonNamesCause(t *testing.T) {
	d := Authorize(
		admin(10),
		Action{Verb: VerbUpdate, Entity: EntityUser},
		Target{UserID: 1, UserRole: models.RoleSuperadmin},
	)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Only superadmins can modify or delete other superadmins.", d.Reason)

	d = Authorize(
		admin(10),
		Action{Verb: VerbUpdate, Entity: EntityUser},
		Target{UserID: 3, UserRole: models.RoleUser, RequestedRole: models.RoleSuperadmin},
	)
	assert.False(t, d.Allowed)
	assert.Equal(t, "Only superadmins can assign the superadmin role.", d.Reason)
}

// A user actor is denied everything on user entities except reading
// itself, regardless of verb.
func TestUserRoleCannotManageAccounts(t *testing.T) {
	for _, verb := range allVerbs {
		decision := Authorize(
			member(7, 1),
			Action{Verb: verb, Entity: EntityUser},
			Target{UserID: 8, UserRole: models.RoleUser},
		)
		assert.False(t, decision.Allowed, "verb %s", verb)
	}
}
