package service

import "github.com/clinicore/clinicore/internal/auth/domain"

// Actor is the identity resolved from a presented access token. A nil *Actor
// means the request carried no valid token.
type Actor struct {
	ID       string
	Role     domain.Role
	Username string
}

// Action names an operation subject to an authorization decision.
type Action string

const (
	// Public actions: allowed without a resolved actor.
	ActionRegister Action = "register"
	ActionLogin    Action = "login"

	// Admin-only enumeration.
	ActionListUsers Action = "list-users"

	// Actions against a specific identity (target id required).
	ActionReadUser   Action = "read-user"
	ActionUpdateUser Action = "update-user"
	ActionDeleteUser Action = "delete-user"

	// Convenience actions with the target bound to the actor itself.
	ActionReadOwnProfile   Action = "read-own-profile"
	ActionUpdateOwnProfile Action = "update-own-profile"
)

// public actions may proceed without an authenticated actor.
func (a Action) public() bool {
	return a == ActionRegister || a == ActionLogin
}

// Authorize decides whether actor may perform action against the identity
// named by targetID. It is a pure function: no store access, no side effects.
// Rules are evaluated in order and the first match wins; anything that falls
// through is denied (fail closed).
//
//  1. No actor: deny unless the action is public.
//  2. Admin: permit everything in scope, including self-deletion.
//  3. list-users: admin only, denied here.
//  4. Identity-targeted actions: permit iff target is the actor itself.
//     Ownership is identity equality, nothing derived.
//  5. Own-profile actions are rule 4 with the target bound to the actor,
//     so any authenticated actor passes.
func Authorize(actor *Actor, action Action, targetID string) error {
	if actor == nil || actor.ID == "" {
		if action.public() {
			return nil
		}
		return ErrUnauthenticated
	}

	if actor.Role.IsAdmin() {
		return nil
	}

	switch action {
	case ActionRegister, ActionLogin:
		return nil
	case ActionListUsers:
		return ErrForbidden
	case ActionReadUser, ActionUpdateUser, ActionDeleteUser:
		if targetID == actor.ID {
			return nil
		}
		return ErrForbidden
	case ActionReadOwnProfile, ActionUpdateOwnProfile:
		return nil
	}

	return ErrForbidden
}
