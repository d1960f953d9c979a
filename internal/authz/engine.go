package authz

import (
	"github.com/google/uuid"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

// Permission names, as exposed to resolvers and the UI.
const (
	PermViewFamily    = "canViewFamily"
	PermManageMembers = "canManageMembers"
	PermDeleteFamily  = "canDeleteFamily"
)

// Permissions is the permission set derived from a role.
type Permissions map[string]bool

// PermissionsFor is pure and total: every role, including the absence of
// one, maps to a full permission set.
func PermissionsFor(role models.Role) Permissions {
	switch role {
	case models.RoleOwner:
		return Permissions{
			PermViewFamily:    true,
			PermManageMembers: true,
			PermDeleteFamily:  true,
		}
	case models.RoleAdmin:
		return Permissions{
			PermViewFamily:    true,
			PermManageMembers: true,
			PermDeleteFamily:  false,
		}
	case models.RoleMember:
		return Permissions{
			PermViewFamily:    true,
			PermManageMembers: false,
			PermDeleteFamily:  false,
		}
	default:
		return Permissions{
			PermViewFamily:    false,
			PermManageMembers: false,
			PermDeleteFamily:  false,
		}
	}
}

// AuthContext is the per-request trust object built by authctx.Enhancer.
// Built fresh for every request and discarded with it; never shared.
type AuthContext struct {
	IsAuthenticated bool           `json:"is_authenticated"`
	User            *models.User   `json:"user,omitempty"`
	Family          *models.Family `json:"family,omitempty"`
	Permissions     Permissions    `json:"permissions"`
	Error           string         `json:"error,omitempty"`
}

// Anonymous is the unauthenticated context used when no trust could be
// established. A non-empty reason records why, for diagnostics only.
func Anonymous(reason string) *AuthContext {
	return &AuthContext{
		IsAuthenticated: false,
		Permissions:     PermissionsFor(""),
		Error:           reason,
	}
}

// Guard functions return typed errors instead of booleans so callers fail
// fast without an extra branch. The transport layer maps the error kinds to
// response codes exactly once, in utils.HandleAppError.

// RequireAuthenticated fails unless the request carries a verified identity.
func RequireAuthenticated(authCtx *AuthContext) error {
	if authCtx == nil || !authCtx.IsAuthenticated {
		return utils.NewAuthenticationError(utils.ErrCodeUnauthorized, "Authentication required")
	}
	return nil
}

// RequireFamilyMembership fails unless the authenticated user belongs to a
// family.
func RequireFamilyMembership(authCtx *AuthContext) error {
	if err := RequireAuthenticated(authCtx); err != nil {
		return err
	}
	if authCtx.User == nil || authCtx.User.FamilyID == nil {
		return utils.NewAuthorizationError("Family membership required")
	}
	return nil
}

// RequirePermission fails with an authentication error for anonymous
// callers, and an authorization error for authenticated callers whose role
// does not grant the named permission.
func RequirePermission(authCtx *AuthContext, name string) error {
	if err := RequireAuthenticated(authCtx); err != nil {
		return err
	}
	if !authCtx.Permissions[name] {
		return utils.NewAuthorizationError("Missing permission: " + name)
	}
	return nil
}

// RequireSelfOrPermission passes when the caller acts on their own account,
// or otherwise holds the named permission.
func RequireSelfOrPermission(authCtx *AuthContext, targetUserID uuid.UUID, name string) error {
	if err := RequireAuthenticated(authCtx); err != nil {
		return err
	}
	if authCtx.User != nil && authCtx.User.ID == targetUserID {
		return nil
	}
	return RequirePermission(authCtx, name)
}
