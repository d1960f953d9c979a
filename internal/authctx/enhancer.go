package authctx

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/authz"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/revocation"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

// UserFinder and FamilyFinder are the read-only persistence collaborators;
// both return nil, nil for a missing row.
type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type FamilyFinder interface {
	FindFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error)
}

// Enhancer is the single per-request trust boundary. Every failure that
// concerns the token itself degrades to an unauthenticated context carrying
// a diagnostic reason; only unexpected persistence failures propagate.
//
// When the revocation store is unreachable the enhancer fails closed: the
// token is treated as revoked. A token we cannot clear is a token we do not
// trust.
type Enhancer struct {
	codec       *tokens.Codec
	revocations *revocation.Store
	users       UserFinder
	families    FamilyFinder
}

func NewEnhancer(
	codec *tokens.Codec,
	revocations *revocation.Store,
	users UserFinder,
	families FamilyFinder,
) *Enhancer {
	return &Enhancer{
		codec:       codec,
		revocations: revocations,
		users:       users,
		families:    families,
	}
}

// Enhance builds the AuthContext for one request. The returned context is
// never nil; the error return is non-nil only for infrastructure failures
// from the persistence collaborator.
//
// Checks run cheapest first: signature/expiry, then revocation, then
// persistence lookups.
func (e *Enhancer) Enhance(ctx context.Context, r *http.Request) (*authz.AuthContext, error) {
	tokenString, ok := extractBearerToken(r)
	if !ok {
		return authz.Anonymous(""), nil
	}
	if tokenString == "" {
		return authz.Anonymous("malformed authorization header"), nil
	}

	claims, err := e.codec.Verify(tokens.AudienceAccess, tokenString)
	if err != nil {
		return authz.Anonymous(err.Error()), nil
	}

	revoked, err := e.revocations.IsRevoked(ctx, tokenString)
	if err != nil {
		// fail-closed
		utils.Logger.WithError(err).Warn("Revocation check unavailable; rejecting token")
		return authz.Anonymous("revocation check unavailable"), nil
	}
	if revoked {
		return authz.Anonymous("revoked"), nil
	}

	subjectID, err := uuid.Parse(claims.Subject())
	if err != nil {
		return authz.Anonymous("invalid subject claim"), nil
	}

	user, err := e.users.FindUserByID(ctx, subjectID)
	if err != nil {
		return authz.Anonymous("user lookup failed"), utils.NewInfrastructureError("user lookup failed", err)
	}
	if user == nil {
		return authz.Anonymous(fmt.Sprintf("user %s not found", subjectID)), nil
	}

	var family *models.Family
	if user.FamilyID != nil {
		family, err = e.families.FindFamilyByID(ctx, *user.FamilyID)
		if err != nil {
			return authz.Anonymous("family lookup failed"), utils.NewInfrastructureError("family lookup failed", err)
		}
		if family == nil {
			// identity stands; the dangling reference is a data problem
			utils.Logger.Warnf("User %s references missing family %s", user.ID, *user.FamilyID)
		}
	}

	return &authz.AuthContext{
		IsAuthenticated: true,
		User:            user,
		Family:          family,
		Permissions:     authz.PermissionsFor(user.Role),
	}, nil
}

// extractBearerToken returns (token, true) for a well-formed header,
// ("", true) for a present but malformed one, and ("", false) when the
// header is absent.
func extractBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return "", true
	}
	token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return token, true
}
