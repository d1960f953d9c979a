package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/repositories"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/revocation"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

// AuthService implements the flows that issue and retire tokens: login,
// refresh rotation, logout, and the emailed verification/reset/invitation
// audiences.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error

	RequestEmailVerification(ctx context.Context, user *models.User) error
	RequestPasswordReset(ctx context.Context, email string) error
	InviteToFamily(ctx context.Context, inviter *models.User, family *models.Family, inviteeEmail string, role models.Role) error
}

type authService struct {
	users       repositories.UserRepository
	codec       *tokens.Codec
	revocations *revocation.Store
	notifier    NotificationService
}

func NewAuthService(
	users repositories.UserRepository,
	codec *tokens.Codec,
	revocations *revocation.Store,
	notifier NotificationService,
) AuthService {
	return &authService{
		users:       users,
		codec:       codec,
		revocations: revocations,
		notifier:    notifier,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, string, string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", "", utils.NewInfrastructureError("user lookup failed", err)
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", "", utils.NewAuthenticationError(utils.ErrCodeInvalidCredentials, "Invalid email or password")
	}

	access, refresh, err := s.issuePair(user)
	if err != nil {
		return nil, "", "", err
	}
	return user, access, refresh, nil
}

// Refresh rotates the pair: the presented refresh token is revoked for its
// remaining lifetime before the new pair is issued, so it can never be
// replayed.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.codec.Verify(tokens.AudienceRefresh, refreshToken)
	if err != nil {
		return "", "", utils.NewAuthenticationError(utils.ErrCodeUnauthorized, "Invalid refresh token")
	}

	revoked, err := s.revocations.IsRevoked(ctx, refreshToken)
	if err != nil {
		return "", "", err
	}
	if revoked {
		return "", "", utils.NewAuthenticationError(utils.ErrCodeTokenRevoked, "Refresh token revoked")
	}

	user, err := s.findSubject(ctx, claims)
	if err != nil {
		return "", "", err
	}

	if err := s.revocations.Revoke(ctx, refreshToken, "rotated"); err != nil {
		return "", "", err
	}

	return s.issuePair(user)
}

// Logout revokes the presented tokens for their remaining lifetimes. Either
// may already be expired, in which case revoking it is a no-op.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken != "" {
		if err := s.revocations.Revoke(ctx, accessToken, "logout"); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := s.revocations.Revoke(ctx, refreshToken, "logout"); err != nil {
			return err
		}
	}
	return nil
}

func (s *authService) RequestEmailVerification(ctx context.Context, user *models.User) error {
	token, err := s.codec.Issue(tokens.AudienceEmailVerification, tokens.Claims{
		"sub":   user.ID.String(),
		"email": user.Email,
	})
	if err != nil {
		return err
	}

	messageID, err := s.notifier.SendVerificationEmail(ctx, user.Email, token)
	if err != nil {
		return err
	}
	utils.Logger.Debugf("Verification email queued for %s (message id %s)", user.Email, messageID)
	return nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return utils.NewInfrastructureError("user lookup failed", err)
	}
	if user == nil {
		// Do not reveal whether the address is registered.
		return nil
	}

	token, err := s.codec.Issue(tokens.AudiencePasswordReset, tokens.Claims{
		"sub": user.ID.String(),
	})
	if err != nil {
		return err
	}

	messageID, err := s.notifier.SendPasswordResetEmail(ctx, user.Email, token)
	if err != nil {
		return err
	}
	utils.Logger.Debugf("Password reset email queued for %s (message id %s)", user.Email, messageID)
	return nil
}

func (s *authService) InviteToFamily(
	ctx context.Context,
	inviter *models.User,
	family *models.Family,
	inviteeEmail string,
	role models.Role,
) error {
	if family == nil {
		return utils.NewNotFoundError("Family not found")
	}

	token, err := s.codec.Issue(tokens.AudienceFamilyInvitation, tokens.Claims{
		"sub":       inviteeEmail,
		"familyId":  family.ID.String(),
		"role":      string(role),
		"invitedBy": inviter.ID.String(),
	})
	if err != nil {
		return err
	}

	messageID, err := s.notifier.SendFamilyInvitationEmail(ctx, inviteeEmail, token, family.Name)
	if err != nil {
		return err
	}
	utils.Logger.Debugf("Family invitation queued for %s (message id %s)", inviteeEmail, messageID)
	return nil
}

func (s *authService) issuePair(user *models.User) (string, string, error) {
	claims := tokens.Claims{"sub": user.ID.String()}

	access, err := s.codec.Issue(tokens.AudienceAccess, claims)
	if err != nil {
		return "", "", err
	}
	refresh, err := s.codec.Issue(tokens.AudienceRefresh, claims)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (s *authService) findSubject(ctx context.Context, claims tokens.Claims) (*models.User, error) {
	id, err := uuid.Parse(claims.Subject())
	if err != nil {
		return nil, utils.NewAuthenticationError(utils.ErrCodeUnauthorized, "Invalid subject claim")
	}
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, utils.NewInfrastructureError("user lookup failed", err)
	}
	if user == nil {
		return nil, utils.NewAuthenticationError(utils.ErrCodeUnauthorized, "Unknown subject")
	}
	return user, nil
}
