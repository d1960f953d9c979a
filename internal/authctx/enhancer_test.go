package authctx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/authz"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/models"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/revocation"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/tokens"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

const accessSecret = "access-secret"

type stubUsers struct {
	user *models.User
	err  error
}

func (s *stubUsers) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

type stubFamilies struct {
	family *models.Family
	err    error
}

func (s *stubFamilies) FindFamilyByID(ctx context.Context, id uuid.UUID) (*models.Family, error) {
	return s.family, s.err
}

func testCodec(t *testing.T) *tokens.Codec {
	t.Helper()
	codec, err := tokens.NewCodec(map[tokens.Audience]tokens.AudienceConfig{
		tokens.AudienceAccess:            {Secret: accessSecret, TTL: 15 * time.Minute},
		tokens.AudienceRefresh:           {Secret: "refresh-secret", TTL: 7 * 24 * time.Hour},
		tokens.AudienceEmailVerification: {Secret: "verify-secret", TTL: 24 * time.Hour},
		tokens.AudiencePasswordReset:     {Secret: "reset-secret", TTL: time.Hour},
		tokens.AudienceFamilyInvitation:  {Secret: "invite-secret", TTL: 72 * time.Hour},
	})
	require.NoError(t, err)
	return codec
}

type fixture struct {
	enhancer *Enhancer
	codec    *tokens.Codec
	store    *revocation.Store
	redis    *miniredis.Miniredis
	users    *stubUsers
	families *stubFamilies
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	store := revocation.NewStore("redis://" + mr.Addr())
	t.Cleanup(func() { _ = store.Disconnect() })

	familyID := uuid.New()
	users := &stubUsers{user: &models.User{
		ID:       uuid.New(),
		Email:    "member@example.com",
		Role:     models.RoleMember,
		FamilyID: &familyID,
	}}
	families := &stubFamilies{family: &models.Family{ID: familyID, Name: "Smith"}}

	codec := testCodec(t)
	return &fixture{
		enhancer: NewEnhancer(codec, store, users, families),
		codec:    codec,
		store:    store,
		redis:    mr,
		users:    users,
		families: families,
	}
}

func requestWithToken(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// expiredAccessToken crafts a token that is structurally valid for the
// ACCESS audience but already past its expiry.
func expiredAccessToken(t *testing.T, sub string) string {
	t.Helper()
	now := time.Now().Add(-time.Hour)
	claims := jwt.MapClaims{
		"iss": tokens.TokenIssuer,
		"aud": string(tokens.AudienceAccess),
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(accessSecret))
	require.NoError(t, err)
	return token
}

func TestEnhanceNoAuthorizationHeader(t *testing.T) {
	f := newFixture(t)

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(""))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.Empty(t, authCtx.Error)
}

func TestEnhanceMalformedHeader(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

	authCtx, err := f.enhancer.Enhance(context.Background(), r)
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.NotEmpty(t, authCtx.Error)
}

func TestEnhanceExpiredToken(t *testing.T) {
	f := newFixture(t)
	token := expiredAccessToken(t, f.users.user.ID.String())

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.NotEmpty(t, authCtx.Error)
}

func TestEnhanceRejectsNonAccessAudience(t *testing.T) {
	f := newFixture(t)
	refresh, err := f.codec.Issue(tokens.AudienceRefresh, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(refresh))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.NotEmpty(t, authCtx.Error)
}

func TestEnhanceRevokedToken(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)
	require.NoError(t, f.store.Revoke(context.Background(), token, "logout"))

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.Equal(t, "revoked", authCtx.Error)
}

func TestEnhanceHappyPath(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.True(t, authCtx.IsAuthenticated)
	require.Empty(t, authCtx.Error)
	require.Equal(t, f.users.user.ID, authCtx.User.ID)
	require.Equal(t, f.families.family.ID, authCtx.Family.ID)
	require.True(t, authCtx.Permissions[authz.PermViewFamily])
	require.False(t, authCtx.Permissions[authz.PermDeleteFamily])
}

func TestEnhanceUnknownSubject(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": uuid.NewString()})
	require.NoError(t, err)
	f.users.user = nil

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.NotEmpty(t, authCtx.Error)
}

func TestEnhanceUserLookupFailurePropagates(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": uuid.NewString()})
	require.NoError(t, err)
	f.users.err = errors.New("connection refused")

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.Error(t, err)
	require.True(t, utils.IsKind(err, utils.KindInfrastructure))
	require.False(t, authCtx.IsAuthenticated)
}

func TestEnhanceMissingFamilyDegrades(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)
	f.families.family = nil

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.True(t, authCtx.IsAuthenticated)
	require.Nil(t, authCtx.Family)
}

func TestEnhanceFailsClosedWhenStoreDown(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)
	f.redis.Close()

	authCtx, err := f.enhancer.Enhance(context.Background(), requestWithToken(token))
	require.NoError(t, err)
	require.False(t, authCtx.IsAuthenticated)
	require.Equal(t, "revocation check unavailable", authCtx.Error)
}

func TestMiddlewareAttachesContext(t *testing.T) {
	f := newFixture(t)
	token, err := f.codec.Issue(tokens.AudienceAccess, tokens.Claims{"sub": f.users.user.ID.String()})
	require.NoError(t, err)

	var seen *authz.AuthContext
	handler := Middleware(f.enhancer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithToken(token))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.True(t, seen.IsAuthenticated)
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	authCtx := FromContext(context.Background())
	require.NotNil(t, authCtx)
	require.False(t, authCtx.IsAuthenticated)
	require.False(t, authCtx.Permissions[authz.PermViewFamily])
}
