package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testAudienceConfigs() map[Audience]AudienceConfig {
	return map[Audience]AudienceConfig{
		AudienceAccess:            {Secret: "access-secret", TTL: 15 * time.Minute},
		AudienceRefresh:           {Secret: "refresh-secret", TTL: 7 * 24 * time.Hour},
		AudienceEmailVerification: {Secret: "verify-secret", TTL: 24 * time.Hour},
		AudiencePasswordReset:     {Secret: "reset-secret", TTL: time.Hour},
		AudienceFamilyInvitation:  {Secret: "invite-secret", TTL: 72 * time.Hour},
	}
}

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(testAudienceConfigs())
	require.NoError(t, err)
	return codec
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)

	for _, aud := range Audiences {
		token, err := codec.Issue(aud, Claims{"sub": "user-1"})
		require.NoError(t, err, "audience %s", aud)

		claims, err := codec.Verify(aud, token)
		require.NoError(t, err, "audience %s", aud)
		require.Equal(t, "user-1", claims.Subject())
		require.Equal(t, string(aud), claims["aud"])
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	codec := newTestCodec(t)

	for _, issued := range Audiences {
		token, err := codec.Issue(issued, Claims{"sub": "user-1"})
		require.NoError(t, err)

		for _, verifier := range Audiences {
			if verifier == issued {
				continue
			}
			_, err := codec.Verify(verifier, token)
			require.ErrorIs(t, err, ErrInvalidToken,
				"token issued for %s must not verify as %s", issued, verifier)
		}
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	codec := newTestCodec(t)

	issuedAt := time.Now().Add(-time.Hour)
	codec.now = func() time.Time { return issuedAt }
	token, err := codec.Issue(AudienceAccess, Claims{"sub": "user-1"})
	require.NoError(t, err)

	codec.now = time.Now
	_, err = codec.Verify(AudienceAccess, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	codec := newTestCodec(t)

	foreign := testAudienceConfigs()
	foreign[AudienceAccess] = AudienceConfig{Secret: "other-secret", TTL: 15 * time.Minute}
	other, err := NewCodec(foreign)
	require.NoError(t, err)

	token, err := other.Issue(AudienceAccess, Claims{"sub": "user-1"})
	require.NoError(t, err)

	_, err = codec.Verify(AudienceAccess, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRequiresSubject(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Issue(AudienceAccess, Claims{})
	require.Error(t, err)

	_, err = codec.Issue(AudienceAccess, Claims{"sub": ""})
	require.Error(t, err)
}

func TestIssuePassesThroughAudienceClaims(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(AudienceFamilyInvitation, Claims{
		"sub":      "invitee@example.com",
		"familyId": "fam-1",
		"role":     "MEMBER",
	})
	require.NoError(t, err)

	claims, err := codec.Verify(AudienceFamilyInvitation, token)
	require.NoError(t, err)
	require.Equal(t, "fam-1", claims["familyId"])
	require.Equal(t, "MEMBER", claims["role"])
}

func TestIssueOwnsRegisteredClaims(t *testing.T) {
	codec := newTestCodec(t)
	frozen := time.Now()
	codec.now = func() time.Time { return frozen }

	// an attacker-supplied exp must not extend the token
	token, err := codec.Issue(AudienceAccess, Claims{
		"sub": "user-1",
		"exp": frozen.Add(365 * 24 * time.Hour).Unix(),
	})
	require.NoError(t, err)

	intro := NewIntrospector()
	exp, err := intro.AbsoluteExpiry(token)
	require.NoError(t, err)
	require.WithinDuration(t, frozen.Add(15*time.Minute), exp, time.Second)
}

func TestNewCodecRequiresEveryAudience(t *testing.T) {
	cfgs := testAudienceConfigs()
	delete(cfgs, AudiencePasswordReset)
	_, err := NewCodec(cfgs)
	require.Error(t, err)

	cfgs = testAudienceConfigs()
	cfgs[AudienceAccess] = AudienceConfig{Secret: "", TTL: time.Minute}
	_, err = NewCodec(cfgs)
	require.Error(t, err)
}
