package auth

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-of-reasonable-length"

func newIssuer(t *testing.T, ttl time.Duration) *SessionIssuer {
	t.Helper()
	s, err := NewSessionIssuer(testSecret, ttl, CookiePolicy{Secure: true, SameSite: http.SameSiteLaxMode})
	require.NoError(t, err)
	return s
}

func TestNewSessionIssuer_Validation(t *testing.T) {
	_, err := NewSessionIssuer("", time.Hour, CookiePolicy{})
	assert.ErrorIs(t, err, errEmptySecret)

	_, err = NewSessionIssuer(testSecret, 0, CookiePolicy{})
	assert.Error(t, err)
}

func TestSessionIssuer_IssueAndParse(t *testing.T) {
	s := newIssuer(t, time.Hour)

	tok, err := s.Issue("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpiresAt, 5*time.Second)

	userID, err := s.Parse(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestSessionIssuer_RejectsExpired(t *testing.T) {
	s := newIssuer(t, time.Hour)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.Parse(tok.Value)
	assert.ErrorIs(t, err, errInvalidSession)
}

func TestSessionIssuer_RejectsWrongSecret(t *testing.T) {
	tok, err := newIssuer(t, time.Hour).Issue("user-1")
	require.NoError(t, err)

	other, err := NewSessionIssuer("a-different-secret", time.Hour, CookiePolicy{})
	require.NoError(t, err)

	_, err = other.Parse(tok.Value)
	assert.ErrorIs(t, err, errInvalidSession)
}

func TestSessionIssuer_RejectsOtherAlgorithms(t *testing.T) {
	s := newIssuer(t, time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Parse(none)
	assert.ErrorIs(t, err, errInvalidSession, "alg=none must be rejected")

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Parse(hs512)
	assert.ErrorIs(t, err, errInvalidSession, "only HS256 is accepted")
}

func TestSessionIssuer_RejectsMissingClaims(t *testing.T) {
	s := newIssuer(t, time.Hour)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Parse(noExp)
	assert.ErrorIs(t, err, errInvalidSession, "tokens without exp must be rejected")

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Parse(noSub)
	assert.ErrorIs(t, err, errInvalidSession)

	_, err = s.Parse("")
	assert.ErrorIs(t, err, errInvalidSession)
	_, err = s.Parse("not.a.token")
	assert.ErrorIs(t, err, errInvalidSession)
}

func TestSessionIssuer_Cookies(t *testing.T) {
	s := newIssuer(t, time.Hour)
	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	c := s.SessionCookie(tok)
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, tok.Value, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.InDelta(t, 3600, c.MaxAge, 5)

	v := s.VerificationCookie(&IssuedToken{Value: "hash", ExpiresAt: time.Now().Add(10 * time.Minute)})
	assert.Equal(t, VerificationCookieName, v.Name)
	assert.InDelta(t, 600, v.MaxAge, 5)

	for _, revoked := range []*http.Cookie{s.RevokeSession(), s.RevokeVerification()} {
		assert.Empty(t, revoked.Value)
		assert.Equal(t, -1, revoked.MaxAge)
		assert.True(t, revoked.Expires.Before(time.Now()))
	}
}

func TestParseSameSite(t *testing.T) {
	assert.Equal(t, http.SameSiteStrictMode, ParseSameSite("Strict"))
	assert.Equal(t, http.SameSiteNoneMode, ParseSameSite("none"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("lax"))
	assert.Equal(t, http.SameSiteLaxMode, ParseSameSite("bogus"))
}
