package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names shared with the storefront client.
const (
	SessionCookieName      = "token"
	VerificationCookieName = "userVerify"
)

var (
	errInvalidSession = errors.New("invalid session token")
	errEmptySecret    = errors.New("session secret must not be empty")
)

// CookiePolicy holds the attributes applied to every auth cookie.
type CookiePolicy struct {
	Secure   bool
	SameSite http.SameSite
}

// ParseSameSite maps a config value to its cookie attribute. Unknown values
// fall back to Lax.
func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// SessionIssuer signs and verifies stateless session tokens (HS256) and
// builds the cookies that carry them. A token names its user in the "sub"
// claim and is valid until "exp"; nothing about it is stored server side.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	policy CookiePolicy
	now    func() time.Time
}

// NewSessionIssuer creates an issuer. The secret is the server's signing
// key; ttl is the lifetime of both the token and its cookie.
func NewSessionIssuer(secret string, ttl time.Duration, policy CookiePolicy) (*SessionIssuer, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &SessionIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		policy: policy,
		now:    time.Now,
	}, nil
}

// Issue signs a new session token for the given user.
func (s *SessionIssuer) Issue(userID string) (*IssuedToken, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing session token: %w", err)
	}

	return &IssuedToken{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Parse verifies a session token's signature and expiry and returns the
// user ID it names. Tokens signed with any algorithm other than HS256 are
// rejected before the key is consulted.
func (s *SessionIssuer) Parse(token string) (string, error) {
	if token == "" {
		return "", errInvalidSession
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errInvalidSession, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errInvalidSession
	}

	return claims.Subject, nil
}

// SessionCookie wraps an issued session token in the "token" cookie.
func (s *SessionIssuer) SessionCookie(tok *IssuedToken) *http.Cookie {
	return s.cookie(SessionCookieName, tok.Value, tok.ExpiresAt)
}

// RevokeSession returns a cookie that clears the session on the client.
func (s *SessionIssuer) RevokeSession() *http.Cookie {
	return s.expired(SessionCookieName)
}

// VerificationCookie wraps the reset verification credential. It carries
// the stored reset-code hash and expires with the code.
func (s *SessionIssuer) VerificationCookie(tok *IssuedToken) *http.Cookie {
	return s.cookie(VerificationCookieName, tok.Value, tok.ExpiresAt)
}

// RevokeVerification returns a cookie that clears the verification
// credential once the reset is done.
func (s *SessionIssuer) RevokeVerification() *http.Cookie {
	return s.expired(VerificationCookieName)
}

func (s *SessionIssuer) cookie(name, value string, expiresAt time.Time) *http.Cookie {
	maxAge := int(expiresAt.Sub(s.now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.policy.Secure,
		SameSite: s.policy.SameSite,
	}
}

func (s *SessionIssuer) expired(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.policy.Secure,
		SameSite: s.policy.SameSite,
	}
}
