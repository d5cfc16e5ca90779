package auth

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// Context keys for storing the admitted account in Echo context. Other
// plugins use the exported getters below rather than the keys.
const (
	contextKeyAccount = "auth_account"
	contextKeyUserID  = "auth_user_id"
)

// RequireAuth returns middleware that validates the session cookie and
// stores the populated account in the request context. A missing or bad
// session stops the request with AuthRequired.
func RequireAuth(service AuthService, sessions *SessionIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return apperror.NewAuthRequired("Please login first")
			}

			acct, err := service.Authenticate(c.Request().Context(), cookie.Value)
			if err != nil {
				if apperror.Is(err, apperror.TypeAuthRequired) {
					// Invalid or expired session -- clear the stale cookie.
					c.SetCookie(sessions.RevokeSession())
				}
				return err
			}

			setAccount(c, acct)
			return next(c)
		}
	}
}

// RequireResetVerification returns middleware that admits a request only
// if it carries a verification cookie for a live reset code.
func RequireResetVerification(service AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(VerificationCookieName)
			if err != nil || cookie.Value == "" {
				return apperror.NewInvalidOrExpiredCode("Invalid or expired code")
			}

			acct, err := service.AuthenticateResetVerification(c.Request().Context(), cookie.Value)
			if err != nil {
				return err
			}

			setAccount(c, acct)
			return next(c)
		}
	}
}

// RequireRole returns middleware that admits only accounts holding one of
// the given roles. Must run after RequireAuth.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct := GetAccount(c)
			if acct == nil {
				return apperror.NewAuthRequired("Please login first")
			}
			if !slices.Contains(roles, acct.Role) {
				return apperror.NewForbidden("You are not allowed to access this resource")
			}
			return next(c)
		}
	}
}

func setAccount(c echo.Context, acct *Account) {
	c.Set(contextKeyAccount, acct)
	c.Set(contextKeyUserID, acct.ID)
}

// --- Exported getters for other plugins ---

// GetAccount retrieves the admitted account from the Echo context.
// Returns nil if no admission middleware ran.
func GetAccount(c echo.Context) *Account {
	acct, ok := c.Get(contextKeyAccount).(*Account)
	if !ok {
		return nil
	}
	return acct
}

// GetUserID retrieves the admitted user's ID from the Echo context.
// Returns empty string if the request is not authenticated.
func GetUserID(c echo.Context) string {
	id, ok := c.Get(contextKeyUserID).(string)
	if !ok {
		return ""
	}
	return id
}
