package auth

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/middleware"
)

// Account events reported to the EventRecorder.
const (
	EventSignup          = "account.signup"
	EventLogin           = "account.login"
	EventPasswordReset   = "password.reset"
	EventPasswordUpdated = "password.updated"
	EventProfileUpdated  = "profile.updated"
)

// EventRecorder receives account events once the action has succeeded.
// Implemented by the audit plugin. Recording must not fail the request.
type EventRecorder interface {
	Record(ctx context.Context, userID, action, ip string)
}

// Handler handles HTTP requests for the credential lifecycle. Handlers are
// thin: they bind the request, call the service, set cookies, and write
// the JSON envelope. No business logic lives here.
type Handler struct {
	service  AuthService
	sessions *SessionIssuer
	events   EventRecorder
}

// NewHandler creates a new auth handler. events may be nil.
func NewHandler(service AuthService, sessions *SessionIssuer, events EventRecorder) *Handler {
	return &Handler{service: service, sessions: sessions, events: events}
}

// Signup creates an account and logs it in (POST /api/v1/signup).
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	acct, tok, err := h.service.Signup(c.Request().Context(), SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.SessionCookie(tok))
	h.record(c, acct.ID, EventSignup)
	return middleware.OK(c, "", middleware.Fields{"user": acct})
}

// Login authenticates by email and password (POST /api/v1/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	acct, tok, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.SessionCookie(tok))
	h.record(c, acct.ID, EventLogin)
	return middleware.OK(c, "", middleware.Fields{"user": acct})
}

// Logout clears the session cookie (GET /api/v1/logout). Tokens are
// stateless, so there is nothing to revoke server side.
func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.RevokeSession())
	return middleware.OK(c, "Logout Success", nil)
}

// ForgotPassword mails a reset code (POST /api/v1/forgotpassword).
func (h *Handler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := h.service.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return middleware.OK(c, "Mail sent successfully", nil)
}

// VerifyCode trades a mailed reset code for the verification cookie
// (POST /api/v1/verifycode).
func (h *Handler) VerifyCode(c echo.Context) error {
	var req VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	tok, err := h.service.VerifyResetCode(c.Request().Context(), req.ForgotCode)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.VerificationCookie(tok))
	return middleware.OK(c, "User Verified", nil)
}

// PasswordReset sets a new password for a verified reset
// (POST /api/v1/password/reset). Runs behind RequireResetVerification.
func (h *Handler) PasswordReset(c echo.Context) error {
	var req PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	admitted := GetAccount(c)
	if admitted == nil {
		return apperror.NewInvalidOrExpiredCode("Invalid or expired code")
	}

	acct, tok, err := h.service.ResetPassword(c.Request().Context(), admitted.User, PasswordResetInput{
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.RevokeVerification())
	c.SetCookie(h.sessions.SessionCookie(tok))
	h.record(c, acct.ID, EventPasswordReset)
	return middleware.OK(c, "", middleware.Fields{"user": acct})
}

// Dashboard returns the logged-in account (GET /api/v1/userdashboard).
func (h *Handler) Dashboard(c echo.Context) error {
	return middleware.OK(c, "", middleware.Fields{"user": GetAccount(c)})
}

// UpdatePassword changes the password of the logged-in user
// (POST /api/v1/password/update).
func (h *Handler) UpdatePassword(c echo.Context) error {
	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	acct, tok, err := h.service.UpdatePassword(c.Request().Context(), GetUserID(c), UpdatePasswordInput{
		OldPassword:     req.OldPassword,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	c.SetCookie(h.sessions.SessionCookie(tok))
	h.record(c, acct.ID, EventPasswordUpdated)
	return middleware.OK(c, "", middleware.Fields{"user": acct})
}

// UpdateProfile edits name, email or phone (POST /api/v1/userdashboard/update).
func (h *Handler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), GetUserID(c), ProfileUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	h.record(c, user.ID, EventProfileUpdated)
	return middleware.OK(c, "", middleware.Fields{"user": user})
}

// ListUsers returns a page of accounts (GET /api/v1/admin/users).
func (h *Handler) ListUsers(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	users, total, err := h.service.ListUsers(c.Request().Context(), page, perPage)
	if err != nil {
		return err
	}
	if users == nil {
		users = []User{}
	}
	return middleware.OK(c, "", middleware.Fields{
		"users": users,
		"total": total,
		"page":  page,
	})
}

func (h *Handler) record(c echo.Context, userID, action string) {
	if h.events == nil {
		return
	}
	h.events.Record(c.Request().Context(), userID, action, c.RealIP())
}
