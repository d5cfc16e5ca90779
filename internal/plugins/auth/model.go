// Package auth handles the credential and session lifecycle of the
// storefront: signup, login, logout, the forgotten-password flow, and
// password changes. Sessions are stateless HS256 tokens carried in an
// HTTP-only cookie; reset codes are stored only as SHA-256 hashes.
package auth

import (
	"time"

	"github.com/keyxmakerx/storefront/internal/commerce"
)

// Role controls admission to privileged routes.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// minPasswordLength is the shortest password accepted on signup and on
// every password replacement.
const minPasswordLength = 6

// User is the durable credential record for one account. The password hash
// is only loaded by the repository methods that need to verify or replace
// it; the default projection leaves it empty.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        *string   `json:"phone,omitempty"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Set only while a password reset is in progress.
	ResetCodeHash      *string    `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
}

// Account is a user with the records it refers to attached. Handlers return
// this view; nothing in it is resolved lazily.
type Account struct {
	*User
	Wishlist  []commerce.WishlistItem `json:"wishlist"`
	Cart      []commerce.CartItem     `json:"cart"`
	Addresses []commerce.Address      `json:"addresses"`
	Orders    []commerce.Order        `json:"orders"`
}

// IssuedToken is an opaque credential handed to the client in a cookie.
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// --- Request DTOs (bound from HTTP requests) ---

// SignupRequest holds the signup payload.
type SignupRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginRequest holds the login payload.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ForgotPasswordRequest holds the email a reset code is sent to.
type ForgotPasswordRequest struct {
	Email string `json:"email" form:"email"`
}

// VerifyCodeRequest holds the reset code copied from the email.
type VerifyCodeRequest struct {
	ForgotCode string `json:"forgotCode" form:"forgotCode"`
}

// PasswordResetRequest holds the replacement password after verification.
type PasswordResetRequest struct {
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// UpdatePasswordRequest holds a password change by a logged-in user.
type UpdatePasswordRequest struct {
	OldPassword     string `json:"oldPassword" form:"oldPassword"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
}

// UpdateProfileRequest lists the only fields a user may change about
// themselves. Absent fields are left untouched.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// --- Service Input DTOs (passed from handler to service) ---

// SignupInput is the input for creating a new account.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is the input for authenticating a user.
type LoginInput struct {
	Email    string
	Password string
}

// PasswordResetInput is the replacement password for a verified reset.
type PasswordResetInput struct {
	Password        string
	ConfirmPassword string
}

// UpdatePasswordInput is a password change by an authenticated user.
type UpdatePasswordInput struct {
	OldPassword     string
	Password        string
	ConfirmPassword string
}

// ProfileUpdate is the allow-listed partial update of a user's profile.
// Nil fields are not changed.
type ProfileUpdate struct {
	Name  *string
	Email *string
	Phone *string
}

// empty reports whether the update changes nothing.
func (p ProfileUpdate) empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}
