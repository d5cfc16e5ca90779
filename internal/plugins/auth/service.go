package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/sanitize"
)

// MailSender delivers plain-text mail. Implemented by the smtp plugin.
type MailSender interface {
	SendMail(ctx context.Context, to []string, subject, body string) error
}

// AuthService defines the business logic contract for authentication.
// Handlers call these methods -- they never touch the repository directly.
type AuthService interface {
	Signup(ctx context.Context, input SignupInput) (*Account, *IssuedToken, error)
	Login(ctx context.Context, input LoginInput) (*Account, *IssuedToken, error)

	// Password reset: request a code by mail, trade the code for a
	// verification credential, then set a new password.
	ForgotPassword(ctx context.Context, email string) error
	VerifyResetCode(ctx context.Context, code string) (*IssuedToken, error)
	ResetPassword(ctx context.Context, user *User, input PasswordResetInput) (*Account, *IssuedToken, error)

	UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) (*Account, *IssuedToken, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*User, error)

	// Admission: resolve the credential a request carries into an account.
	Authenticate(ctx context.Context, token string) (*Account, error)
	AuthenticateResetVerification(ctx context.Context, codeHash string) (*Account, error)

	ListUsers(ctx context.Context, page, perPage int) ([]User, int, error)
}

// authService implements AuthService with argon2id hashing and stateless
// session tokens.
type authService struct {
	repo      UserRepository
	hasher    PasswordHasher
	codes     *ResetCodeGenerator
	sessions  *SessionIssuer
	mail      MailSender
	populator AccountPopulator
	now       func() time.Time
}

// NewAuthService creates a new auth service with the given dependencies.
func NewAuthService(
	repo UserRepository,
	hasher PasswordHasher,
	codes *ResetCodeGenerator,
	sessions *SessionIssuer,
	mail MailSender,
	populator AccountPopulator,
) AuthService {
	return &authService{
		repo:      repo,
		hasher:    hasher,
		codes:     codes,
		sessions:  sessions,
		mail:      mail,
		populator: populator,
		now:       time.Now,
	}
}

// Signup creates a new account and logs it in.
func (s *authService) Signup(ctx context.Context, input SignupInput) (*Account, *IssuedToken, error) {
	name := sanitize.PlainText(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, nil, apperror.NewMissingFields("Please send name, email and password")
	}
	if err := checkName(name); err != nil {
		return nil, nil, err
	}
	if err := checkEmail(email); err != nil {
		return nil, nil, err
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, nil, err
	}

	// Check if email is already taken before doing expensive hashing.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, apperror.NewStoreUnavailable(fmt.Errorf("checking email: %w", err))
	}
	if exists {
		return nil, nil, apperror.NewEmailTaken("An account with this email already exists")
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, storeError("creating user", err)
	}
	user.PasswordHash = ""

	slog.Info("user signed up",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return s.startSession(ctx, user)
}

// Login authenticates a user by email and password and starts a session.
func (s *authService) Login(ctx context.Context, input LoginInput) (*Account, *IssuedToken, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, nil, apperror.NewMissingFields("Please provide email and password")
	}

	user, err := s.repo.FindWithPasswordByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return nil, nil, apperror.NewNotFound("You are not registered with us")
		}
		return nil, nil, storeError("finding user", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, nil, apperror.NewBadCredentials("Email or password is incorrect")
	}
	user.PasswordHash = ""

	slog.Info("user logged in", slog.String("user_id", user.ID))

	return s.startSession(ctx, user)
}

// ForgotPassword stores a fresh reset code for the account and mails the
// plaintext to its owner. If the mail cannot be sent the stored code is
// cleared again, so no usable code is left behind.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperror.NewMissingFields("Please provide an email")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return apperror.NewNotFound("You are not registered with us")
		}
		return storeError("finding user", err)
	}

	code, codeHash, expiresAt, err := s.codes.Generate()
	if err != nil {
		return apperror.NewInternal(err)
	}

	if err := s.repo.SetResetCode(ctx, user.ID, codeHash, expiresAt); err != nil {
		return storeError("storing reset code", err)
	}

	if err := s.mail.SendMail(ctx, []string{user.Email}, resetMailSubject, resetMailBody(code, s.codes.ttl)); err != nil {
		if clearErr := s.repo.ClearResetCode(ctx, user.ID); clearErr != nil {
			slog.Error("failed to clear undelivered reset code",
				slog.String("user_id", user.ID),
				slog.Any("error", clearErr),
			)
		}
		return apperror.NewMailDeliveryFailed("Could not send the reset code, please try again", err)
	}

	slog.Info("password reset code sent", slog.String("user_id", user.ID))
	return nil
}

// VerifyResetCode exchanges a mailed reset code for a verification
// credential. The credential is the stored hash itself and expires with
// the code.
func (s *authService) VerifyResetCode(ctx context.Context, code string) (*IssuedToken, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperror.NewInvalidOrExpiredCode("Invalid or expired code")
	}

	user, err := s.repo.FindByResetCodeHash(ctx, HashResetCode(code), s.now().UTC())
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return nil, apperror.NewInvalidOrExpiredCode("Invalid or expired code")
		}
		return nil, storeError("finding reset code", err)
	}

	return &IssuedToken{
		Value:     *user.ResetCodeHash,
		ExpiresAt: *user.ResetCodeExpiresAt,
	}, nil
}

// ResetPassword sets a new password for a user admitted by a verification
// credential. The reset code is consumed in the same write, and a new
// session is started.
func (s *authService) ResetPassword(ctx context.Context, user *User, input PasswordResetInput) (*Account, *IssuedToken, error) {
	if input.Password == "" || input.ConfirmPassword == "" {
		return nil, nil, apperror.NewMissingFields("Please provide password and confirm password")
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, apperror.NewPasswordMismatch("Password and confirm password do not match")
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if err := s.repo.ResetPassword(ctx, user.ID, hash); err != nil {
		return nil, nil, storeError("resetting password", err)
	}
	user.ResetCodeHash = nil
	user.ResetCodeExpiresAt = nil

	slog.Info("password reset", slog.String("user_id", user.ID))

	return s.startSession(ctx, user)
}

// UpdatePassword changes the password of a logged-in user after checking
// the current one, then starts a fresh session.
func (s *authService) UpdatePassword(ctx context.Context, userID string, input UpdatePasswordInput) (*Account, *IssuedToken, error) {
	if input.OldPassword == "" || input.Password == "" || input.ConfirmPassword == "" {
		return nil, nil, apperror.NewMissingFields("Please provide old password, password and confirm password")
	}

	user, err := s.repo.FindWithPasswordByID(ctx, userID)
	if err != nil {
		return nil, nil, storeError("finding user", err)
	}

	if !s.hasher.Verify(input.OldPassword, user.PasswordHash) {
		return nil, nil, apperror.NewBadOldPassword("Old password is incorrect")
	}
	if input.Password != input.ConfirmPassword {
		return nil, nil, apperror.NewPasswordMismatch("Password and confirm password do not match")
	}
	if err := checkPassword(input.Password); err != nil {
		return nil, nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, nil, apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, nil, storeError("updating password", err)
	}
	user.PasswordHash = ""

	slog.Info("password updated", slog.String("user_id", user.ID))

	return s.startSession(ctx, user)
}

// UpdateProfile applies the allow-listed profile fields. Role, password and
// reset state can never be changed here.
func (s *authService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdate) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeError("finding user", err)
	}
	if input.empty() {
		return user, nil
	}

	if input.Name != nil {
		name := sanitize.PlainText(*input.Name)
		if name == "" {
			return nil, apperror.NewMissingFields("Name cannot be empty")
		}
		if err := checkName(name); err != nil {
			return nil, err
		}
		user.Name = name
	}

	// A reset code mailed to the old address must not outlive the change.
	emailChanged := false
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := checkEmail(email); err != nil {
			return nil, err
		}
		if email != user.Email {
			exists, err := s.repo.EmailExists(ctx, email)
			if err != nil {
				return nil, apperror.NewStoreUnavailable(fmt.Errorf("checking email: %w", err))
			}
			if exists {
				return nil, apperror.NewEmailTaken("An account with this email already exists")
			}
			user.Email = email
			emailChanged = true
		}
	}

	if input.Phone != nil {
		phone := sanitize.PlainText(*input.Phone)
		if err := checkPhone(phone); err != nil {
			return nil, err
		}
		if phone == "" {
			user.Phone = nil
		} else {
			user.Phone = &phone
		}
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateProfile(ctx, user, emailChanged); err != nil {
		return nil, storeError("updating profile", err)
	}

	slog.Info("profile updated", slog.String("user_id", user.ID))
	return user, nil
}

// Authenticate resolves a session token into the account it names. A bad
// signature, an expired token and a deleted user all read as AuthRequired.
func (s *authService) Authenticate(ctx context.Context, token string) (*Account, error) {
	userID, err := s.sessions.Parse(token)
	if err != nil {
		return nil, apperror.NewAuthRequired("Please login first")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return nil, apperror.NewAuthRequired("Please login first")
		}
		return nil, storeError("finding session user", err)
	}

	return s.populate(ctx, user)
}

// AuthenticateResetVerification resolves a verification credential into
// the account whose reset it authorizes, if the code is still live.
func (s *authService) AuthenticateResetVerification(ctx context.Context, codeHash string) (*Account, error) {
	if codeHash == "" {
		return nil, apperror.NewInvalidOrExpiredCode("Invalid or expired code")
	}

	user, err := s.repo.FindByResetCodeHash(ctx, codeHash, s.now().UTC())
	if err != nil {
		if apperror.Is(err, apperror.TypeNotFound) {
			return nil, apperror.NewInvalidOrExpiredCode("Invalid or expired code")
		}
		return nil, storeError("finding reset code", err)
	}

	return s.populate(ctx, user)
}

// ListUsers returns a page of users for the admin listing.
func (s *authService) ListUsers(ctx context.Context, page, perPage int) ([]User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	users, total, err := s.repo.ListUsers(ctx, (page-1)*perPage, perPage)
	if err != nil {
		return nil, 0, storeError("listing users", err)
	}
	return users, total, nil
}

// startSession issues a session token for user and builds the account view
// returned alongside it.
func (s *authService) startSession(ctx context.Context, user *User) (*Account, *IssuedToken, error) {
	tok, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, nil, apperror.NewInternal(err)
	}

	acct, err := s.populate(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return acct, tok, nil
}

func (s *authService) populate(ctx context.Context, user *User) (*Account, error) {
	if s.populator == nil {
		return emptyAccount(user), nil
	}
	acct, err := s.populator.Populate(ctx, user)
	if err != nil {
		return nil, apperror.NewStoreUnavailable(err)
	}
	return acct, nil
}

// storeError passes AppErrors through untouched and wraps anything else as
// a store fault.
func storeError(op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperror.NewStoreUnavailable(fmt.Errorf("%s: %w", op, err))
}

const resetMailSubject = "Storefront password reset code"

func resetMailBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"Copy and paste this code to verify your account and reset your password:\n\n%s\n\n"+
			"The code expires in %d minutes. If you did not ask for a reset, ignore this email.\n",
		code, int(ttl.Minutes()),
	)
}
