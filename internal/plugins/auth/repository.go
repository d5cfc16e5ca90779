package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/database"
)

// UserRepository defines the data access contract for user operations.
// All SQL lives in the concrete implementation -- no SQL leaks out.
//
// The default projection (FindByID, FindByEmail, ListUsers) never loads the
// password hash. Only the *WithPassword finders do.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindWithPasswordByID(ctx context.Context, id string) (*User, error)
	FindWithPasswordByEmail(ctx context.Context, email string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *User, clearResetCode bool) error

	// Password reset.
	SetResetCode(ctx context.Context, userID, codeHash string, expiresAt time.Time) error
	ClearResetCode(ctx context.Context, userID string) error
	FindByResetCodeHash(ctx context.Context, codeHash string, now time.Time) (*User, error)
	ResetPassword(ctx context.Context, userID, passwordHash string) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Admin operations.
	ListUsers(ctx context.Context, offset, limit int) ([]User, int, error)
}

const userColumns = `id, email, name, phone, role, created_at, updated_at`

// userRepository implements UserRepository with hand-written MariaDB queries.
type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository backed by the given DB pool.
func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user row. A second account with the same email
// loses the race on the unique key and gets EmailTaken.
func (r *userRepository) Create(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, email, name, phone, password_hash, role, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.Phone,
		user.PasswordHash,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperror.NewEmailTaken("an account with this email already exists")
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// FindByID retrieves a user by their UUID without the password hash.
// Returns apperror.NotFound if no user exists with this ID.
func (r *userRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return r.findOne(ctx, query, false, id)
}

// FindByEmail retrieves a user by email without the password hash.
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return r.findOne(ctx, query, false, email)
}

// FindWithPasswordByID retrieves a user including the password hash.
func (r *userRepository) FindWithPasswordByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE id = ?`
	return r.findOne(ctx, query, true, id)
}

// FindWithPasswordByEmail retrieves a user including the password hash.
// Used only by login.
func (r *userRepository) FindWithPasswordByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = ?`
	return r.findOne(ctx, query, true, email)
}

// FindByResetCodeHash retrieves the user holding the given reset-code hash,
// provided the code has not expired by now.
func (r *userRepository) FindByResetCodeHash(ctx context.Context, codeHash string, now time.Time) (*User, error) {
	query := `SELECT ` + userColumns + `, reset_code_hash, reset_code_expires_at
	          FROM users WHERE reset_code_hash = ? AND reset_code_expires_at > ?`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, codeHash, now.UTC()).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.ResetCodeHash,
		&user.ResetCodeExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("reset code not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user by reset code: %w", err)
	}
	return user, nil
}

// EmailExists checks whether a user with the given email already exists.
func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking email exists: %w", err)
	}
	return exists, nil
}

// UpdateProfile writes the user-editable fields: name, email and phone.
// With clearResetCode set, any pending reset code is dropped in the same
// statement.
func (r *userRepository) UpdateProfile(ctx context.Context, user *User, clearResetCode bool) error {
	query := `UPDATE users SET name = ?, email = ?, phone = ?, updated_at = ?`
	if clearResetCode {
		query += `, reset_code_hash = NULL, reset_code_expires_at = NULL`
	}
	query += ` WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.Email, user.Phone, user.UpdatedAt, user.ID,
	)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return apperror.NewEmailTaken("an account with this email already exists")
		}
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// SetResetCode stores a reset-code hash and its expiry, replacing any
// code issued earlier.
func (r *userRepository) SetResetCode(ctx context.Context, userID, codeHash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_code_hash = ?, reset_code_expires_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, codeHash, expiresAt.UTC(), userID)
	if err != nil {
		return fmt.Errorf("setting reset code: %w", err)
	}
	return requireOneRow(result, "user not found")
}

// ClearResetCode removes any pending reset code.
func (r *userRepository) ClearResetCode(ctx context.Context, userID string) error {
	query := `UPDATE users SET reset_code_hash = NULL, reset_code_expires_at = NULL WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("clearing reset code: %w", err)
	}
	return nil
}

// ResetPassword replaces the password hash and consumes the reset code in
// a single statement, so a code can never outlive the reset it authorized.
func (r *userRepository) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users
	          SET password_hash = ?, reset_code_hash = NULL, reset_code_expires_at = NULL, updated_at = ?
	          WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return requireOneRow(result, "user not found")
}

// UpdatePassword replaces the password hash.
func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return requireOneRow(result, "user not found")
}

// ListUsers returns a page of users ordered by creation date, plus the
// total count.
func (r *userRepository) ListUsers(ctx context.Context, offset, limit int) ([]User, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting users: %w", err)
	}

	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating user rows: %w", err)
	}
	return users, total, nil
}

// findOne runs a single-row user query. withPassword selects whether the
// query's trailing column is password_hash.
func (r *userRepository) findOne(ctx context.Context, query string, withPassword bool, arg any) (*User, error) {
	user := &User{}
	dest := []any{
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Phone,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if withPassword {
		dest = append(dest, &user.PasswordHash)
	}

	err := r.db.QueryRowContext(ctx, query, arg).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.NewNotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return user, nil
}

// requireOneRow turns an UPDATE that matched nothing into NotFound.
// MariaDB counts changed rows, not matched ones, so only statements that
// always write a fresh value may use it.
func requireOneRow(result sql.Result, notFoundMsg string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NewNotFound(notFoundMsg)
	}
	return nil
}
