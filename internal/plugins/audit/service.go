package audit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keyxmakerx/storefront/internal/apperror"
)

// perPage is the number of audit entries returned per page.
const perPage = 50

// AuditService handles business logic for the audit log.
type AuditService interface {
	// Log validates and persists an entry.
	Log(ctx context.Context, entry *Entry) error

	// Record is the fire-and-forget form of Log used by the auth handlers.
	// Failures are logged, never returned.
	Record(ctx context.Context, userID, action, ip string)

	// Recent returns a page of entries across all accounts.
	Recent(ctx context.Context, page int) ([]Entry, int, error)

	// UserHistory returns a page of one account's entries.
	UserHistory(ctx context.Context, userID string, page int) ([]Entry, int, error)
}

// auditService implements AuditService.
type auditService struct {
	repo AuditRepository
}

// NewAuditService creates a new audit service with the given repository.
func NewAuditService(repo AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Log validates and persists an audit entry.
func (s *auditService) Log(ctx context.Context, entry *Entry) error {
	if entry.UserID == "" {
		return apperror.NewBadRequest("user ID is required for audit entry")
	}
	if entry.Action == "" {
		return apperror.NewBadRequest("action is required for audit entry")
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("failed to write audit log entry",
			slog.String("user_id", entry.UserID),
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
		return apperror.NewStoreUnavailable(fmt.Errorf("writing audit entry: %w", err))
	}

	return nil
}

// Record writes an entry and swallows any failure. The request context may
// already be cancelled once the response is out, so the write is detached
// from its cancellation.
func (s *auditService) Record(ctx context.Context, userID, action, ip string) {
	_ = s.Log(context.WithoutCancel(ctx), &Entry{UserID: userID, Action: action, IP: ip})
}

// Recent returns the paginated feed across all accounts. Pages are
// 1-indexed; invalid page numbers are clamped to 1.
func (s *auditService) Recent(ctx context.Context, page int) ([]Entry, int, error) {
	if page < 1 {
		page = 1
	}

	entries, total, err := s.repo.ListRecent(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, apperror.NewStoreUnavailable(fmt.Errorf("listing audit entries: %w", err))
	}
	return entries, total, nil
}

// UserHistory returns the paginated feed for one account.
func (s *auditService) UserHistory(ctx context.Context, userID string, page int) ([]Entry, int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, 0, apperror.NewMissingFields("user ID is required")
	}
	if page < 1 {
		page = 1
	}

	entries, total, err := s.repo.ListByUser(ctx, userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, apperror.NewStoreUnavailable(fmt.Errorf("listing user audit entries: %w", err))
	}
	return entries, total, nil
}
