package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keyxmakerx/storefront/internal/apperror"
	"github.com/keyxmakerx/storefront/internal/commerce"
)

// mockCartRepo implements CartRepository for testing.
type mockCartRepo struct {
	listFn          func(ctx context.Context, userID string) ([]commerce.CartItem, error)
	productExistsFn func(ctx context.Context, productID string) (bool, error)
	addFn           func(ctx context.Context, id, userID, productID string, quantity int, addedAt time.Time) (bool, error)
	setQuantityFn   func(ctx context.Context, userID, productID string, quantity int) error
	removeFn        func(ctx context.Context, userID, productID string) error
	emptyFn         func(ctx context.Context, userID string) error
}

func (m *mockCartRepo) ListCart(ctx context.Context, userID string) ([]commerce.CartItem, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return []commerce.CartItem{}, nil
}

func (m *mockCartRepo) ProductExists(ctx context.Context, productID string) (bool, error) {
	if m.productExistsFn != nil {
		return m.productExistsFn(ctx, productID)
	}
	return true, nil
}

func (m *mockCartRepo) Add(ctx context.Context, id, userID, productID string, quantity int, addedAt time.Time) (bool, error) {
	if m.addFn != nil {
		return m.addFn(ctx, id, userID, productID, quantity, addedAt)
	}
	return true, nil
}

func (m *mockCartRepo) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if m.setQuantityFn != nil {
		return m.setQuantityFn(ctx, userID, productID, quantity)
	}
	return nil
}

func (m *mockCartRepo) Remove(ctx context.Context, userID, productID string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, userID, productID)
	}
	return nil
}

func (m *mockCartRepo) Empty(ctx context.Context, userID string) error {
	if m.emptyFn != nil {
		return m.emptyFn(ctx, userID)
	}
	return nil
}

func assertAppError(t *testing.T, err error, kind string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *apperror.AppError, got %T: %v", err, err)
	}
	if appErr.Type != kind {
		t.Errorf("expected error type %q, got %q (%s)", kind, appErr.Type, appErr.Message)
	}
}

func TestAdd_Success(t *testing.T) {
	var gotQty int
	repo := &mockCartRepo{
		addFn: func(_ context.Context, _, _, _ string, quantity int, _ time.Time) (bool, error) {
			gotQty = quantity
			return true, nil
		},
	}

	added, err := NewCartService(repo).Add(context.Background(), "u1", "p1", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added || gotQty != 3 {
		t.Errorf("added = %v, quantity = %d", added, gotQty)
	}
}

func TestAdd_Validation(t *testing.T) {
	svc := NewCartService(&mockCartRepo{})

	tests := []struct {
		name      string
		productID string
		quantity  int
		kind      string
	}{
		{"missing product", "", 1, apperror.TypeMissingFields},
		{"missing quantity", "p1", 0, apperror.TypeMissingFields},
		{"negative quantity", "p1", -2, apperror.TypeMissingFields},
		{"too many", "p1", maxQuantity + 1, apperror.TypeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), "u1", tt.productID, tt.quantity)
			assertAppError(t, err, tt.kind)
		})
	}
}

func TestAdd_UnknownProduct(t *testing.T) {
	repo := &mockCartRepo{
		productExistsFn: func(context.Context, string) (bool, error) { return false, nil },
	}
	_, err := NewCartService(repo).Add(context.Background(), "u1", "nope", 1)
	assertAppError(t, err, apperror.TypeNotFound)
}

func TestAdd_DuplicateIsNoOp(t *testing.T) {
	repo := &mockCartRepo{
		addFn: func(context.Context, string, string, string, int, time.Time) (bool, error) {
			return false, nil
		},
	}
	added, err := NewCartService(repo).Add(context.Background(), "u1", "p1", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Error("expected added = false")
	}
}

func TestUpdateQuantity(t *testing.T) {
	var set int
	repo := &mockCartRepo{
		setQuantityFn: func(_ context.Context, _, _ string, quantity int) error {
			set = quantity
			return nil
		},
	}
	svc := NewCartService(repo)

	if err := svc.UpdateQuantity(context.Background(), "u1", "p1", 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set != 4 {
		t.Errorf("expected quantity 4, got %d", set)
	}

	assertAppError(t, svc.UpdateQuantity(context.Background(), "u1", "p1", maxQuantity+1), apperror.TypeBadRequest)
	assertAppError(t, svc.UpdateQuantity(context.Background(), "u1", "p1", 0), apperror.TypeMissingFields)
}

func TestUpdateQuantity_NonMemberSucceeds(t *testing.T) {
	if err := NewCartService(&mockCartRepo{}).UpdateQuantity(context.Background(), "u1", "p9", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestEmpty_StoreFailure(t *testing.T) {
	repo := &mockCartRepo{
		emptyFn: func(context.Context, string) error { return errors.New("lock wait timeout") },
	}
	assertAppError(t, NewCartService(repo).Empty(context.Background(), "u1"), apperror.TypeStoreUnavailable)
}

func TestRemove_NonMemberSucceeds(t *testing.T) {
	if err := NewCartService(&mockCartRepo{}).Remove(context.Background(), "u1", "p9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
