package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// ListFeesFilter carries query parameters for the monthly fee listing.
type ListFeesFilter struct {
	ResidentID string           // optional
	Month      int              // optional (1-12)
	Year       int              // optional
	Status     domain.FeeStatus // optional
	Page       int
	Limit      int
}

// FeeRepository defines persistence for monthly fees. Create surfaces
// domain.ErrDuplicateFee when the (resident, month, year) unique index is
// violated.
type FeeRepository interface {
	Create(ctx context.Context, f *domain.MonthlyFee) (*domain.MonthlyFee, error)
	FindByID(ctx context.Context, id string) (*domain.MonthlyFee, error)
	List(ctx context.Context, filter ListFeesFilter) ([]*domain.MonthlyFee, int64, error)
	Update(ctx context.Context, id string, set map[string]any) (*domain.MonthlyFee, error)
}
