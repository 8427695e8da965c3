package ports

import (
	"context"
	"time"

	"github.com/resihub/community-system/internal/core/domain"
)

// CreateFeeInput carries a new monthly fee. The (resident, month, year)
// triple must be unique.
type CreateFeeInput struct {
	ResidentID  string
	Month       int
	Year        int
	Amount      float64
	Description string
	DueDate     *time.Time
}

// UpdateFeeInput carries a partial fee update.
type UpdateFeeInput struct {
	Amount      *float64
	Description *string
	Status      *domain.FeeStatus
	DueDate     *time.Time
}

// ListFeesResult is a page of fees.
type ListFeesResult struct {
	Items      []*domain.MonthlyFee
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// FeeService implements admin-only monthly fee management.
type FeeService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateFeeInput) (*domain.MonthlyFee, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.MonthlyFee, error)
	List(ctx context.Context, actor domain.Actor, filter ListFeesFilter) (*ListFeesResult, error)
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateFeeInput) (*domain.MonthlyFee, error)
}
