package ports

import (
	"context"

	"github.com/resihub/community-system/internal/core/domain"
)

// ActivityRepository is the insert-only audit trail. There is no read or
// mutate surface; entries are permanent.
type ActivityRepository interface {
	Insert(ctx context.Context, entry *domain.ActivityLog) error
}
