package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/resihub/community-system/internal/core/domain"
)

const activityCollection = "activity_log"

// ActivityRepository is the insert-only audit trail. Documents carry a
// uuid string id and are never updated or deleted.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

func (r *ActivityRepository) Insert(ctx context.Context, entry *domain.ActivityLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *entry
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if _, err := r.coll.InsertOne(ctx, &doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
