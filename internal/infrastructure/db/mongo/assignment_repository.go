package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

const assignmentsCollection = "assignments"

// AssignmentRepository implements the append-only assignment ledger.
// Assignee name/email are denormalized into the document so ledger search
// never joins against the user collection.
type AssignmentRepository struct {
	coll *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{coll: db.Collection(assignmentsCollection)}
}

type mongoAssignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	ComplaintID    string             `bson:"complaint_id"`
	ComplaintTitle string             `bson:"complaint_title"`
	AssigneeID     string             `bson:"assignee_id"`
	AssigneeName   string             `bson:"assignee_name"`
	AssigneeEmail  string             `bson:"assignee_email"`
	AssignedByID   string             `bson:"assigned_by_id"`
	Status         string             `bson:"status"`
	AssignedAt     time.Time          `bson:"assigned_at"`
	DueDate        *time.Time         `bson:"due_date,omitempty"`
	Notes          string             `bson:"notes,omitempty"`
	CommunityID    string             `bson:"community_id,omitempty"`
}

func (ma *mongoAssignment) toDomain() *domain.Assignment {
	return &domain.Assignment{
		ID:          ma.ID.Hex(),
		ComplaintID: ma.ComplaintID,
		Assignee: domain.RefResolved(domain.UserSummary{
			ID:    ma.AssigneeID,
			Name:  ma.AssigneeName,
			Email: ma.AssigneeEmail,
		}),
		AssignedBy:     domain.RefID(ma.AssignedByID),
		Status:         domain.AssignmentStatus(ma.Status),
		AssignedAt:     ma.AssignedAt,
		DueDate:        ma.DueDate,
		Notes:          ma.Notes,
		CommunityID:    ma.CommunityID,
		ComplaintTitle: ma.ComplaintTitle,
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *domain.Assignment) (*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoAssignment{
		ComplaintID:    a.ComplaintID,
		ComplaintTitle: a.ComplaintTitle,
		AssigneeID:     a.Assignee.ID,
		AssignedByID:   a.AssignedBy.ID,
		Status:         string(a.Status),
		AssignedAt:     a.AssignedAt,
		DueDate:        a.DueDate,
		Notes:          a.Notes,
		CommunityID:    a.CommunityID,
	}
	if a.Assignee.User != nil {
		doc.AssigneeName = a.Assignee.User.Name
		doc.AssigneeEmail = a.Assignee.User.Email
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}

	created := *a
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *AssignmentRepository) List(ctx context.Context, filter ports.ListAssignmentsFilter) ([]*domain.Assignment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Scope.AssigneeID != "" {
		query["assignee_id"] = filter.Scope.AssigneeID
	}
	if filter.Scope.CommunityID != "" {
		query["community_id"] = filter.Scope.CommunityID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Search != "" {
		re := searchRegex(filter.Search)
		query["$or"] = bson.A{
			bson.M{"complaint_title": re},
			bson.M{"assignee_name": re},
			bson.M{"assignee_email": re},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count assignments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "assigned_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list assignments: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Assignment
	for cur.Next(ctx) {
		var ma mongoAssignment
		if err := cur.Decode(&ma); err != nil {
			return nil, 0, fmt.Errorf("decode assignment: %w", err)
		}
		out = append(out, ma.toDomain())
	}
	return out, total, cur.Err()
}

// Delete exists solely as the compensating action for a failed paired
// complaint update; the ledger is otherwise append-only.
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAssignmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete assignment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAssignmentNotFound
	}
	return nil
}

// EnsureIndexes creates the ledger's query-path indexes.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignee_id", Value: 1}, {Key: "assigned_at", Value: -1}}},
		{Keys: bson.D{{Key: "complaint_id", Value: 1}}},
	})
	return err
}
