package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/policy"
	"github.com/resihub/community-system/internal/core/ports"
)

const complaintsCollection = "complaints"

// ComplaintRepository implements ports.ComplaintRepository on MongoDB.
// Every single-record mutation is one atomic update document.
type ComplaintRepository struct {
	coll *mongo.Collection
}

func NewComplaintRepository(db *mongo.Database) *ComplaintRepository {
	return &ComplaintRepository{coll: db.Collection(complaintsCollection)}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *domain.Complaint) (*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *c
	res, err := r.coll.InsertOne(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("insert complaint: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &doc, nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string, scope policy.Scope) (*domain.Complaint, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrComplaintNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := applyScope(bson.M{"_id": oid}, scope)

	var raw complaintDoc
	if err := r.coll.FindOne(ctx, query).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrComplaintNotFound
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}
	c := raw.Complaint
	c.ID = raw.ID.Hex()
	return &c, nil
}

func (r *ComplaintRepository) List(ctx context.Context, filter ports.ListComplaintsFilter) ([]*domain.Complaint, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := applyScope(bson.M{}, filter.Scope)
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	if filter.Priority != "" {
		query["priority"] = string(filter.Priority)
	}
	if filter.Category != "" {
		query["category"] = string(filter.Category)
	}
	if filter.AssigneeID != "" {
		query["assignee.id"] = filter.AssigneeID
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}
	defer cur.Close(ctx)

	complaints, err := decodeComplaints(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

func (r *ComplaintRepository) SetStatus(ctx context.Context, id string, status domain.ComplaintStatus, changedBy string, resolvedAt *time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrComplaintNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	set := bson.M{"status": string(status), "updated_at": now}
	if resolvedAt != nil {
		set["resolved_at"] = resolvedAt.UTC()
	}
	update := bson.M{
		"$set": set,
		"$push": bson.M{"status_history": domain.StatusChange{
			Status:    status,
			ChangedBy: changedBy,
			Timestamp: now,
		}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) SetAssignee(ctx context.Context, id string, assignee domain.UserRef, changedBy string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrComplaintNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"assignee":   assignee,
			"status":     string(domain.StatusInProgress),
			"updated_at": now,
		},
		"$push": bson.M{"status_history": domain.StatusChange{
			Status:    domain.StatusInProgress,
			ChangedBy: changedBy,
			Timestamp: now,
		}},
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set assignee: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) AppendNote(ctx context.Context, id string, note domain.Note) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrComplaintNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"notes": note},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("append note: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) SetFeedback(ctx context.Context, id string, fb domain.Feedback) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrComplaintNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{"feedback": fb, "updated_at": time.Now().UTC()},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("set feedback: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrComplaintNotFound
	}
	return nil
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context, scope policy.Scope) (map[domain.ComplaintStatus]int64, error) {
	raw, err := r.groupCount(ctx, scope, "$status")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ComplaintStatus]int64, len(raw))
	for k, v := range raw {
		out[domain.ComplaintStatus(k)] = v
	}
	return out, nil
}

func (r *ComplaintRepository) CountByCategory(ctx context.Context, scope policy.Scope) (map[domain.ComplaintCategory]int64, error) {
	raw, err := r.groupCount(ctx, scope, "$category")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ComplaintCategory]int64, len(raw))
	for k, v := range raw {
		out[domain.ComplaintCategory(k)] = v
	}
	return out, nil
}

func (r *ComplaintRepository) CountByPriority(ctx context.Context, scope policy.Scope) (map[domain.ComplaintPriority]int64, error) {
	raw, err := r.groupCount(ctx, scope, "$priority")
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ComplaintPriority]int64, len(raw))
	for k, v := range raw {
		out[domain.ComplaintPriority(k)] = v
	}
	return out, nil
}

// groupCount runs a $match + $group aggregation keyed by the given field.
func (r *ComplaintRepository) groupCount(ctx context.Context, scope policy.Scope, field string) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: applyScope(bson.M{}, scope)}},
		{{Key: "$group", Value: bson.M{"_id": field, "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", field, err)
	}
	defer cur.Close(ctx)

	out := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode aggregate row: %w", err)
		}
		out[row.ID] = row.Count
	}
	return out, cur.Err()
}

func (r *ComplaintRepository) Recent(ctx context.Context, scope policy.Scope, limit int) ([]*domain.Complaint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.coll.Find(ctx, applyScope(bson.M{}, scope), opts)
	if err != nil {
		return nil, fmt.Errorf("recent complaints: %w", err)
	}
	defer cur.Close(ctx)

	return decodeComplaints(ctx, cur)
}

func (r *ComplaintRepository) ResolvedByAssignee(ctx context.Context, assigneeID string) ([]ports.ResolvedSpan, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{
		"assignee.id": assigneeID,
		"status":      string(domain.StatusResolved),
	}
	cur, err := r.coll.Find(ctx, query,
		options.Find().SetProjection(bson.M{"created_at": 1, "resolved_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("resolved by assignee: %w", err)
	}
	defer cur.Close(ctx)

	var spans []ports.ResolvedSpan
	for cur.Next(ctx) {
		var row struct {
			CreatedAt  time.Time  `bson:"created_at"`
			ResolvedAt *time.Time `bson:"resolved_at"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode span: %w", err)
		}
		if row.ResolvedAt == nil {
			continue
		}
		spans = append(spans, ports.ResolvedSpan{CreatedAt: row.CreatedAt, ResolvedAt: *row.ResolvedAt})
	}
	return spans, cur.Err()
}

func (r *ComplaintRepository) CountAssigned(ctx context.Context, assigneeID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"assignee.id": assigneeID})
	if err != nil {
		return 0, fmt.Errorf("count assigned: %w", err)
	}
	return n, nil
}

// EnsureIndexes creates the query-path indexes on the complaints collection.
func (r *ComplaintRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submitter.id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "assignee.id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "community_id", Value: 1}}},
	})
	return err
}

// complaintDoc pairs the store-generated ObjectID with the domain document.
type complaintDoc struct {
	ID        primitive.ObjectID `bson:"_id"`
	Complaint domain.Complaint   `bson:",inline"`
}

func decodeComplaints(ctx context.Context, cur *mongo.Cursor) ([]*domain.Complaint, error) {
	var out []*domain.Complaint
	for cur.Next(ctx) {
		var raw complaintDoc
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode complaint: %w", err)
		}
		c := raw.Complaint
		c.ID = raw.ID.Hex()
		out = append(out, &c)
	}
	return out, cur.Err()
}
