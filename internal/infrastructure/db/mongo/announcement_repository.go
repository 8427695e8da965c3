package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/resihub/community-system/internal/core/domain"
	"github.com/resihub/community-system/internal/core/ports"
)

const announcementsCollection = "announcements"

// AnnouncementRepository implements ports.AnnouncementRepository on MongoDB.
type AnnouncementRepository struct {
	coll *mongo.Collection
}

func NewAnnouncementRepository(db *mongo.Database) *AnnouncementRepository {
	return &AnnouncementRepository{coll: db.Collection(announcementsCollection)}
}

type announcementDoc struct {
	ID           primitive.ObjectID  `bson:"_id"`
	Announcement domain.Announcement `bson:",inline"`
}

func (r *AnnouncementRepository) Create(ctx context.Context, a *domain.Announcement) (*domain.Announcement, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *a
	res, err := r.coll.InsertOne(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("insert announcement: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &doc, nil
}

func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*domain.Announcement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAnnouncementNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw announcementDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("find announcement: %w", err)
	}
	a := raw.Announcement
	a.ID = raw.ID.Hex()
	return &a, nil
}

func (r *AnnouncementRepository) List(ctx context.Context, filter ports.ListAnnouncementsFilter) ([]*domain.Announcement, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Scope.CommunityID != "" {
		query["community_id"] = filter.Scope.CommunityID
	}
	if filter.VisibleToRole != "" {
		// Mirrors domain.Announcement.VisibleTo: empty target list means
		// everyone, and expiry is exclusive of the instant itself.
		query["$and"] = []bson.M{
			{"$or": []bson.M{
				{"target_roles": bson.M{"$exists": false}},
				{"target_roles": filter.VisibleToRole},
			}},
			{"$or": []bson.M{
				{"expires_at": bson.M{"$exists": false}},
				{"expires_at": bson.M{"$gt": filter.VisibleAt}},
			}},
		}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Announcement
	for cur.Next(ctx) {
		var raw announcementDoc
		if err := cur.Decode(&raw); err != nil {
			return nil, 0, fmt.Errorf("decode announcement: %w", err)
		}
		a := raw.Announcement
		a.ID = raw.ID.Hex()
		out = append(out, &a)
	}
	return out, total, cur.Err()
}

func (r *AnnouncementRepository) Update(ctx context.Context, id string, set map[string]any) (*domain.Announcement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAnnouncementNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw announcementDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAnnouncementNotFound
		}
		return nil, fmt.Errorf("update announcement: %w", err)
	}
	a := raw.Announcement
	a.ID = raw.ID.Hex()
	return &a, nil
}

func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAnnouncementNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAnnouncementNotFound
	}
	return nil
}
