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
	"github.com/resihub/community-system/internal/core/ports"
)

const feesCollection = "monthly_fees"

// FeeRepository implements ports.FeeRepository on MongoDB. The unique
// compound index on (resident.id, month, year) enforces the one-fee-per-
// month invariant; violations surface as domain.ErrDuplicateFee.
type FeeRepository struct {
	coll *mongo.Collection
}

func NewFeeRepository(db *mongo.Database) *FeeRepository {
	return &FeeRepository{coll: db.Collection(feesCollection)}
}

type feeDoc struct {
	ID  primitive.ObjectID `bson:"_id"`
	Fee domain.MonthlyFee  `bson:",inline"`
}

func (r *FeeRepository) Create(ctx context.Context, f *domain.MonthlyFee) (*domain.MonthlyFee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *f
	res, err := r.coll.InsertOne(ctx, &doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateFee
		}
		return nil, fmt.Errorf("insert fee: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &doc, nil
}

func (r *FeeRepository) FindByID(ctx context.Context, id string) (*domain.MonthlyFee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFeeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw feeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&raw); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeeNotFound
		}
		return nil, fmt.Errorf("find fee: %w", err)
	}
	f := raw.Fee
	f.ID = raw.ID.Hex()
	return &f, nil
}

func (r *FeeRepository) List(ctx context.Context, filter ports.ListFeesFilter) ([]*domain.MonthlyFee, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.ResidentID != "" {
		query["resident.id"] = filter.ResidentID
	}
	if filter.Month != 0 {
		query["month"] = filter.Month
	}
	if filter.Year != 0 {
		query["year"] = filter.Year
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count fees: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list fees: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.MonthlyFee
	for cur.Next(ctx) {
		var raw feeDoc
		if err := cur.Decode(&raw); err != nil {
			return nil, 0, fmt.Errorf("decode fee: %w", err)
		}
		f := raw.Fee
		f.ID = raw.ID.Hex()
		out = append(out, &f)
	}
	return out, total, cur.Err()
}

func (r *FeeRepository) Update(ctx context.Context, id string, set map[string]any) (*domain.MonthlyFee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrFeeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw feeDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrFeeNotFound
		}
		return nil, fmt.Errorf("update fee: %w", err)
	}
	f := raw.Fee
	f.ID = raw.ID.Hex()
	return &f, nil
}

// EnsureIndexes creates the unique (resident, month, year) index.
func (r *FeeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "resident.id", Value: 1},
				{Key: "month", Value: 1},
				{Key: "year", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	return err
}
