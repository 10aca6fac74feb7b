package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staywise/booking-api/internal/model"
)

// BookingRepo encapsulates all queries against the `bookings` collection.
// Listings join the referenced property (and, for the admin view, the
// booking user) with $lookup so each call is a single round trip.
type BookingRepo struct {
	coll *mongo.Collection
}

func NewBookingRepo(db *mongo.Database) *BookingRepo {
	return &BookingRepo{coll: db.Collection("bookings")}
}

// Create inserts a booking and populates its ID and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now()
	b.UpdatedAt = b.CreatedAt
	_, err := r.coll.InsertOne(ctx, b)
	return err
}

// ListByUser returns the bookings made by userID, newest first, with the
// property summary.
func (r *BookingRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]model.BookingDetail, error) {
	return r.aggregate(ctx, detailPipeline(bson.D{{Key: "user", Value: userID}}, false))
}

// ListAll returns every booking, newest first, with property and user
// summaries.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	return r.aggregate(ctx, detailPipeline(bson.D{}, true))
}

func (r *BookingRepo) aggregate(ctx context.Context, p mongo.Pipeline) ([]model.BookingDetail, error) {
	cur, err := r.coll.Aggregate(ctx, p)
	if err != nil {
		return nil, err
	}
	out := []model.BookingDetail{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates the index behind the per-user listing.
func (r *BookingRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("user_createdAt"),
	})
	return err
}

// detailPipeline builds the listing aggregation.  A booking whose property
// has been removed keeps a missing property field instead of being dropped.
func detailPipeline(match bson.D, withUser bool) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		lookup("properties", "property", "property"),
		unwind("$property"),
	}
	if withUser {
		p = append(p, lookup("users", "user", "userDoc"), unwind("$userDoc"))
	}

	fields := bson.D{
		{Key: "user", Value: 1},
		{Key: "checkIn", Value: 1},
		{Key: "checkOut", Value: 1},
		{Key: "guests", Value: 1},
		{Key: "totalPrice", Value: 1},
		{Key: "status", Value: 1},
		{Key: "createdAt", Value: 1},
		{Key: "updatedAt", Value: 1},
		{Key: "property._id", Value: 1},
		{Key: "property.title", Value: 1},
		{Key: "property.location", Value: 1},
		{Key: "property.images", Value: 1},
		{Key: "property.price", Value: 1},
		{Key: "property.propertyType", Value: 1},
	}
	if withUser {
		fields = append(fields,
			bson.E{Key: "userDoc._id", Value: 1},
			bson.E{Key: "userDoc.name", Value: 1},
			bson.E{Key: "userDoc.email", Value: 1},
		)
	}
	return append(p, bson.D{{Key: "$project", Value: fields}})
}

func lookup(from, localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

func unwind(path string) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: path},
		{Key: "preserveNullAndEmptyArrays", Value: true},
	}}}
}
