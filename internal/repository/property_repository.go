package repository

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/staywise/booking-api/internal/model"
)

// PropertyFilter narrows a catalog listing.  Empty strings and nil bounds
// impose no constraint.
type PropertyFilter struct {
	Location     string   // case-insensitive substring of the location
	PropertyType string   // exact property type
	MinPrice     *float64 // inclusive lower bound on the nightly price
	MaxPrice     *float64 // inclusive upper bound on the nightly price
}

// query renders the filter as a store query.  Unavailable properties are
// never listed.
func (f PropertyFilter) query() bson.D {
	q := bson.D{{Key: "available", Value: true}}
	if f.Location != "" {
		q = append(q, bson.E{Key: "location", Value: primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}})
	}
	if f.PropertyType != "" {
		q = append(q, bson.E{Key: "propertyType", Value: f.PropertyType})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.D{}
		if f.MinPrice != nil {
			price = append(price, bson.E{Key: "$gte", Value: *f.MinPrice})
		}
		if f.MaxPrice != nil {
			price = append(price, bson.E{Key: "$lte", Value: *f.MaxPrice})
		}
		q = append(q, bson.E{Key: "price", Value: price})
	}
	return q
}

// PropertyRepo encapsulates all queries against the `properties` collection.
type PropertyRepo struct {
	coll *mongo.Collection
}

func NewPropertyRepo(db *mongo.Database) *PropertyRepo {
	return &PropertyRepo{coll: db.Collection("properties")}
}

// Create inserts a property.  On success the property's ID and timestamps
// are populated.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Amenities == nil {
		p.Amenities = []string{}
	}
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

// GetByID fetches a property regardless of availability.  It returns
// ErrPropertyNotFound if no document matches.
func (r *PropertyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error) {
	var p model.Property
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p); err != nil {
		return nil, notFound(err, ErrPropertyNotFound)
	}
	return &p, nil
}

// List returns the available properties matching f, newest first.  The
// result is never nil.
func (r *PropertyRepo) List(ctx context.Context, f PropertyFilter) ([]model.Property, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	out := []model.Property{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// InsertMany stores a batch of properties, stamping each with a fresh id
// and creation time.  It is used by the seeder.
func (r *PropertyRepo) InsertMany(ctx context.Context, ps []model.Property) (int, error) {
	if len(ps) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(ps))
	for i := range ps {
		ps[i].ID = primitive.NewObjectID()
		ps[i].CreatedAt = now()
		ps[i].UpdatedAt = ps[i].CreatedAt
		docs[i] = ps[i]
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

// DeleteAll empties the collection and reports how many documents went.
func (r *PropertyRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the index backing the default listing query.
func (r *PropertyRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "available", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("available_createdAt"),
	})
	return err
}
