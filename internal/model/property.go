package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Property types accepted by the catalog.
const (
	PropertyTypeVilla     = "villa"
	PropertyTypeHotel     = "hotel"
	PropertyTypeApartment = "apartment"
	PropertyTypeCottage   = "cottage"
)

// Property is a rentable listing as stored in the `properties` collection.
// Price is per night.
type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Location     string             `bson:"location" json:"location"`
	Price        float64            `bson:"price" json:"price"`
	Images       []string           `bson:"images" json:"images"`
	Amenities    []string           `bson:"amenities" json:"amenities"`
	Bedrooms     int                `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int                `bson:"bathrooms" json:"bathrooms"`
	MaxGuests    int                `bson:"maxGuests" json:"maxGuests"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	Available    bool               `bson:"available" json:"available"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PropertySummary is the subset of a property embedded in booking views.
// Listings fill PropertyType; the booking creation response leaves it out.
type PropertySummary struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	Title        string             `bson:"title" json:"title"`
	Location     string             `bson:"location" json:"location"`
	Images       []string           `bson:"images" json:"images"`
	Price        float64            `bson:"price" json:"price"`
	PropertyType string             `bson:"propertyType,omitempty" json:"propertyType,omitempty"`
}

// Summary projects the fields shown next to a booking.
func (p *Property) Summary() *PropertySummary {
	return &PropertySummary{
		ID:       p.ID,
		Title:    p.Title,
		Location: p.Location,
		Images:   p.Images,
		Price:    p.Price,
	}
}
