// Command seed resets the users and properties collections to a known
// demo state: one admin, one regular user and six listings.  Bookings are
// left untouched.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/staywise/booking-api/internal/config"
	"github.com/staywise/booking-api/internal/database"
	"github.com/staywise/booking-api/internal/logging"
	"github.com/staywise/booking-api/internal/model"
	"github.com/staywise/booking-api/internal/repository"
)

type seedUser struct {
	name, email, password, role string
}

var seedUsers = []seedUser{
	{"Admin User", "admin@staywise.com", "admin123", model.RoleAdmin},
	{"Test User", "user@test.com", "user123", model.RoleUser},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger, closeLog, err := logging.New(cfg.LogLevel, "", cfg.ServiceName+"-seed", cfg.Env)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, db, err := database.Open(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	users := repository.NewUserRepo(db)
	properties := repository.NewPropertyRepo(db)

	for name, wipe := range map[string]func(context.Context) (int64, error){
		"users":      users.DeleteAll,
		"properties": properties.DeleteAll,
	} {
		n, err := wipe(ctx)
		if err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
		logger.Info("collection cleared", "collection", name, "deleted", n)
	}
	if err := users.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure user indexes: %w", err)
	}
	if err := properties.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure property indexes: %w", err)
	}

	for _, su := range seedUsers {
		u, err := users.Create(ctx, su.name, su.email, su.password, su.role, cfg.BcryptCost)
		if err != nil {
			return fmt.Errorf("create %s: %w", su.email, err)
		}
		logger.Info("user created", "email", u.Email, "role", u.Role)
	}

	n, err := properties.InsertMany(ctx, seedProperties())
	if err != nil {
		return fmt.Errorf("insert properties: %w", err)
	}
	logger.Info("seeding completed", "properties", n, "users", len(seedUsers))
	return nil
}

func seedProperties() []model.Property {
	return []model.Property{
		{
			Title:       "Luxury Beach Villa",
			Description: "Beautiful beachfront villa with stunning ocean views, private pool, and modern amenities. Perfect for a relaxing getaway.",
			Location:    "Goa, India",
			Price:       15000,
			Images: []string{
				"https://images.unsplash.com/photo-1582268611958-ebfd161ef9cf?w=800",
				"https://images.unsplash.com/photo-1566073771259-6a8506099945?w=800",
			},
			Amenities:    []string{"WiFi", "Pool", "Beach Access", "Parking", "Kitchen", "Air Conditioning"},
			Bedrooms:     4,
			Bathrooms:    3,
			MaxGuests:    8,
			PropertyType: model.PropertyTypeVilla,
			Available:    true,
		},
		{
			Title:       "Mountain View Cottage",
			Description: "Cozy cottage nestled in the mountains with breathtaking views. Ideal for nature lovers and peaceful retreats.",
			Location:    "Manali, India",
			Price:       8000,
			Images: []string{
				"https://images.unsplash.com/photo-1587381420270-3e1a5b9e6904?w=800",
				"https://images.unsplash.com/photo-1510798831971-661eb04b3739?w=800",
			},
			Amenities:    []string{"WiFi", "Fireplace", "Garden", "Parking", "Kitchen"},
			Bedrooms:     2,
			Bathrooms:    2,
			MaxGuests:    4,
			PropertyType: model.PropertyTypeCottage,
			Available:    true,
		},
		{
			Title:       "Modern City Apartment",
			Description: "Stylish apartment in the heart of the city. Walking distance to restaurants, shops, and entertainment.",
			Location:    "Mumbai, India",
			Price:       5000,
			Images: []string{
				"https://images.unsplash.com/photo-1522708323590-d24dbb6b0267?w=800",
				"https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?w=800",
			},
			Amenities:    []string{"WiFi", "Gym", "Parking", "Kitchen", "Air Conditioning", "Elevator"},
			Bedrooms:     2,
			Bathrooms:    2,
			MaxGuests:    4,
			PropertyType: model.PropertyTypeApartment,
			Available:    true,
		},
		{
			Title:       "Heritage Hotel Suite",
			Description: "Experience royal luxury in this heritage hotel with traditional architecture and modern comforts.",
			Location:    "Jaipur, India",
			Price:       12000,
			Images: []string{
				"https://images.unsplash.com/photo-1542314831-068cd1dbfeeb?w=800",
				"https://images.unsplash.com/photo-1551882547-ff40c63fe5fa?w=800",
			},
			Amenities:    []string{"WiFi", "Restaurant", "Spa", "Pool", "Parking", "Air Conditioning", "Room Service"},
			Bedrooms:     3,
			Bathrooms:    2,
			MaxGuests:    6,
			PropertyType: model.PropertyTypeHotel,
			Available:    true,
		},
		{
			Title:       "Lakeside Villa",
			Description: "Peaceful lakeside retreat with private dock, garden, and serene surroundings. Perfect for families.",
			Location:    "Udaipur, India",
			Price:       10000,
			Images: []string{
				"https://images.unsplash.com/photo-1613490493576-7fde63acd811?w=800",
				"https://images.unsplash.com/photo-1600596542815-ffad4c1539a9?w=800",
			},
			Amenities:    []string{"WiFi", "Lake Access", "Garden", "Parking", "Kitchen", "Boat"},
			Bedrooms:     3,
			Bathrooms:    2,
			MaxGuests:    6,
			PropertyType: model.PropertyTypeVilla,
			Available:    true,
		},
		{
			Title:       "Boutique Hotel Room",
			Description: "Elegant boutique hotel room with personalized service and attention to detail.",
			Location:    "Bangalore, India",
			Price:       4000,
			Images: []string{
				"https://images.unsplash.com/photo-1590490360182-c33d57733427?w=800",
				"https://images.unsplash.com/photo-1611892440504-42a792e24d32?w=800",
			},
			Amenities:    []string{"WiFi", "Restaurant", "Gym", "Parking", "Air Conditioning", "Room Service"},
			Bedrooms:     1,
			Bathrooms:    1,
			MaxGuests:    2,
			PropertyType: model.PropertyTypeHotel,
			Available:    true,
		},
	}
}
