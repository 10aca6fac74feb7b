package handler

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/staywise/booking-api/internal/model"
	"github.com/staywise/booking-api/internal/repository"
)

// PropertyCatalog is the property storage the catalog endpoints need.
type PropertyCatalog interface {
	List(ctx context.Context, f repository.PropertyFilter) ([]model.Property, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Property, error)
	Create(ctx context.Context, p *model.Property) error
}

// PropertyHandler serves the public catalog and admin property creation.
type PropertyHandler struct {
	Properties PropertyCatalog
	Logger     *slog.Logger
	// Invalidate drops cached catalog responses after a write.
	Invalidate func(context.Context)
}

func NewPropertyHandler(properties PropertyCatalog, invalidate func(context.Context), logger *slog.Logger) *PropertyHandler {
	if properties == nil {
		panic("nil property catalog passed to NewPropertyHandler")
	}
	if invalidate == nil {
		invalidate = func(context.Context) {}
	}
	return &PropertyHandler{Properties: properties, Logger: logger, Invalidate: invalidate}
}

type createPropertyReq struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description" validate:"required"`
	Location     string   `json:"location" validate:"required"`
	Price        *float64 `json:"price" validate:"required,gte=0"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Bedrooms     int      `json:"bedrooms" validate:"min=1"`
	Bathrooms    int      `json:"bathrooms" validate:"min=1"`
	MaxGuests    int      `json:"maxGuests" validate:"min=1"`
	PropertyType string   `json:"propertyType" validate:"required,oneof=villa hotel apartment cottage"`
	Available    *bool    `json:"available"`
}

func (r *createPropertyReq) normalize() {
	trim(&r.Title)
	trim(&r.Description)
	trim(&r.Location)
	trim(&r.PropertyType)
}

// ListProperties returns available properties filtered by the optional
// location, propertyType, minPrice and maxPrice query parameters.
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	f := repository.PropertyFilter{
		Location:     c.QueryParam("location"),
		PropertyType: c.QueryParam("propertyType"),
		MinPrice:     parsePrice(c.QueryParam("minPrice")),
		MaxPrice:     parsePrice(c.QueryParam("maxPrice")),
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	props, err := h.Properties.List(ctx, f)
	if err != nil {
		return serverError(c, h.Logger, "list properties", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Properties fetched successfully",
		"count":      len(props),
		"properties": props,
	})
}

// GetProperty returns one property regardless of availability.
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPropertyNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Property not found"})
		}
		return serverError(c, h.Logger, "get property", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":  "Property fetched successfully",
		"property": p,
	})
}

// CreateProperty stores a new listing.  Admin only.
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req createPropertyReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}

	p := &model.Property{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Price:        *req.Price,
		Images:       req.Images,
		Amenities:    req.Amenities,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		MaxGuests:    req.MaxGuests,
		PropertyType: req.PropertyType,
		Available:    req.Available == nil || *req.Available,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), storeTimeout)
	defer cancel()

	if err := h.Properties.Create(ctx, p); err != nil {
		return serverError(c, h.Logger, "create property", err)
	}
	h.Invalidate(ctx)
	h.Logger.Info("property created", "property_id", p.ID.Hex(), "type", p.PropertyType)

	return c.JSON(http.StatusCreated, echo.Map{
		"message":  "Property created successfully",
		"property": p,
	})
}

// parsePrice reads an optional price bound.  Anything that is not a finite
// number imposes no bound.
func parsePrice(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
