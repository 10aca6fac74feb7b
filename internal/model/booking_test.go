package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBookingDetailUserRendering(t *testing.T) {
	uid := primitive.NewObjectID()
	d := BookingDetail{ID: primitive.NewObjectID(), UserID: uid, TotalPrice: 15000, Status: BookingConfirmed}

	var bare map[string]any
	bs, err := json.Marshal(d)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bs, &bare))
	assert.Equal(t, uid.Hex(), bare["user"])
	assert.Nil(t, bare["property"])
	assert.Equal(t, 15000.0, bare["totalPrice"])

	d.User = &UserSummary{ID: uid, Name: "Test User", Email: "user@test.com"}
	var expanded map[string]any
	bs, err = json.Marshal(&d)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bs, &expanded))
	assert.Equal(t, map[string]any{"_id": uid.Hex(), "name": "Test User", "email": "user@test.com"}, expanded["user"])
	assert.NotContains(t, expanded, "userDoc")
}

func TestPropertySummaryOmitsType(t *testing.T) {
	p := &Property{ID: primitive.NewObjectID(), Title: "Lakeside Villa", PropertyType: PropertyTypeVilla, Images: []string{}}
	bs, err := json.Marshal(p.Summary())
	require.NoError(t, err)
	assert.NotContains(t, string(bs), "propertyType")
}
