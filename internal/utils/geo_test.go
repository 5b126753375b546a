package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidCoordinates(t *testing.T) {
	assert.True(t, IsValidCoordinates(0, 0))
	assert.True(t, IsValidCoordinates(90, 180))
	assert.True(t, IsValidCoordinates(-90, -180))
	assert.False(t, IsValidCoordinates(90.1, 0))
	assert.False(t, IsValidCoordinates(0, -180.1))
}

func TestCalculateCenter(t *testing.T) {
	assert.Equal(t, Point{}, CalculateCenter(nil))

	single := CalculateCenter([]Point{{Lat: 38.5, Lng: -121.7}})
	assert.Equal(t, Point{Lat: 38.5, Lng: -121.7}, single)

	center := CalculateCenter([]Point{
		{Lat: 0, Lng: 0},
		{Lat: 2, Lng: 4},
	})
	assert.InDelta(t, 1, center.Lat, 1e-9)
	assert.InDelta(t, 2, center.Lng, 1e-9)
}

func TestCalculateBounds(t *testing.T) {
	assert.Nil(t, CalculateBounds(nil))

	bounds := CalculateBounds([]Point{
		{Lat: 38.54, Lng: -121.76},
		{Lat: 38.53, Lng: -121.74},
		{Lat: 38.55, Lng: -121.75},
	})
	require.NotNil(t, bounds)
	assert.Equal(t, Point{Lat: 38.55, Lng: -121.74}, bounds.Northeast)
	assert.Equal(t, Point{Lat: 38.53, Lng: -121.76}, bounds.Southwest)
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "38.538200,-121.761700", Point{Lat: 38.5382, Lng: -121.7617}.String())
}
