package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// One degree of latitude along a meridian is about 111.19 km with
	// the spherical earth radius used here.
	assert.InDelta(t, 111.19, CalculateDistance(0, 0, 1, 0), 0.01)

	assert.Zero(t, CalculateDistance(38.5382, -121.7617, 38.5382, -121.7617))

	// Symmetric.
	assert.InDelta(t,
		CalculateDistance(38.5382, -121.7617, 38.5396, -121.7497),
		CalculateDistance(38.5396, -121.7497, 38.5382, -121.7617),
		1e-9)
}

func TestCalculateDistanceMeters(t *testing.T) {
	km := CalculateDistance(0, 0, 0.001, 0)
	assert.InDelta(t, km*1000, CalculateDistanceMeters(0, 0, 0.001, 0), 1e-9)
	assert.InDelta(t, 111.19, CalculateDistanceMeters(0, 0, 0.001, 0), 0.01)
}

func TestIsWithinRadiusMeters(t *testing.T) {
	// ~111m apart.
	assert.True(t, IsWithinRadiusMeters(0, 0, 0.001, 0, 112))
	assert.False(t, IsWithinRadiusMeters(0, 0, 0.001, 0, 110))
	assert.True(t, IsWithinRadiusMeters(0, 0, 0, 0, 0))
}
