package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistanceZeroForSamePoint(t *testing.T) {
	assert.InDelta(t, 0, CalculateDistance(40.7128, -74.0060, 40.7128, -74.0060), 1e-9)
}

func TestCalculateDistanceKnownPair(t *testing.T) {
	// New York to Los Angeles, roughly 3936 km great-circle
	d := CalculateDistance(40.7128, -74.0060, 34.0522, -118.2437)
	assert.InDelta(t, 3936, d, 10)
}

func TestCalculateDistanceSymmetric(t *testing.T) {
	forward := CalculateDistance(51.5074, -0.1278, 48.8566, 2.3522)
	backward := CalculateDistance(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, forward, backward, 1e-6)
}
