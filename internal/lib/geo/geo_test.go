package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeoUtils_PointToPoint(t *testing.T) {
	// San Francisco to Oakland (real coordinates)
	sf := Point{Latitude: 37.7749, Longitude: -122.4194}
	oakland := Point{Latitude: 37.8044, Longitude: -122.2712}

	geoUtils := NewGeoUtils()

	distance, err := geoUtils.PointToPoint(sf, oakland)
	require.NoError(t, err)

	// Expected distance ~13.4 km between downtown SF and downtown Oakland
	assert.InDelta(t, 13400, distance, 500, "Distance should be approximately 13.4km")

	// Same point should be exactly 0
	distance, err = geoUtils.PointToPoint(sf, sf)
	require.NoError(t, err)
	assert.Equal(t, 0.0, distance)

	// Test error cases
	invalidPoint := Point{Latitude: 200, Longitude: -300}
	_, err = geoUtils.PointToPoint(sf, invalidPoint)
	assert.Error(t, err, "Should return error for invalid coordinates")
}

func TestGeoUtils_ArithmeticMidpoint(t *testing.T) {
	geoUtils := NewGeoUtils()

	a := Point{Latitude: 37.7749, Longitude: -122.4194}
	b := Point{Latitude: 34.0522, Longitude: -118.2437}

	mid, err := geoUtils.ArithmeticMidpoint([]Point{a, b})
	require.NoError(t, err)
	assert.InDelta(t, (a.Latitude+b.Latitude)/2, mid.Latitude, 1e-9)
	assert.InDelta(t, (a.Longitude+b.Longitude)/2, mid.Longitude, 1e-9)

	// A single point is its own midpoint
	mid, err = geoUtils.ArithmeticMidpoint([]Point{a})
	require.NoError(t, err)
	assert.Equal(t, a, mid)

	// Three points average coordinate-wise
	c := Point{Latitude: 40.7128, Longitude: -74.0060}
	mid, err = geoUtils.ArithmeticMidpoint([]Point{a, b, c})
	require.NoError(t, err)
	assert.InDelta(t, (a.Latitude+b.Latitude+c.Latitude)/3, mid.Latitude, 1e-9)

	// Empty input is an error
	_, err = geoUtils.ArithmeticMidpoint(nil)
	assert.Error(t, err)

	// Invalid coordinates are rejected
	_, err = geoUtils.ArithmeticMidpoint([]Point{{Latitude: 91, Longitude: 0}})
	assert.Error(t, err)
}

func TestGeoUtils_InterpolateAlongRoute_SingleStep(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Straight single-step route: halfway point must equal the arithmetic midpoint
	a := Point{Latitude: 38.0, Longitude: -120.0}
	b := Point{Latitude: 38.2, Longitude: -120.4}
	steps := []RouteStep{{DistanceMeters: 1000, Start: a, End: b}}

	mid, err := geoUtils.InterpolateAlongRoute(steps, 500)
	require.NoError(t, err)
	assert.InDelta(t, 38.1, mid.Latitude, 1e-9)
	assert.InDelta(t, -120.2, mid.Longitude, 1e-9)

	// Target 0 is the route start
	start, err := geoUtils.InterpolateAlongRoute(steps, 0)
	require.NoError(t, err)
	assert.Equal(t, a, start)

	// Target beyond the route total resolves to the final end coordinate
	end, err := geoUtils.InterpolateAlongRoute(steps, 5000)
	require.NoError(t, err)
	assert.Equal(t, b, end)
}

func TestGeoUtils_InterpolateAlongRoute_MultiStep(t *testing.T) {
	geoUtils := NewGeoUtils()

	steps := []RouteStep{
		{DistanceMeters: 100, Start: Point{Latitude: 0, Longitude: 0}, End: Point{Latitude: 0, Longitude: 1}},
		{DistanceMeters: 100, Start: Point{Latitude: 0, Longitude: 1}, End: Point{Latitude: 1, Longitude: 1}},
		{DistanceMeters: 100, Start: Point{Latitude: 1, Longitude: 1}, End: Point{Latitude: 1, Longitude: 2}},
	}

	// Quarter into the second step
	p, err := geoUtils.InterpolateAlongRoute(steps, 125)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, p.Latitude, 1e-9)
	assert.InDelta(t, 1.0, p.Longitude, 1e-9)

	// Monotonicity: increasing target never moves the point backwards
	// along the route (longitude+latitude progress for this geometry)
	prevProgress := -1.0
	for target := 0.0; target <= 300.0; target += 10 {
		pt, err := geoUtils.InterpolateAlongRoute(steps, target)
		require.NoError(t, err)
		progress := pt.Latitude + pt.Longitude
		assert.GreaterOrEqual(t, progress, prevProgress, "point moved backwards at target %.0f", target)
		prevProgress = progress
	}

	// Step boundaries resolve exactly
	boundary, err := geoUtils.InterpolateAlongRoute(steps, 200)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, boundary.Latitude, 1e-9)
	assert.InDelta(t, 1.0, boundary.Longitude, 1e-9)

	// Empty step list is an error
	_, err = geoUtils.InterpolateAlongRoute(nil, 50)
	assert.Error(t, err)

	// Negative target is an error
	_, err = geoUtils.InterpolateAlongRoute(steps, -1)
	assert.Error(t, err)
}

func TestGeoUtils_InterpolateAlongRoute_ZeroLengthStep(t *testing.T) {
	geoUtils := NewGeoUtils()

	// A zero-length step at the target boundary must not divide by zero
	steps := []RouteStep{
		{DistanceMeters: 100, Start: Point{Latitude: 0, Longitude: 0}, End: Point{Latitude: 0, Longitude: 1}},
		{DistanceMeters: 0, Start: Point{Latitude: 0, Longitude: 1}, End: Point{Latitude: 0, Longitude: 1}},
	}

	p, err := geoUtils.InterpolateAlongRoute(steps, 100)
	require.NoError(t, err)
	assert.Equal(t, Point{Latitude: 0, Longitude: 1}, p)
}

func TestGeoUtils_DecodePolyline(t *testing.T) {
	geoUtils := NewGeoUtils()

	// Google's documented example polyline
	points, err := geoUtils.DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Latitude, 0.001)
	assert.InDelta(t, -120.2, points[0].Longitude, 0.001)
	assert.InDelta(t, 40.7, points[1].Latitude, 0.001)
	assert.InDelta(t, -120.95, points[1].Longitude, 0.001)

	// Empty string is an error
	_, err = geoUtils.DecodePolyline("")
	assert.Error(t, err)
}

func TestNewPoint_Validation(t *testing.T) {
	_, err := NewPoint(37.7749, -122.4194)
	assert.NoError(t, err)

	_, err = NewPoint(90.1, 0)
	assert.Error(t, err)

	_, err = NewPoint(0, -180.1)
	assert.Error(t, err)

	assert.True(t, Point{Latitude: -90, Longitude: 180}.IsValid())
	assert.False(t, Point{Latitude: -90.5, Longitude: 180}.IsValid())
}
