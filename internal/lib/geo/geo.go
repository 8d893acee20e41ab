package geo

import (
	"errors"
	"math"

	"github.com/twpayne/go-polyline"
)

// geoUtils implements the GeoUtils interface
type geoUtils struct{}

// NewGeoUtils creates a new GeoUtils implementation
func NewGeoUtils() GeoUtils {
	return &geoUtils{}
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func (g *geoUtils) PointToPoint(p1, p2 Point) (float64, error) {
	// Validate coordinates
	if !isValidCoordinate(p1) || !isValidCoordinate(p2) {
		return 0, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}

	// If points are the same, distance is 0
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0, nil
	}

	// Convert degrees to radians
	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	// Haversine formula
	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Earth's radius in meters
	const earthRadius = 6371000
	distance := earthRadius * c

	return distance, nil
}

// ArithmeticMidpoint returns the coordinate-wise mean of the given points.
// This ignores Earth curvature and road topology; it is the last-resort
// approximation when no routed geometry is available.
func (g *geoUtils) ArithmeticMidpoint(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, errors.New("arithmetic midpoint requires at least one point")
	}

	var sumLat, sumLng float64
	for _, p := range points {
		if !isValidCoordinate(p) {
			return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
		}
		sumLat += p.Latitude
		sumLng += p.Longitude
	}

	n := float64(len(points))
	return Point{Latitude: sumLat / n, Longitude: sumLng / n}, nil
}

// InterpolateAlongRoute walks the ordered steps accumulating distance and
// returns the coordinate at targetDistanceMeters from the route start. The
// point within the matching step is found by linear interpolation between
// the step's start and end. Targets beyond the route total (rounding in
// upstream distance data) resolve to the final step's end coordinate.
func (g *geoUtils) InterpolateAlongRoute(steps []RouteStep, targetDistanceMeters float64) (Point, error) {
	if len(steps) == 0 {
		return Point{}, errors.New("route has no steps")
	}
	if targetDistanceMeters < 0 {
		return Point{}, errors.New("target distance must be non-negative")
	}

	accumulated := 0.0
	for _, step := range steps {
		if accumulated+step.DistanceMeters >= targetDistanceMeters {
			if step.DistanceMeters <= 0 {
				return step.End, nil
			}
			ratio := (targetDistanceMeters - accumulated) / step.DistanceMeters
			return g.interpolatePoint(step.Start, step.End, ratio), nil
		}
		accumulated += step.DistanceMeters
	}

	return steps[len(steps)-1].End, nil
}

// interpolatePoint calculates a point along the line between two points
// t=0 returns start, t=1 returns end, t=0.5 returns midpoint
func (g *geoUtils) interpolatePoint(start, end Point, t float64) Point {
	// For short distances, linear interpolation is sufficient
	// For longer distances, we should use spherical interpolation, but for road segments
	// (typically < 10km), linear interpolation provides adequate accuracy

	lat := start.Latitude + t*(end.Latitude-start.Latitude)
	lon := start.Longitude + t*(end.Longitude-start.Longitude)

	return Point{Latitude: lat, Longitude: lon}
}

// DecodePolyline decodes Google polyline string to point sequence
func (g *geoUtils) DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	// Use go-polyline library to decode
	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, errors.New("failed to decode polyline: " + err.Error())
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		// Validate decoded coordinates
		if !isValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// DistanceFromCoords calculates distance between two coordinate pairs
// Convenience method for raw latitude/longitude values
func (g *geoUtils) DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error) {
	point1 := Point{Latitude: lat1, Longitude: lon1}
	point2 := Point{Latitude: lat2, Longitude: lon2}

	return g.PointToPoint(point1, point2)
}

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if !isValidCoordinate(point) {
		return Point{}, errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")
	}
	return point, nil
}

// IsValid reports whether latitude and longitude are within range.
func (p Point) IsValid() bool {
	return isValidCoordinate(p)
}

// isValidCoordinate validates latitude and longitude values
func isValidCoordinate(point Point) bool {
	return point.Latitude >= -90 && point.Latitude <= 90 &&
		point.Longitude >= -180 && point.Longitude <= 180
}
