package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RouteStep is one segment of a routed path. Steps are ordered; their
// concatenation forms the full route polyline, and the sum of step
// distances approximates the route's total reported distance.
type RouteStep struct {
	DistanceMeters float64 `json:"distance_meters"`
	Start          Point   `json:"start"`
	End            Point   `json:"end"`
}

// GeoUtils interface defines geographic calculation utilities
type GeoUtils interface {
	// Calculate great-circle distance between two points in meters
	PointToPoint(p1, p2 Point) (float64, error)

	// Coordinate-wise mean of one or more points
	ArithmeticMidpoint(points []Point) (Point, error)

	// Walk ordered route steps and interpolate the coordinate at the
	// given distance from the route start
	InterpolateAlongRoute(steps []RouteStep, targetDistanceMeters float64) (Point, error)

	// Decode Google polyline string to point sequence
	DecodePolyline(encoded string) ([]Point, error)

	// Calculate distance between coordinate pairs (convenience method)
	DistanceFromCoords(lat1, lon1, lat2, lon2 float64) (float64, error)
}

// NewGeoUtils is implemented in geo.go
