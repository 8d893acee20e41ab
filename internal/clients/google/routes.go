package google

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/meeting"
)

// GetRoute fetches a routed path between two coordinates from the
// Directions API and flattens it into ordered steps. Step polylines are
// decoded and subdivided so that interpolation along the route follows
// the actual road geometry rather than jumping between step endpoints.
func (c *Client) GetRoute(ctx context.Context, origin, destination geo.Point) (*meeting.Route, error) {
	params := url.Values{}
	params.Set("origin", formatPoint(origin))
	params.Set("destination", formatPoint(destination))
	params.Set("mode", "driving")

	var response directionsResponse
	if err := c.getJSON(ctx, "directions", params, c.ttls.Directions, &response); err != nil {
		return nil, err
	}

	switch response.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return nil, fmt.Errorf("directions %s -> %s: %w", formatPoint(origin), formatPoint(destination), ErrRouteNotFound)
	default:
		return nil, statusError("directions", response.Status, response.ErrorMessage)
	}
	if len(response.Routes) == 0 {
		return nil, fmt.Errorf("directions returned no routes: %w", ErrRouteNotFound)
	}

	route := &meeting.Route{}
	for _, leg := range response.Routes[0].Legs {
		route.DistanceMeters += float64(leg.Distance.Value)
		for _, step := range leg.Steps {
			route.Steps = append(route.Steps, c.expandStep(step)...)
		}
	}
	return route, nil
}

// expandStep converts one Directions step into route steps. The encoded
// step polyline is split into per-segment steps whose haversine lengths
// are scaled to sum to the step's reported road distance; a step whose
// polyline cannot be decoded degrades to a single straight step.
func (c *Client) expandStep(step directionsStep) []geo.RouteStep {
	whole := geo.RouteStep{
		DistanceMeters: float64(step.Distance.Value),
		Start:          geo.Point{Latitude: step.StartLocation.Lat, Longitude: step.StartLocation.Lng},
		End:            geo.Point{Latitude: step.EndLocation.Lat, Longitude: step.EndLocation.Lng},
	}

	points, err := c.geo.DecodePolyline(step.Polyline.Points)
	if err != nil || len(points) < 2 {
		return []geo.RouteStep{whole}
	}

	segments := make([]geo.RouteStep, 0, len(points)-1)
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		d, err := c.geo.PointToPoint(points[i], points[i+1])
		if err != nil {
			return []geo.RouteStep{whole}
		}
		segments = append(segments, geo.RouteStep{
			DistanceMeters: d,
			Start:          points[i],
			End:            points[i+1],
		})
		total += d
	}

	if total <= 0 {
		return []geo.RouteStep{whole}
	}

	// Scale straight-line segment lengths so they sum to the reported
	// road distance of the step
	scale := whole.DistanceMeters / total
	for i := range segments {
		segments[i].DistanceMeters *= scale
	}
	return segments
}

// Directions API response structures

type directionsResponse struct {
	Status       string            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Routes       []directionsRoute `json:"routes"`
}

type directionsRoute struct {
	Legs []directionsLeg `json:"legs"`
}

type directionsLeg struct {
	Distance valueText        `json:"distance"`
	Duration valueText        `json:"duration"`
	Steps    []directionsStep `json:"steps"`
}

type directionsStep struct {
	Distance      valueText       `json:"distance"`
	StartLocation latLng          `json:"start_location"`
	EndLocation   latLng          `json:"end_location"`
	Polyline      encodedPolyline `json:"polyline"`
}

type valueText struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type encodedPolyline struct {
	Points string `json:"points"`
}
