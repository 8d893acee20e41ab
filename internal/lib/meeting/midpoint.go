package meeting

import (
	"context"
	"log"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

// MidpointResolver produces a single fair meeting coordinate from N
// participant origins by walking routed road geometry. A straight-line
// midpoint can land on the wrong side of a bridge or mountain; splitting
// the road distance instead keeps the point reachable for both sides.
type MidpointResolver struct {
	routes RouteClient
	geo    geo.GeoUtils
}

// NewMidpointResolver creates a resolver backed by the given route client
func NewMidpointResolver(routes RouteClient) *MidpointResolver {
	return &MidpointResolver{
		routes: routes,
		geo:    geo.NewGeoUtils(),
	}
}

// Resolve computes the road-aware midpoint of the given origins. Routing
// failures degrade to the arithmetic midpoint; the only error condition
// is an empty or invalid origin list. This is the guaranteed-success
// floor of the whole search.
func (r *MidpointResolver) Resolve(ctx context.Context, origins []geo.Point) (geo.Point, error) {
	arithmetic, err := r.geo.ArithmeticMidpoint(origins)
	if err != nil {
		return geo.Point{}, &InvalidInputError{Reason: err.Error()}
	}

	if len(origins) == 2 {
		return r.resolvePair(ctx, origins[0], origins[1], arithmetic), nil
	}

	return r.resolveMany(ctx, origins, arithmetic), nil
}

// resolvePair interpolates the point that splits the road distance
// between two origins evenly.
func (r *MidpointResolver) resolvePair(ctx context.Context, a, b, arithmetic geo.Point) geo.Point {
	route, err := r.routes.GetRoute(ctx, a, b)
	if err != nil {
		log.Printf("Road midpoint: route lookup failed, using arithmetic midpoint: %v", err)
		return arithmetic
	}
	if len(route.Steps) == 0 || route.DistanceMeters <= 0 {
		log.Printf("Road midpoint: route has no usable geometry, using arithmetic midpoint")
		return arithmetic
	}

	half := route.DistanceMeters / 2
	midpoint, err := r.geo.InterpolateAlongRoute(route.Steps, half)
	if err != nil {
		log.Printf("Road midpoint: interpolation failed, using arithmetic midpoint: %v", err)
		return arithmetic
	}
	return midpoint
}

// resolveMany handles N>2 origins with a seed-and-refine strategy: the
// arithmetic midpoint seeds the search, one route per origin to the seed
// is requested, and the half-distance points of those routes are
// averaged. A failed route degrades to the straight-line halfway point
// between that origin and the seed, so if every route fails the result
// collapses to exactly the arithmetic midpoint.
func (r *MidpointResolver) resolveMany(ctx context.Context, origins []geo.Point, seed geo.Point) geo.Point {
	adjusted := make([]geo.Point, 0, len(origins))
	for i, origin := range origins {
		route, err := r.routes.GetRoute(ctx, origin, seed)
		if err != nil || len(route.Steps) == 0 || route.DistanceMeters <= 0 {
			log.Printf("Road midpoint: route from origin %d to seed unavailable, using straight-line half", i)
			adjusted = append(adjusted, geo.Point{
				Latitude:  (origin.Latitude + seed.Latitude) / 2,
				Longitude: (origin.Longitude + seed.Longitude) / 2,
			})
			continue
		}

		half, err := r.geo.InterpolateAlongRoute(route.Steps, route.DistanceMeters/2)
		if err != nil {
			adjusted = append(adjusted, geo.Point{
				Latitude:  (origin.Latitude + seed.Latitude) / 2,
				Longitude: (origin.Longitude + seed.Longitude) / 2,
			})
			continue
		}
		adjusted = append(adjusted, half)
	}

	refined, err := r.geo.ArithmeticMidpoint(adjusted)
	if err != nil {
		return seed
	}
	return refined
}
