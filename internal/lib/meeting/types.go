package meeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

// TravelMode selects how participants travel to a venue
type TravelMode string

const (
	ModeDriving   TravelMode = "driving"
	ModeWalking   TravelMode = "walking"
	ModeBicycling TravelMode = "bicycling"
	ModeTransit   TravelMode = "transit"
)

// Sentinel values for "travel info unavailable". These are valid terminal
// values that flow through scoring; they are never raised as errors.
const (
	UnknownTravelMinutes = 9999
	UnknownText          = "Unknown"
)

// Route is a routed path between two coordinates
type Route struct {
	Steps          []geo.RouteStep `json:"steps"`
	DistanceMeters float64         `json:"distance_meters"`
}

// Venue is a candidate meeting place returned by discovery. Venues are
// created fresh per search call and identified by their external ID.
type Venue struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Location     geo.Point `json:"location"`
	Rating       *float64  `json:"rating,omitempty"`
	TotalRatings int       `json:"total_ratings"`
	PriceLevel   int       `json:"price_level"`
	Types        []string  `json:"types,omitempty"`
	Address      string    `json:"address,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
}

// TravelInfo is one origin→destination cell of a travel matrix
type TravelInfo struct {
	DurationMinutes int    `json:"duration_minutes"`
	DistanceText    string `json:"distance_text"`
	DurationText    string `json:"duration_text"`
}

// UnknownTravelInfo returns the sentinel cell used when a lookup failed.
func UnknownTravelInfo() TravelInfo {
	return TravelInfo{
		DurationMinutes: UnknownTravelMinutes,
		DistanceText:    UnknownText,
		DurationText:    UnknownText,
	}
}

// RankedVenue is a venue with per-origin travel data and derived scores.
// Recomputed on every search, never cached across calls.
type RankedVenue struct {
	Venue

	TravelMinutesByOrigin    []int  `json:"travel_minutes_by_origin,omitempty"`
	MaxTimeDifferenceMinutes int    `json:"max_time_difference_minutes"`
	TotalTravelMinutes       int    `json:"total_travel_minutes"`
	DistanceText             string `json:"distance_text,omitempty"`
	DurationText             string `json:"duration_text,omitempty"`

	FairnessScore  float64 `json:"fairness_score"`
	RatingScore    float64 `json:"rating_score"`
	TotalTimeScore float64 `json:"total_time_score"`
	CompositeScore float64 `json:"composite_score"`
}

// Tier identifies which strategy produced a result
type Tier string

const (
	TierOptimized      Tier = "OPTIMIZED"
	TierLegacyFallback Tier = "LEGACY_FALLBACK"
	TierArithmeticOnly Tier = "ARITHMETIC_ONLY"
)

// MeetingResult is the final shape handed to presentation layers
type MeetingResult struct {
	Midpoint     geo.Point     `json:"midpoint"`
	RankedVenues []RankedVenue `json:"ranked_venues"`
	TierUsed     Tier          `json:"tier_used"`
}

// RouteClient returns a routed path between two coordinates
type RouteClient interface {
	GetRoute(ctx context.Context, origin, destination geo.Point) (*Route, error)
}

// VenueDiscovery returns candidate venues around a coordinate
type VenueDiscovery interface {
	SearchNearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]Venue, error)
}

// TravelMatrix computes travel time/distance from every origin to every
// destination. The returned matrix is indexed [origin][destination].
type TravelMatrix interface {
	Compute(ctx context.Context, origins, destinations []geo.Point, mode TravelMode) ([][]TravelInfo, error)
}

// ErrNoVenuesFound means discovery produced zero venues. It is a valid
// terminal business outcome, not an upstream failure.
var ErrNoVenuesFound = errors.New("no venues found near midpoint")

// InvalidInputError reports malformed caller arguments. Fatal to the
// call; raised before any network activity.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var iie *InvalidInputError
	return errors.As(err, &iie)
}
