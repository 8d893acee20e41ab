package meeting

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

// DefaultMaxResults is used when the caller does not cap the venue list
const DefaultMaxResults = 20

// Orchestrator sequences the three result tiers. Each tier is attempted
// only when the previous one failed or came back empty, and a non-empty
// result is terminal: results are never upgraded once a tier produced
// output.
type Orchestrator struct {
	resolver  *MidpointResolver
	optimizer *Optimizer
	discovery VenueDiscovery
	matrix    TravelMatrix

	searchRadiusMeters int
}

// NewOrchestrator wires the tiers around shared collaborators
func NewOrchestrator(resolver *MidpointResolver, optimizer *Optimizer, discovery VenueDiscovery, matrix TravelMatrix) *Orchestrator {
	return &Orchestrator{
		resolver:           resolver,
		optimizer:          optimizer,
		discovery:          discovery,
		matrix:             matrix,
		searchRadiusMeters: optimizer.searchRadiusMeters,
	}
}

// FindMeetingVenues is the single operation the core exposes. It
// validates input before any network activity, resolves the midpoint
// (which never fails once input is valid), then walks the tiers:
// optimized multi-origin scoring, legacy rating-sorted search, and
// finally the bare midpoint with an empty venue list.
func (o *Orchestrator) FindMeetingVenues(ctx context.Context, origins []geo.Point, mode TravelMode, categories []string, maxResults int) (*MeetingResult, error) {
	if err := validateSearchInput(origins, categories); err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	midpoint, err := o.resolver.Resolve(ctx, origins)
	if err != nil {
		return nil, err
	}

	ranked, err := o.optimizer.Optimize(ctx, midpoint, origins, mode, categories, maxResults)
	if err == nil && len(ranked) > 0 {
		return assembleResult(midpoint, ranked, TierOptimized), nil
	}
	if err != nil {
		if IsInvalidInput(err) {
			return nil, err
		}
		log.Printf("Fallback: optimized tier failed, trying legacy search: %v", err)
	} else {
		log.Printf("Fallback: optimized tier returned no venues, trying legacy search")
	}

	ranked, err = o.legacySearch(ctx, midpoint, origins, mode, categories, maxResults)
	if err == nil && len(ranked) > 0 {
		return assembleResult(midpoint, ranked, TierLegacyFallback), nil
	}
	if err != nil {
		log.Printf("Fallback: legacy tier failed: %v", err)
	}

	// No venues anywhere is a valid terminal state: the caller can still
	// render "no results near this point" around the midpoint.
	return assembleResult(midpoint, nil, TierArithmeticOnly), nil
}

// legacySearch is the pre-optimizer search path inherited from the
// two-party product: venues around the midpoint sorted purely by rating,
// with travel info fetched from the first origin only and attached for
// display. A venue whose travel lookup fails keeps its place in the list
// with "Unknown" travel text.
func (o *Orchestrator) legacySearch(ctx context.Context, midpoint geo.Point, origins []geo.Point, mode TravelMode, categories []string, maxResults int) ([]RankedVenue, error) {
	var venues []Venue
	var lastErr error
	for _, category := range categories {
		found, err := o.discovery.SearchNearby(ctx, midpoint, o.searchRadiusMeters, category)
		if err != nil {
			log.Printf("Fallback: legacy discovery failed for category %q: %v", category, err)
			lastErr = err
			continue
		}
		venues = append(venues, found...)
	}

	venues = dedupeVenues(venues)
	if len(venues) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("legacy search found no venues: %w", lastErr)
		}
		return nil, ErrNoVenuesFound
	}

	sort.SliceStable(venues, func(i, j int) bool {
		return ratingOrNeutral(venues[i]) > ratingOrNeutral(venues[j])
	})
	if len(venues) > maxResults {
		venues = venues[:maxResults]
	}

	ranked := make([]RankedVenue, len(venues))
	var wg sync.WaitGroup
	for i, venue := range venues {
		wg.Add(1)
		go func(slot int, venue Venue) {
			defer wg.Done()
			ranked[slot] = RankedVenue{
				Venue:                 venue,
				TravelMinutesByOrigin: []int{UnknownTravelMinutes},
				DistanceText:          UnknownText,
				DurationText:          UnknownText,
			}

			info, err := o.travelFromFirstOrigin(ctx, origins[0], venue.Location, mode)
			if err != nil {
				log.Printf("Fallback: travel info unavailable for venue %s: %v", venue.ID, err)
				return
			}
			ranked[slot].TravelMinutesByOrigin = []int{info.DurationMinutes}
			ranked[slot].TotalTravelMinutes = info.DurationMinutes
			ranked[slot].DistanceText = info.DistanceText
			ranked[slot].DurationText = info.DurationText
		}(i, venue)
	}
	wg.Wait()

	return ranked, nil
}

// travelFromFirstOrigin fetches a single matrix cell for display
func (o *Orchestrator) travelFromFirstOrigin(ctx context.Context, origin, destination geo.Point, mode TravelMode) (TravelInfo, error) {
	matrix, err := o.matrix.Compute(ctx, []geo.Point{origin}, []geo.Point{destination}, mode)
	if err != nil {
		return TravelInfo{}, err
	}
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return TravelInfo{}, fmt.Errorf("travel matrix returned no cells")
	}
	return matrix[0][0], nil
}

// validateSearchInput enforces caller constraints before any network call
func validateSearchInput(origins []geo.Point, categories []string) error {
	if len(origins) < 2 {
		return &InvalidInputError{Reason: "at least two origins are required"}
	}
	for i, origin := range origins {
		if !origin.IsValid() {
			return &InvalidInputError{Reason: fmt.Sprintf("origin %d has out-of-range coordinates", i)}
		}
	}
	if len(categories) == 0 {
		return &InvalidInputError{Reason: "at least one venue category is required"}
	}
	return nil
}

// assembleResult packages the midpoint, venue list, and tier into the
// shape handed to presentation layers. Pure shaping: absent optional
// display fields default to "Unknown", and the venue list is never nil.
func assembleResult(midpoint geo.Point, ranked []RankedVenue, tier Tier) *MeetingResult {
	if ranked == nil {
		ranked = []RankedVenue{}
	}
	for i := range ranked {
		if ranked[i].DistanceText == "" {
			ranked[i].DistanceText = UnknownText
		}
		if ranked[i].DurationText == "" {
			ranked[i].DurationText = UnknownText
		}
	}
	return &MeetingResult{
		Midpoint:     midpoint,
		RankedVenues: ranked,
		TierUsed:     tier,
	}
}
