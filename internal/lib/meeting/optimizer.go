package meeting

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

// Scoring weights. Policy constants, not laws of nature: equity between
// parties matters most, venue quality second, absolute travel burden least.
const (
	fairnessWeight  = 0.5
	ratingWeight    = 0.3
	totalTimeWeight = 0.2
)

// neutralRating substitutes for venues that carry no rating at all
const neutralRating = 3.0

// DefaultSearchRadiusMeters is the venue discovery radius around the midpoint
const DefaultSearchRadiusMeters = 1500

// DefaultMatrixBatchSize caps destinations per travel matrix call to
// respect upstream request-size limits.
const DefaultMatrixBatchSize = 25

// Optimizer ranks venues around a midpoint by a fairness-aware objective
// computed from every participant origin.
type Optimizer struct {
	discovery VenueDiscovery
	matrix    TravelMatrix

	searchRadiusMeters int
	batchSize          int
}

// NewOptimizer creates an optimizer with default radius and batch size
func NewOptimizer(discovery VenueDiscovery, matrix TravelMatrix) *Optimizer {
	return &Optimizer{
		discovery:          discovery,
		matrix:             matrix,
		searchRadiusMeters: DefaultSearchRadiusMeters,
		batchSize:          DefaultMatrixBatchSize,
	}
}

// NewOptimizerWithLimits creates an optimizer with explicit search radius
// and matrix batch size (values <= 0 fall back to the defaults).
func NewOptimizerWithLimits(discovery VenueDiscovery, matrix TravelMatrix, radiusMeters, batchSize int) *Optimizer {
	o := NewOptimizer(discovery, matrix)
	if radiusMeters > 0 {
		o.searchRadiusMeters = radiusMeters
	}
	if batchSize > 0 {
		o.batchSize = batchSize
	}
	return o
}

// Optimize discovers venues per category around the midpoint, computes
// travel times from every origin, and returns venues ranked by composite
// score. It fails only when discovery yields nothing at all: per-category
// failures are logged and skipped, and travel matrix failures degrade to
// sentinel values per batch.
func (o *Optimizer) Optimize(ctx context.Context, midpoint geo.Point, origins []geo.Point, mode TravelMode, categories []string, maxResults int) ([]RankedVenue, error) {
	venues, err := o.discoverVenues(ctx, midpoint, categories)
	if err != nil {
		return nil, err
	}

	venues = dedupeVenues(venues)
	if len(venues) == 0 {
		return nil, ErrNoVenuesFound
	}
	log.Printf("Optimizer: %d unique venues across %d categories", len(venues), len(categories))

	minutes, display := o.travelMinutes(ctx, origins, venues, mode)

	ranked := make([]RankedVenue, len(venues))
	for i, venue := range venues {
		ranked[i] = scoreVenue(venue, minutes[i])
		ranked[i].DistanceText = display[i].DistanceText
		ranked[i].DurationText = display[i].DurationText
	}

	sortRanked(ranked)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked, nil
}

// discoverVenues fans out one discovery call per category and joins the
// results. Each branch writes only its own slot; failures are recorded
// per category and the search aborts only when every category failed.
func (o *Optimizer) discoverVenues(ctx context.Context, midpoint geo.Point, categories []string) ([]Venue, error) {
	results := make([][]Venue, len(categories))
	errs := make([]error, len(categories))

	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(slot int, category string) {
			defer wg.Done()
			found, err := o.discovery.SearchNearby(ctx, midpoint, o.searchRadiusMeters, category)
			if err != nil {
				log.Printf("Optimizer: discovery failed for category %q: %v", category, err)
				errs[slot] = err
				return
			}
			results[slot] = found
		}(i, category)
	}
	wg.Wait()

	var venues []Venue
	failures := 0
	for i := range categories {
		if errs[i] != nil {
			failures++
			continue
		}
		venues = append(venues, results[i]...)
	}

	if failures == len(categories) && len(categories) > 0 {
		// Every category failed: surface the first cause so the
		// orchestrator can move to the next tier.
		return nil, errs[0]
	}
	return venues, nil
}

// dedupeVenues drops duplicate venue IDs, first occurrence wins.
// Venues returned for several categories appear once in the result.
func dedupeVenues(venues []Venue) []Venue {
	seen := make(map[string]bool, len(venues))
	deduped := make([]Venue, 0, len(venues))
	for _, v := range venues {
		if seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		deduped = append(deduped, v)
	}
	return deduped
}

// travelMinutes batch-fetches travel times for all venues from all
// origins. Batches are fetched concurrently into per-batch slots; a
// failed batch yields sentinel minutes for its venues rather than
// aborting the search. Returns minutes[venueIndex][originIndex] plus the
// first origin's matrix cell per venue for display.
func (o *Optimizer) travelMinutes(ctx context.Context, origins []geo.Point, venues []Venue, mode TravelMode) ([][]int, []TravelInfo) {
	minutes := make([][]int, len(venues))
	display := make([]TravelInfo, len(venues))

	var wg sync.WaitGroup
	for start := 0; start < len(venues); start += o.batchSize {
		end := start + o.batchSize
		if end > len(venues) {
			end = len(venues)
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			destinations := make([]geo.Point, end-start)
			for i, v := range venues[start:end] {
				destinations[i] = v.Location
			}

			matrix, err := o.matrix.Compute(ctx, origins, destinations, mode)
			if err != nil || len(matrix) != len(origins) {
				if err != nil {
					log.Printf("Optimizer: travel matrix batch %d-%d failed, using sentinel times: %v", start, end-1, err)
				}
				for v := start; v < end; v++ {
					minutes[v] = sentinelMinutes(len(origins))
					display[v] = UnknownTravelInfo()
				}
				return
			}

			for v := start; v < end; v++ {
				row := make([]int, len(origins))
				for oi := range origins {
					row[oi] = matrix[oi][v-start].DurationMinutes
				}
				minutes[v] = row
				display[v] = matrix[0][v-start]
			}
		}(start, end)
	}
	wg.Wait()

	return minutes, display
}

func sentinelMinutes(n int) []int {
	row := make([]int, n)
	for i := range row {
		row[i] = UnknownTravelMinutes
	}
	return row
}

// scoreVenue derives the fairness, rating, and total-time scores for one
// venue and combines them into the composite. Sentinel travel times flow
// through unchanged; the clamps keep every score finite.
func scoreVenue(venue Venue, minutesByOrigin []int) RankedVenue {
	minMinutes, maxMinutes, total := minutesByOrigin[0], minutesByOrigin[0], 0
	for _, m := range minutesByOrigin {
		if m < minMinutes {
			minMinutes = m
		}
		if m > maxMinutes {
			maxMinutes = m
		}
		total += m
	}
	spread := maxMinutes - minMinutes

	fairness := 100 - float64(clampInt(spread, 100))

	rating := neutralRating
	if venue.Rating != nil {
		rating = *venue.Rating
	}
	ratingScore := rating * 20

	avgMinutes := float64(total) / float64(len(minutesByOrigin))
	totalTimeScore := 100 - minFloat(avgMinutes, 100)

	return RankedVenue{
		Venue:                    venue,
		TravelMinutesByOrigin:    minutesByOrigin,
		MaxTimeDifferenceMinutes: spread,
		TotalTravelMinutes:       total,
		FairnessScore:            fairness,
		RatingScore:              ratingScore,
		TotalTimeScore:           totalTimeScore,
		CompositeScore:           fairness*fairnessWeight + ratingScore*ratingWeight + totalTimeScore*totalTimeWeight,
	}
}

// sortRanked orders by composite score descending; ties break on higher
// rating, then lower total travel time.
func sortRanked(ranked []RankedVenue) {
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].CompositeScore != ranked[j].CompositeScore {
			return ranked[i].CompositeScore > ranked[j].CompositeScore
		}
		ri, rj := ratingOrNeutral(ranked[i].Venue), ratingOrNeutral(ranked[j].Venue)
		if ri != rj {
			return ri > rj
		}
		return ranked[i].TotalTravelMinutes < ranked[j].TotalTravelMinutes
	})
}

func ratingOrNeutral(v Venue) float64 {
	if v.Rating != nil {
		return *v.Rating
	}
	return neutralRating
}

func clampInt(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
