package meeting

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

func newTestOrchestrator(routes RouteClient, discovery VenueDiscovery, matrix TravelMatrix) *Orchestrator {
	resolver := NewMidpointResolver(routes)
	optimizer := NewOptimizer(discovery, matrix)
	return NewOrchestrator(resolver, optimizer, discovery, matrix)
}

func workingRoutes() *fakeRouteClient {
	return &fakeRouteClient{getFunc: func(origin, destination geo.Point) (*Route, error) {
		return straightRoute(origin, destination, 600000), nil
	}}
}

func TestOrchestrator_OptimizedTierIsTerminal(t *testing.T) {
	discovery := &fakeDiscovery{searchFunc: func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		return []Venue{testVenue("v1", ratingPtr(4.0))}, nil
	}}
	matrix := &fakeMatrix{computeFunc: func(_, _ []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		return matrixFromMinutes([][]int{{10}, {12}}), nil
	}}

	orch := newTestOrchestrator(workingRoutes(), discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"restaurant"}, 20)
	require.NoError(t, err)

	assert.Equal(t, TierOptimized, result.TierUsed)
	require.Len(t, result.RankedVenues, 1)

	// Once the optimized tier produced output the lower tiers never run:
	// exactly one discovery call (one category) happened.
	assert.Equal(t, int32(1), atomic.LoadInt32(&discovery.calls))
}

func TestOrchestrator_LegacyFallbackTier(t *testing.T) {
	// Discovery fails during the optimized tier and recovers for the
	// legacy pass
	var discoveryCalls int32
	discovery := &fakeDiscovery{searchFunc: nil}
	discovery.searchFunc = func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		if atomic.AddInt32(&discoveryCalls, 1) == 1 {
			return nil, errors.New("transient places outage")
		}
		return []Venue{
			testVenue("low", ratingPtr(3.1)),
			testVenue("high", ratingPtr(4.8)),
			testVenue("mid", ratingPtr(4.0)),
		}, nil
	}

	matrix := &fakeMatrix{computeFunc: func(origins, destinations []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		// Legacy tier fetches per-venue travel from the first origin only
		assert.Len(t, origins, 1)
		assert.Len(t, destinations, 1)
		return matrixFromMinutes([][]int{{25}}), nil
	}}

	orch := newTestOrchestrator(workingRoutes(), discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"restaurant"}, 20)
	require.NoError(t, err)

	assert.Equal(t, TierLegacyFallback, result.TierUsed)
	require.Len(t, result.RankedVenues, 3)

	// Legacy ordering is by rating only
	assert.Equal(t, "high", result.RankedVenues[0].ID)
	assert.Equal(t, "mid", result.RankedVenues[1].ID)
	assert.Equal(t, "low", result.RankedVenues[2].ID)

	for _, rv := range result.RankedVenues {
		assert.Equal(t, "25 mins", rv.DurationText)
		assert.Equal(t, []int{25}, rv.TravelMinutesByOrigin)
	}
}

func TestOrchestrator_LegacyTravelFailureKeepsVenue(t *testing.T) {
	var discoveryCalls int32
	discovery := &fakeDiscovery{}
	discovery.searchFunc = func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		if atomic.AddInt32(&discoveryCalls, 1) == 1 {
			return nil, errors.New("transient places outage")
		}
		return []Venue{testVenue("v1", ratingPtr(4.0))}, nil
	}
	matrix := &fakeMatrix{computeFunc: func(_, _ []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		return nil, errors.New("matrix down")
	}}

	orch := newTestOrchestrator(workingRoutes(), discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"cafe"}, 20)
	require.NoError(t, err)

	assert.Equal(t, TierLegacyFallback, result.TierUsed)
	require.Len(t, result.RankedVenues, 1, "travel-info failure must not drop the venue")
	assert.Equal(t, UnknownText, result.RankedVenues[0].DistanceText)
	assert.Equal(t, UnknownText, result.RankedVenues[0].DurationText)
}

func TestOrchestrator_NoVenuesAnywhere(t *testing.T) {
	discovery := &fakeDiscovery{searchFunc: func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		return []Venue{}, nil
	}}
	matrix := &fakeMatrix{computeFunc: func(_, _ []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		t.Error("matrix must not be called without venues")
		return nil, nil
	}}

	orch := newTestOrchestrator(workingRoutes(), discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"restaurant"}, 20)
	require.NoError(t, err, "empty result is a valid terminal state, not an error")

	assert.Equal(t, TierArithmeticOnly, result.TierUsed)
	assert.NotNil(t, result.RankedVenues)
	assert.Empty(t, result.RankedVenues)

	// Midpoint still populated for "no results near this point" display
	assert.InDelta(t, (testOrigins[0].Latitude+testOrigins[1].Latitude)/2, result.Midpoint.Latitude, 1e-9)
}

func TestOrchestrator_TotalDiscoveryOutage(t *testing.T) {
	discovery := &fakeDiscovery{searchFunc: func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		return nil, errors.New("provider unreachable")
	}}
	matrix := &fakeMatrix{computeFunc: func(_, _ []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		return nil, errors.New("provider unreachable")
	}}
	routes := &fakeRouteClient{getFunc: func(_, _ geo.Point) (*Route, error) {
		return nil, errors.New("provider unreachable")
	}}

	// Even with every upstream down the caller gets a degraded result
	// around the arithmetic midpoint rather than an error.
	orch := newTestOrchestrator(routes, discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"restaurant"}, 20)
	require.NoError(t, err)
	assert.Equal(t, TierArithmeticOnly, result.TierUsed)
	assert.Empty(t, result.RankedVenues)
}

func TestOrchestrator_InvalidInput(t *testing.T) {
	discovery := &fakeDiscovery{searchFunc: func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		t.Error("no network activity expected for invalid input")
		return nil, nil
	}}
	matrix := &fakeMatrix{computeFunc: func(_, _ []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		return nil, nil
	}}
	routes := &fakeRouteClient{getFunc: func(_, _ geo.Point) (*Route, error) {
		t.Error("no network activity expected for invalid input")
		return nil, nil
	}}
	orch := newTestOrchestrator(routes, discovery, matrix)

	cases := []struct {
		name       string
		origins    []geo.Point
		categories []string
	}{
		{"single origin", testOrigins[:1], []string{"restaurant"}},
		{"no origins", nil, []string{"restaurant"}},
		{"no categories", testOrigins, nil},
		{"invalid coordinate", []geo.Point{{Latitude: 95, Longitude: 0}, testOrigins[1]}, []string{"cafe"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := orch.FindMeetingVenues(context.Background(), tc.origins, ModeDriving, tc.categories, 20)
			require.Error(t, err)
			assert.True(t, IsInvalidInput(err))
		})
	}
}

func TestOrchestrator_DefaultMaxResults(t *testing.T) {
	venues := make([]Venue, 30)
	for i := range venues {
		venues[i] = testVenue(string(rune('a'+i)), ratingPtr(4.0))
	}
	discovery := &fakeDiscovery{searchFunc: func(_ geo.Point, _ int, _ string) ([]Venue, error) {
		return venues, nil
	}}
	matrix := &fakeMatrix{computeFunc: func(origins, destinations []geo.Point, _ TravelMode) ([][]TravelInfo, error) {
		rows := make([][]int, len(origins))
		for oi := range origins {
			rows[oi] = make([]int, len(destinations))
			for di := range destinations {
				rows[oi][di] = 15
			}
		}
		return matrixFromMinutes(rows), nil
	}}

	orch := newTestOrchestrator(workingRoutes(), discovery, matrix)
	result, err := orch.FindMeetingVenues(context.Background(), testOrigins, ModeDriving, []string{"restaurant"}, 0)
	require.NoError(t, err)
	assert.Len(t, result.RankedVenues, DefaultMaxResults)
}
