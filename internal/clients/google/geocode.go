package google

import (
	"context"
	"fmt"
	"net/url"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
)

// GeocodeResult is a resolved address
type GeocodeResult struct {
	Location         geo.Point `json:"location"`
	FormattedAddress string    `json:"formatted_address"`
}

// Geocode resolves a free-form address to a coordinate using the
// Geocoding API. The first (best) match wins.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	if address == "" {
		return nil, fmt.Errorf("geocode: empty address: %w", ErrInvalidRequest)
	}

	params := url.Values{}
	params.Set("address", address)

	var response geocodeResponse
	if err := c.getJSON(ctx, "geocode", params, c.ttls.Geocode, &response); err != nil {
		return nil, err
	}

	switch response.Status {
	case "OK":
	case "ZERO_RESULTS":
		return nil, fmt.Errorf("geocode %q: %w", address, ErrAddressNotFound)
	default:
		return nil, statusError("geocode", response.Status, response.ErrorMessage)
	}
	if len(response.Results) == 0 {
		return nil, fmt.Errorf("geocode %q: %w", address, ErrAddressNotFound)
	}

	best := response.Results[0]
	return &GeocodeResult{
		Location: geo.Point{
			Latitude:  best.Geometry.Location.Lat,
			Longitude: best.Geometry.Location.Lng,
		},
		FormattedAddress: best.FormattedAddress,
	}, nil
}

// Geocoding API response structures

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string        `json:"formatted_address"`
	Geometry         placeGeometry `json:"geometry"`
}
