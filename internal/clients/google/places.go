package google

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/meeting"
)

const photoMaxWidth = 400

// SearchNearby finds venues of one category around a coordinate using
// the Places Nearby Search API. Zero results is a valid empty answer,
// not an error.
func (c *Client) SearchNearby(ctx context.Context, center geo.Point, radiusMeters int, category string) ([]meeting.Venue, error) {
	params := url.Values{}
	params.Set("location", formatPoint(center))
	params.Set("radius", strconv.Itoa(radiusMeters))
	params.Set("type", category)

	var response placesResponse
	if err := c.getJSON(ctx, "place/nearbysearch", params, c.ttls.Places, &response); err != nil {
		return nil, err
	}

	switch response.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []meeting.Venue{}, nil
	default:
		return nil, statusError("place/nearbysearch", response.Status, response.ErrorMessage)
	}

	venues := make([]meeting.Venue, 0, len(response.Results))
	for _, result := range response.Results {
		venue := meeting.Venue{
			ID:           result.PlaceID,
			Name:         result.Name,
			Location:     geo.Point{Latitude: result.Geometry.Location.Lat, Longitude: result.Geometry.Location.Lng},
			Rating:       result.Rating,
			TotalRatings: result.UserRatingsTotal,
			PriceLevel:   result.PriceLevel,
			Types:        result.Types,
		}
		if result.Vicinity != nil {
			venue.Address = *result.Vicinity
		}
		if len(result.Photos) > 0 {
			venue.PhotoURL = c.photoURL(result.Photos[0].PhotoReference)
		}
		venues = append(venues, venue)
	}
	return venues, nil
}

// photoURL expands a photo reference into a fetchable Place Photo URL
func (c *Client) photoURL(photoRef string) string {
	if photoRef == "" {
		return ""
	}
	params := url.Values{}
	params.Set("maxwidth", strconv.Itoa(photoMaxWidth))
	params.Set("photoreference", photoRef)
	params.Set("key", c.apiKey)
	return fmt.Sprintf("%s/place/photo?%s", c.baseURL, params.Encode())
}

// Places Nearby Search response structures

type placesResponse struct {
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Results      []placeResult `json:"results"`
}

type placeResult struct {
	PlaceID          string         `json:"place_id"`
	Name             string         `json:"name"`
	Geometry         placeGeometry  `json:"geometry"`
	Rating           *float64       `json:"rating,omitempty"`
	UserRatingsTotal int            `json:"user_ratings_total"`
	PriceLevel       int            `json:"price_level"`
	Types            []string       `json:"types"`
	Vicinity         *string        `json:"vicinity,omitempty"`
	Photos           []placePhoto   `json:"photos,omitempty"`
	OpeningHours     *placeOpenInfo `json:"opening_hours,omitempty"`
}

type placeGeometry struct {
	Location latLng `json:"location"`
}

type placePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

type placeOpenInfo struct {
	OpenNow bool `json:"open_now"`
}
