package google

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/meeting"
)

// MaxMatrixDestinations is the Distance Matrix request-size limit the
// upstream enforces per call.
const MaxMatrixDestinations = 25

// Compute fetches a travel time/distance matrix from every origin to
// every destination. The result is indexed [origin][destination]; cells
// the upstream could not resolve carry the unavailable sentinel rather
// than failing the whole call.
func (c *Client) Compute(ctx context.Context, origins, destinations []geo.Point, mode meeting.TravelMode) ([][]meeting.TravelInfo, error) {
	if len(origins) == 0 || len(destinations) == 0 {
		return nil, fmt.Errorf("distancematrix: origins and destinations must be non-empty: %w", ErrInvalidRequest)
	}
	if len(destinations) > MaxMatrixDestinations {
		return nil, fmt.Errorf("distancematrix: %d destinations exceeds limit of %d: %w",
			len(destinations), MaxMatrixDestinations, ErrInvalidRequest)
	}

	params := url.Values{}
	params.Set("origins", joinPoints(origins))
	params.Set("destinations", joinPoints(destinations))
	params.Set("mode", string(mode))

	var response matrixResponse
	if err := c.getJSON(ctx, "distancematrix", params, c.ttls.DistanceMatrix, &response); err != nil {
		return nil, err
	}

	if response.Status != "OK" {
		return nil, statusError("distancematrix", response.Status, response.ErrorMessage)
	}
	if len(response.Rows) != len(origins) {
		return nil, &TransportError{
			Endpoint: "distancematrix",
			Err:      fmt.Errorf("expected %d rows, got %d", len(origins), len(response.Rows)),
		}
	}

	matrix := make([][]meeting.TravelInfo, len(origins))
	for oi, row := range response.Rows {
		matrix[oi] = make([]meeting.TravelInfo, len(destinations))
		for di := range destinations {
			if di >= len(row.Elements) {
				matrix[oi][di] = meeting.UnknownTravelInfo()
				continue
			}
			matrix[oi][di] = elementToTravelInfo(row.Elements[di])
		}
	}
	return matrix, nil
}

// elementToTravelInfo converts one matrix cell; any per-element failure
// (no route, not found) becomes the unavailable sentinel.
func elementToTravelInfo(el matrixElement) meeting.TravelInfo {
	if el.Status != "OK" {
		return meeting.UnknownTravelInfo()
	}
	return meeting.TravelInfo{
		DurationMinutes: el.Duration.Value / 60,
		DistanceText:    el.Distance.Text,
		DurationText:    el.Duration.Text,
	}
}

func joinPoints(points []geo.Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = formatPoint(p)
	}
	return strings.Join(parts, "|")
}

// Distance Matrix response structures

type matrixResponse struct {
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
	Rows         []matrixRow `json:"rows"`
}

type matrixRow struct {
	Elements []matrixElement `json:"elements"`
}

type matrixElement struct {
	Status   string    `json:"status"`
	Duration valueText `json:"duration"`
	Distance valueText `json:"distance"`
}
