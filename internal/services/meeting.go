package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/clients/google"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/config"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/geo"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/meeting"
)

// VenueFinder is the search engine surface the HTTP layer depends on
type VenueFinder interface {
	FindMeetingVenues(ctx context.Context, origins []geo.Point, mode meeting.TravelMode, categories []string, maxResults int) (*meeting.MeetingResult, error)
}

// Geocoder resolves a free-text address to a coordinate
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*google.GeocodeResult, error)
}

// MeetingService exposes the venue search over JSON HTTP
type MeetingService struct {
	finder   VenueFinder
	geocoder Geocoder
	config   *config.MeetingConfig
}

// NewMeetingService creates a new MeetingService
func NewMeetingService(finder VenueFinder, geocoder Geocoder, config *config.MeetingConfig) *MeetingService {
	return &MeetingService{
		finder:   finder,
		geocoder: geocoder,
		config:   config,
	}
}

// FindVenuesRequest is the POST /api/v1/meeting-venues request body
type FindVenuesRequest struct {
	Origins    []geo.Point `json:"origins"`
	Mode       string      `json:"mode,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	MaxResults int         `json:"max_results,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleFindVenues handles POST /api/v1/meeting-venues
func (s *MeetingService) HandleFindVenues(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req FindVenuesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	mode, err := parseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	categories := req.Categories
	if len(categories) == 0 {
		categories = s.config.DefaultCategories
	}
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = s.config.MaxResults
	}

	log.Printf("FindMeetingVenues called: %d origins, mode=%s, categories=%v", len(req.Origins), mode, categories)

	result, err := s.finder.FindMeetingVenues(r.Context(), req.Origins, mode, categories, maxResults)
	if err != nil {
		if meeting.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("FindMeetingVenues failed: %v", err)
		writeError(w, http.StatusInternalServerError, "venue search failed")
		return
	}

	log.Printf("FindMeetingVenues: %d venues via %s", len(result.RankedVenues), result.TierUsed)
	writeJSON(w, http.StatusOK, result)
}

// GeocodeResponse is the GET /api/v1/geocode response body
type GeocodeResponse struct {
	Address  string    `json:"address"`
	Location geo.Point `json:"location"`
}

// HandleGeocode handles GET /api/v1/geocode?address=...
func (s *MeetingService) HandleGeocode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address parameter is required")
		return
	}

	result, err := s.geocoder.Geocode(r.Context(), address)
	if err != nil {
		switch {
		case errors.Is(err, google.ErrAddressNotFound):
			writeError(w, http.StatusNotFound, "address not found: "+strconv.Quote(address))
		case errors.Is(err, google.ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("Geocode failed for %q: %v", address, err)
			writeError(w, http.StatusInternalServerError, "geocoding failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, GeocodeResponse{
		Address:  result.FormattedAddress,
		Location: result.Location,
	})
}

func parseMode(raw string) (meeting.TravelMode, error) {
	if raw == "" {
		return meeting.ModeDriving, nil
	}
	switch mode := meeting.TravelMode(raw); mode {
	case meeting.ModeDriving, meeting.ModeWalking, meeting.ModeBicycling, meeting.ModeTransit:
		return mode, nil
	default:
		return "", errors.New("unsupported travel mode: " + raw)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
