package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/dpup/prefab"

	"github.com/roshangthomas/MeetHalfway-sub000/internal/cache"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/clients/google"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/config"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/lib/meeting"
	"github.com/roshangthomas/MeetHalfway-sub000/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	if appConfig.Meeting.GoogleMaps.APIKey == "" {
		log.Fatal("Google Maps API key is required in configuration")
	}

	// Response cache shared by all Google Maps endpoints
	responseCache := cache.New()
	responseCache.StartPeriodicCleanup(context.Background(), 10*time.Minute)

	googleClient := google.NewClient(appConfig.Meeting.GoogleMaps.APIKey, responseCache, google.TTLs{
		Directions:     appConfig.Meeting.GoogleMaps.DirectionsTTL,
		Places:         appConfig.Meeting.GoogleMaps.PlacesTTL,
		DistanceMatrix: appConfig.Meeting.GoogleMaps.DistanceMatrixTTL,
		Geocode:        appConfig.Meeting.GoogleMaps.GeocodeTTL,
	})

	// Wire the search engine: midpoint resolution, venue optimization,
	// and the degradation chain around them.
	resolver := meeting.NewMidpointResolver(googleClient)
	optimizer := meeting.NewOptimizerWithLimits(
		googleClient, googleClient,
		appConfig.Meeting.SearchRadiusMeters,
		appConfig.Meeting.MatrixBatchSize,
	)
	orchestrator := meeting.NewOrchestrator(resolver, optimizer, googleClient, googleClient)

	meetingService := services.NewMeetingService(orchestrator, googleClient, &appConfig.Meeting)

	log.Printf("Meeting venue API server starting")
	log.Printf("Search radius: %dm, max results: %d, default categories: %v",
		appConfig.Meeting.SearchRadiusMeters, appConfig.Meeting.MaxResults, appConfig.Meeting.DefaultCategories)

	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/api/v1/meeting-venues", meetingService.HandleFindVenues),
		prefab.WithHTTPHandlerFunc("/api/v1/geocode", meetingService.HandleGeocode),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := &config.Config{}

	if err := prefab.Config.Unmarshal("meeting", &appConfig.Meeting); err != nil {
		log.Fatalf("Failed to unmarshal meeting section: %v", err)
	}
	appConfig.Meeting.ApplyDefaults()

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>MeetHalfway</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">MeetHalfway</span>

API server that finds fair meeting venues between two or more starting
points, balancing travel-time fairness against venue quality.

<span class="header">API Endpoints:</span>

  POST /api/v1/meeting-venues   - Find ranked venues near the road midpoint
  <a href="/api/v1/geocode?address=San+Francisco">GET  /api/v1/geocode</a>          - Resolve an address to coordinates

<span class="header">Example Usage:</span>
  curl -X POST /api/v1/meeting-venues \
    -d '{"origins": [{"lat": 37.77, "lng": -122.42}, {"lat": 34.05, "lng": -118.24}], "categories": ["cafe"]}'

<span class="header">Data Sources:</span>
  • Google Directions API       - Road geometry for midpoint resolution
  • Google Places API           - Venue discovery
  • Google Distance Matrix API  - Per-origin travel times
</pre>
</body>
</html>`

	if _, err := w.Write([]byte(html)); err != nil {
		log.Printf("Failed to write homepage: %v", err)
	}
}
