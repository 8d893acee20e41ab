package config

import (
	"time"
)

// Config represents the complete server configuration
type Config struct {
	Meeting MeetingConfig `yaml:"meeting"`
}

// MeetingConfig holds the venue search configuration
type MeetingConfig struct {
	GoogleMaps        GoogleMapsConfig `yaml:"google_maps"`
	SearchRadiusMeters int             `yaml:"search_radius_meters"`
	MaxResults         int             `yaml:"max_results"`
	MatrixBatchSize    int             `yaml:"matrix_batch_size"`
	DefaultCategories  []string        `yaml:"default_categories"`
}

// GoogleMapsConfig holds Google Maps platform API settings
type GoogleMapsConfig struct {
	APIKey            string        `yaml:"api_key"`
	DirectionsTTL     time.Duration `yaml:"directions_ttl"`
	PlacesTTL         time.Duration `yaml:"places_ttl"`
	DistanceMatrixTTL time.Duration `yaml:"distance_matrix_ttl"`
	GeocodeTTL        time.Duration `yaml:"geocode_ttl"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Meeting: MeetingConfig{
			GoogleMaps: GoogleMapsConfig{
				DirectionsTTL:     30 * time.Minute,
				PlacesTTL:         10 * time.Minute,
				DistanceMatrixTTL: 5 * time.Minute,
				GeocodeTTL:        24 * time.Hour, // Addresses rarely move
			},
			SearchRadiusMeters: 1500,
			MaxResults:         20,
			MatrixBatchSize:    25,
			DefaultCategories:  []string{"restaurant", "cafe", "bar"},
		},
	}
}

// ApplyDefaults fills in zero-valued fields so partial config files and
// env overrides still produce a usable setup.
func (m *MeetingConfig) ApplyDefaults() {
	defaults := DefaultConfig().Meeting
	if m.SearchRadiusMeters <= 0 {
		m.SearchRadiusMeters = defaults.SearchRadiusMeters
	}
	if m.MaxResults <= 0 {
		m.MaxResults = defaults.MaxResults
	}
	if m.MatrixBatchSize <= 0 {
		m.MatrixBatchSize = defaults.MatrixBatchSize
	}
	if len(m.DefaultCategories) == 0 {
		m.DefaultCategories = defaults.DefaultCategories
	}
	if m.GoogleMaps.DirectionsTTL <= 0 {
		m.GoogleMaps.DirectionsTTL = defaults.GoogleMaps.DirectionsTTL
	}
	if m.GoogleMaps.PlacesTTL <= 0 {
		m.GoogleMaps.PlacesTTL = defaults.GoogleMaps.PlacesTTL
	}
	if m.GoogleMaps.DistanceMatrixTTL <= 0 {
		m.GoogleMaps.DistanceMatrixTTL = defaults.GoogleMaps.DistanceMatrixTTL
	}
	if m.GoogleMaps.GeocodeTTL <= 0 {
		m.GoogleMaps.GeocodeTTL = defaults.GoogleMaps.GeocodeTTL
	}
}
