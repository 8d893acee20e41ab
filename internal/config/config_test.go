package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1500, cfg.Meeting.SearchRadiusMeters)
	assert.Equal(t, 20, cfg.Meeting.MaxResults)
	assert.Equal(t, 25, cfg.Meeting.MatrixBatchSize)
	assert.NotEmpty(t, cfg.Meeting.DefaultCategories)
	assert.Equal(t, 24*time.Hour, cfg.Meeting.GoogleMaps.GeocodeTTL)
	assert.Empty(t, cfg.Meeting.GoogleMaps.APIKey, "no baked-in credentials")
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	m := MeetingConfig{
		GoogleMaps: GoogleMapsConfig{APIKey: "configured-key"},
		MaxResults: 5,
	}
	m.ApplyDefaults()

	assert.Equal(t, "configured-key", m.GoogleMaps.APIKey)
	assert.Equal(t, 5, m.MaxResults, "explicit values survive")
	assert.Equal(t, 1500, m.SearchRadiusMeters)
	assert.Equal(t, 25, m.MatrixBatchSize)
	assert.Equal(t, 30*time.Minute, m.GoogleMaps.DirectionsTTL)
	assert.Equal(t, []string{"restaurant", "cafe", "bar"}, m.DefaultCategories)
}
