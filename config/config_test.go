package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinWindowBounds(t *testing.T) {
	cfg := &AppConfig{
		Timezone:    "Europe/Rome",
		WindowStart: "08:00",
		WindowEnd:   "12:59",
	}
	loc, err := cfg.Location()
	require.NoError(t, err)

	tests := []struct {
		clock string
		want  bool
	}{
		{"07:59", false},
		{"08:00", true},
		{"10:30", true},
		{"12:59", true},
		{"13:00", false},
		{"00:00", false},
		{"23:59", false},
	}
	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			parsed, err := time.Parse("15:04", tt.clock)
			require.NoError(t, err)
			at := time.Date(2025, time.September, 8, parsed.Hour(), parsed.Minute(), 0, 0, loc)
			within, err := cfg.WithinWindow(at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, within)
		})
	}
}

func TestWithinWindowRejectsMalformedBounds(t *testing.T) {
	cfg := &AppConfig{WindowStart: "otto", WindowEnd: "12:59"}
	_, err := cfg.WithinWindow(time.Now())
	assert.Error(t, err)
}

func TestLocationRejectsUnknownTimezone(t *testing.T) {
	cfg := &AppConfig{Timezone: "Marte/Olympus"}
	_, err := cfg.Location()
	assert.Error(t, err)
}
