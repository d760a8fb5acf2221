package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactName(t *testing.T) {
	day := time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025.09.08.pdf", ArtifactName(day))

	// Deterministic regardless of the time-of-day component.
	later := time.Date(2025, time.September, 8, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, ArtifactName(day), ArtifactName(later))
}

func TestArtifactNameRoundTrip(t *testing.T) {
	for _, day := range []time.Time{
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	} {
		parsed, err := ParseArtifactName(ArtifactName(day))
		require.NoError(t, err)
		assert.True(t, parsed.Equal(day))
	}
}

func TestParseArtifactNameRejectsMalformed(t *testing.T) {
	for _, name := range []string{
		"",
		"2025.09.08",
		"rassegna.pdf",
		"2025-09-08.pdf",
		"2025.13.01.pdf",
	} {
		_, err := ParseArtifactName(name)
		assert.Error(t, err, "name %q", name)
	}
}
