package models

import (
	"fmt"
	"time"
)

const artifactNameLayout = "2006.01.02"

// ArtifactName derives the daily artifact name from the run's effective
// date. The YYYY.MM.DD.pdf format is the system's idempotency key and never
// varies.
func ArtifactName(day time.Time) string {
	return day.Format(artifactNameLayout) + ".pdf"
}

// ParseArtifactName recovers the effective date from an artifact name.
func ParseArtifactName(name string) (time.Time, error) {
	var y, m, d int
	if _, err := fmt.Sscanf(name, "%4d.%2d.%2d.pdf", &y, &m, &d); err != nil {
		return time.Time{}, fmt.Errorf("malformed artifact name %q: %w", name, err)
	}
	day := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if ArtifactName(day) != name {
		return time.Time{}, fmt.Errorf("malformed artifact name %q", name)
	}
	return day, nil
}

// DepositRecord is the store-side identity of a deposited artifact. It is
// whatever the store reports, queried fresh on every run.
type DepositRecord struct {
	ID   string
	Name string
}
