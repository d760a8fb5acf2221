// Package locale formats and parses the Italian date phrases used in the
// press-review subject convention.
package locale

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var monthNames = [13]string{
	"",
	"gennaio", "febbraio", "marzo", "aprile",
	"maggio", "giugno", "luglio", "agosto",
	"settembre", "ottobre", "novembre", "dicembre",
}

var monthNumbers = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := 1; i <= 12; i++ {
		m[monthNames[i]] = time.Month(i)
	}
	return m
}()

// subjectDateRe matches the "del 26 agosto 2025" phrase in a subject line.
var subjectDateRe = regexp.MustCompile(`(?i)del\s+(\d{1,2})\s+([a-zàèéìòù]+)\s+(\d{4})`)

// DatePhrase renders a date in the "day month-name year" form, e.g.
// "26 agosto 2025".
func DatePhrase(day time.Time) string {
	return fmt.Sprintf("%d %s %d", day.Day(), monthNames[day.Month()], day.Year())
}

// SubjectDatePhrase renders the phrase as it appears in subjects,
// e.g. "del 26 agosto 2025".
func SubjectDatePhrase(day time.Time) string {
	return "del " + DatePhrase(day)
}

// ParseSubjectDate extracts the date carried in a subject line's phrase.
// Reports false when the subject holds no recognizable phrase.
func ParseSubjectDate(subject string) (time.Time, bool) {
	m := subjectDateRe.FindStringSubmatch(subject)
	if m == nil {
		return time.Time{}, false
	}
	d, _ := strconv.Atoi(m[1])
	month, ok := monthNumbers[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}
	y, _ := strconv.Atoi(m[3])
	if d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, month, d, 0, 0, 0, 0, time.UTC), true
}
