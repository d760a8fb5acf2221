package notify

import (
	"os"
	"strings"
)

// LoadRecipients reads the maintained distribution list: one address or
// comma/semicolon-separated group per line, #-prefixed lines and blanks
// ignored. Duplicates are removed case-insensitively, first occurrence wins.
func LoadRecipients(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecipients(string(data)), nil
}

func ParseRecipients(content string) []string {
	seen := make(map[string]struct{})
	var recipients []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, field := range strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';'
		}) {
			addr := strings.TrimSpace(field)
			if !strings.Contains(addr, "@") {
				continue
			}
			key := strings.ToLower(addr)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			recipients = append(recipients, addr)
		}
	}
	return recipients
}
