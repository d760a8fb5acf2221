package notify

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			"one address per line",
			"a@example.it\nb@example.it\n",
			[]string{"a@example.it", "b@example.it"},
		},
		{
			"comma and semicolon groups",
			"a@example.it, b@example.it; c@example.it",
			[]string{"a@example.it", "b@example.it", "c@example.it"},
		},
		{
			"blanks and comments skipped",
			"# direzione\n\na@example.it\n  # tecnici\nb@example.it",
			[]string{"a@example.it", "b@example.it"},
		},
		{
			"case-insensitive dedup keeps first",
			"Rossi@example.it\nrossi@example.it\nROSSI@example.it",
			[]string{"Rossi@example.it"},
		},
		{
			"entries without @ dropped",
			"a@example.it\nsegreteria\nb@example.it",
			[]string{"a@example.it", "b@example.it"},
		},
		{
			"whitespace trimmed",
			"  a@example.it \t\n",
			[]string{"a@example.it"},
		},
		{
			"empty content",
			"",
			nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecipients(tt.content))
		})
	}
}

func TestLoadRecipients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bcc.txt")
	require.NoError(t, os.WriteFile(path, []byte("a@example.it\nb@example.it\n"), 0o600))

	recipients, err := LoadRecipients(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.it", "b@example.it"}, recipients)
}

func TestLoadRecipientsMissingFile(t *testing.T) {
	_, err := LoadRecipients(filepath.Join(t.TempDir(), "assente.txt"))
	assert.Error(t, err)
}
