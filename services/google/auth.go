// Package google holds the credential boundary for the Gmail and Drive
// clients. Token acquisition and refresh happen here and nowhere else.
package google

import (
	"context"
	"os"

	"golang.org/x/oauth2"
	oauth2google "golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	rassegna_errors "github.com/poggig1971/telpress-rassegna-bot/errors"
)

// MailboxTokenSource resolves the user OAuth credential for the mailbox,
// read-only scope. In CI the token arrives via GOOGLE_TOKEN_JSON; locally it
// is read from the token file.
func MailboxTokenSource(ctx context.Context, cfg *config.MailboxConfig) (oauth2.TokenSource, error) {
	raw := []byte(cfg.GoogleTokenJSON)
	if len(raw) == 0 {
		data, err := os.ReadFile(cfg.TokenFile)
		if err != nil {
			return nil, rassegna_errors.ErrMissingCredentials
		}
		raw = data
	}

	creds, err := oauth2google.CredentialsFromJSON(ctx, raw, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, err
	}
	return creds.TokenSource, nil
}

// MailboxOptions builds the client options for the Gmail service.
func MailboxOptions(ctx context.Context, cfg *config.MailboxConfig) ([]option.ClientOption, error) {
	ts, err := MailboxTokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return []option.ClientOption{option.WithTokenSource(ts)}, nil
}

// StoreOptions builds the client options for the Drive service. The store
// is owned by a service account, not the mailbox user.
func StoreOptions(cfg *config.StoreConfig) []option.ClientOption {
	return []option.ClientOption{
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(drive.DriveFileScope),
	}
}
