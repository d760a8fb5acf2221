package config

import (
	"time"

	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
)

type AppConfig struct {
	Timezone    string `env:"TIMEZONE" envDefault:"Europe/Rome"`
	WindowStart string `env:"RUN_WINDOW_START" envDefault:"08:00"`
	WindowEnd   string `env:"RUN_WINDOW_END" envDefault:"12:59"`
}

type MailboxConfig struct {
	SenderFilter    string `env:"SENDER_FILTER" envDefault:"rassegnastampa@telpress.it"`
	SubjectPrefix   string `env:"SUBJECT_PREFIX" envDefault:"Rassegna STAMPA"`
	GoogleTokenJSON string `env:"GOOGLE_TOKEN_JSON"`
	TokenFile       string `env:"GOOGLE_TOKEN_FILE" envDefault:"token_google.json"`
	MaxSearchHits   int64  `env:"MAILBOX_MAX_SEARCH_HITS" envDefault:"10"`
}

type StoreConfig struct {
	FolderID           string `env:"DRIVE_FOLDER_ID"`
	ServiceAccountFile string `env:"SERVICE_ACCOUNT_FILE" envDefault:"service_account.json"`
	Domain             string `env:"STORE_DOMAIN" envDefault:"drive.google.com"`
}

type SMTPConfig struct {
	Host       string        `env:"SMTP_HOST"`
	Port       int           `env:"SMTP_PORT" envDefault:"465"`
	Username   string        `env:"SMTP_USER"`
	Password   string        `env:"SMTP_PASS"`
	SenderName string        `env:"SMTP_SENDER_NAME" envDefault:"ANCE Piemonte"`
	Security   string        `env:"SMTP_SECURITY" envDefault:"ssl"`
	Timeout    time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}

type NotifyConfig struct {
	RecipientsFile string `env:"NOTIFY_BCC_FILE" envDefault:"notify_bcc.txt"`
	SubjectPrefix  string `env:"NOTIFY_SUBJECT_PREFIX" envDefault:"Rassegna Stampa ANCE Piemonte"`
	TextTemplate   string `env:"NOTIFY_TEXT_TEMPLATE"`
	HTMLTemplate   string `env:"NOTIFY_HTML_TEMPLATE"`
	LogoPath       string `env:"NOTIFY_LOGO_PATH"`
}

type BatchConfig struct {
	RecipientsFile string        `env:"NOTIFY_BCC_FILE" envDefault:"notify_bcc.txt"`
	Subject        string        `env:"EMAIL_SUBJECT" envDefault:"Rassegna Stampa ANCE Piemonte"`
	Body           string        `env:"EMAIL_BODY" envDefault:"In allegato la rassegna stampa odierna."`
	AttachmentPath string        `env:"ATTACHMENT_PATH" envDefault:"rassegna.pdf"`
	AttachmentDir  string        `env:"ATTACHMENT_DIR"`
	BatchSize      int           `env:"BATCH_SIZE" envDefault:"10"`
	BatchDelay     time.Duration `env:"BATCH_DELAY" envDefault:"5s"`
}

type RetryConfig struct {
	MaxAttempts int           `env:"RETRY_MAX_ATTEMPTS" envDefault:"5"`
	BaseDelay   time.Duration `env:"RETRY_BASE_DELAY" envDefault:"1s"`
	MaxDelay    time.Duration `env:"RETRY_MAX_DELAY" envDefault:"30s"`
}

type Config struct {
	App     *AppConfig
	Mailbox *MailboxConfig
	Store   *StoreConfig
	SMTP    *SMTPConfig
	Notify  *NotifyConfig
	Batch   *BatchConfig
	Retry   *RetryConfig
	Logger  *logger.Config
}

// Location resolves the configured time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// WithinWindow reports whether t falls inside the configured daily interval,
// bounds inclusive. The window is evaluated against t's own location.
func (c *AppConfig) WithinWindow(t time.Time) (bool, error) {
	start, err := time.Parse("15:04", c.WindowStart)
	if err != nil {
		return false, err
	}
	end, err := time.Parse("15:04", c.WindowEnd)
	if err != nil {
		return false, err
	}
	minute := t.Hour()*60 + t.Minute()
	return minute >= start.Hour()*60+start.Minute() && minute <= end.Hour()*60+end.Minute(), nil
}
