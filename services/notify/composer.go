// Package notify composes and sends the templated announcement for a
// deposited artifact to the confidential distribution list.
package notify

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/jhillyerd/enmime"
	"github.com/pkg/errors"

	"github.com/poggig1971/telpress-rassegna-bot/config"
	"github.com/poggig1971/telpress-rassegna-bot/interfaces"
	"github.com/poggig1971/telpress-rassegna-bot/internal/locale"
	"github.com/poggig1971/telpress-rassegna-bot/internal/logger"
	"github.com/poggig1971/telpress-rassegna-bot/internal/models"
	"github.com/poggig1971/telpress-rassegna-bot/internal/utils"
)

const logoContentID = "logo"

const defaultTextTemplate = `Buongiorno,

è disponibile la rassegna stampa del {{.Date}}.
Può consultarla qui: {{.Link}}

Cordiali saluti`

const defaultHTMLTemplate = `<html><body>
{{if .HasLogo}}<img src="cid:logo" alt="logo"/><br/>{{end}}
<p>Buongiorno,</p>
<p>è disponibile la <b>rassegna stampa del {{.Date}}</b>.</p>
<p><a href="{{.Link}}">Apri la rassegna</a></p>
<p>Cordiali saluti</p>
</body></html>`

type templateData struct {
	Date    string
	Link    string
	HasLogo bool
}

type Composer struct {
	store   interfaces.FileStoreService
	mailer  interfaces.Mailer
	cfg     *config.NotifyConfig
	smtpCfg *config.SMTPConfig
	log     logger.Logger
}

func NewComposer(store interfaces.FileStoreService, mailer interfaces.Mailer, cfg *config.NotifyConfig, smtpCfg *config.SMTPConfig, log logger.Logger) *Composer {
	return &Composer{store: store, mailer: mailer, cfg: cfg, smtpCfg: smtpCfg, log: log}
}

// Notify announces a deposited artifact to the distribution list. An empty
// list is a deliberate no-op: there is nothing to notify.
func (c *Composer) Notify(ctx context.Context, record *models.DepositRecord, day time.Time) error {
	recipients, err := LoadRecipients(c.cfg.RecipientsFile)
	if err != nil {
		return errors.Wrap(err, "failed to load recipient list")
	}
	if len(recipients) == 0 {
		c.log.Infof("recipient list is empty, nothing to notify")
		return nil
	}

	job, err := c.Compose(recipients, record, day)
	if err != nil {
		return err
	}

	message, envelope, err := c.buildMessage(job)
	if err != nil {
		return err
	}

	c.log.Infof("sending notification for %s to %d recipients", record.Name, len(recipients))
	return c.mailer.Send(ctx, c.smtpCfg.Username, envelope, message)
}

// Compose interpolates the templates into a notification job. The logo is
// optional: an unreadable resource degrades to a logo-less message.
func (c *Composer) Compose(recipients []string, record *models.DepositRecord, day time.Time) (*models.NotificationJob, error) {
	var logo []byte
	var logoName string
	if c.cfg.LogoPath != "" {
		data, err := readLogo(c.cfg.LogoPath)
		if err != nil {
			c.log.Warnf("logo %s not usable, sending without: %v", c.cfg.LogoPath, err)
		} else {
			logo = data
			logoName = filepath.Base(c.cfg.LogoPath)
		}
	}

	data := templateData{
		Date:    locale.DatePhrase(day),
		Link:    c.store.ViewURL(record.ID),
		HasLogo: len(logo) > 0,
	}

	bodyText, err := renderText(c.templateText(), data)
	if err != nil {
		return nil, errors.Wrap(err, "text template failed")
	}
	bodyHTML, err := renderHTML(c.templateHTML(), data)
	if err != nil {
		return nil, errors.Wrap(err, "html template failed")
	}

	return &models.NotificationJob{
		BccRecipients:  recipients,
		Subject:        c.cfg.SubjectPrefix + " " + locale.SubjectDatePhrase(day),
		BodyText:       bodyText,
		BodyHTML:       bodyHTML,
		InlineLogo:     logo,
		InlineLogoName: logoName,
		ArtifactID:     record.ID,
		ArtifactName:   record.Name,
	}, nil
}

// buildMessage encodes the job as a multi-part MIME message. Recipients go
// on the blind header only; the visible To is the sender itself.
func (c *Composer) buildMessage(job *models.NotificationJob) ([]byte, []string, error) {
	from := c.smtpCfg.Username
	builder := enmime.Builder().
		From(c.smtpCfg.SenderName, from).
		To(c.smtpCfg.SenderName, from).
		Subject(job.Subject).
		Text([]byte(job.BodyText)).
		HTML([]byte(job.BodyHTML)).
		Header("Message-Id", utils.GenerateMessageID(addressDomain(from)))

	for _, recipient := range job.BccRecipients {
		builder = builder.BCC("", recipient)
	}

	if len(job.InlineLogo) > 0 {
		contentType := http.DetectContentType(job.InlineLogo)
		builder = builder.AddInline(job.InlineLogo, contentType, job.InlineLogoName, logoContentID)
	}

	part, err := builder.Build()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build notification message")
	}

	var buf bytes.Buffer
	if err := part.Encode(&buf); err != nil {
		return nil, nil, errors.Wrap(err, "failed to encode notification message")
	}

	envelope := append([]string{from}, job.BccRecipients...)
	return buf.Bytes(), envelope, nil
}

func (c *Composer) templateText() string {
	if c.cfg.TextTemplate != "" {
		return c.cfg.TextTemplate
	}
	return defaultTextTemplate
}

func (c *Composer) templateHTML() string {
	if c.cfg.HTMLTemplate != "" {
		return c.cfg.HTMLTemplate
	}
	return defaultHTMLTemplate
}

func renderText(tmpl string, data templateData) (string, error) {
	t, err := texttemplate.New("text").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderHTML(tmpl string, data templateData) (string, error) {
	t, err := htmltemplate.New("html").Parse(tmpl)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func readLogo(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty logo file")
	}
	return data, nil
}

func addressDomain(addr string) string {
	if i := strings.LastIndex(addr, "@"); i >= 0 {
		return addr[i+1:]
	}
	return addr
}
