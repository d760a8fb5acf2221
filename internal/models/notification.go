package models

// NotificationJob is a fully composed announcement, built and consumed
// within a single run. Recipients go on the blind header only.
type NotificationJob struct {
	BccRecipients []string
	Subject       string
	BodyText      string
	BodyHTML      string
	// InlineLogo is embedded as a content-addressed image in the HTML
	// body when present.
	InlineLogo     []byte
	InlineLogoName string
	ArtifactID     string
	ArtifactName   string
}
