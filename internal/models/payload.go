package models

type PayloadOrigin string

const (
	PayloadFromLink       PayloadOrigin = "from-link"
	PayloadFromAttachment PayloadOrigin = "from-attachment"
)

// PdfPayload is the raw PDF pulled out of a located message. It lives only
// until the deposit manager consumes it.
type PdfPayload struct {
	Content []byte
	Origin  PayloadOrigin
	// SuggestedName is the attachment filename, set only for the
	// attachment origin.
	SuggestedName string
}
