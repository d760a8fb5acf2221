package models

import (
	"iter"
	"time"
)

// SourceMessage is a fully fetched mailbox message. It is immutable once
// built; the locator and extractor only read from it during a run.
type SourceMessage struct {
	ID           string
	InternalDate time.Time
	Subject      string
	Payload      *MessagePart
}

// MessagePart is one node of the MIME part tree. Leaf parts carry either
// inline decoded data or an attachment id to be fetched separately.
type MessagePart struct {
	MimeType     string
	Filename     string
	AttachmentID string
	Data         []byte
	Parts        []*MessagePart
}

// Parts returns a depth-first sequence over the leaf parts of the message.
// The sequence is finite and restartable; callers short-circuit by breaking
// out of the range loop.
func (m *SourceMessage) Parts() iter.Seq[*MessagePart] {
	return func(yield func(*MessagePart) bool) {
		if m.Payload == nil {
			return
		}
		stack := []*MessagePart{m.Payload}
		for len(stack) > 0 {
			part := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(part.Parts) > 0 {
				stack = append(stack, part.Parts...)
				continue
			}
			if !yield(part) {
				return
			}
		}
	}
}

// HTMLBody returns the decoded body of the first text/html leaf part, or
// empty when the message carries none.
func (m *SourceMessage) HTMLBody() string {
	for part := range m.Parts() {
		if part.MimeType == "text/html" && len(part.Data) > 0 {
			return string(part.Data)
		}
	}
	return ""
}
