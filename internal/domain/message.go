// Package domain contains entity without logic, just meta-data
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageID string

// Message is one utterance in a room's timeline. Immutable once created.
type Message struct {
	ID         MessageID `json:"id"`
	Speaker    string    `json:"speaker"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"timestamp"`
	TokenCount int       `json:"tokenCount"`
	// AudioRef holds base64-encoded synthesized speech, empty when no audio
	// was generated for this message.
	AudioRef string `json:"audioUrl,omitempty"`
}

// NewMessage avoids raw literals in the pipeline and keeps construction obvious.
func NewMessage(speaker, text string, tokens int, at time.Time) Message {
	return Message{
		ID:         MessageID(uuid.NewString()),
		Speaker:    speaker,
		Text:       text,
		CreatedAt:  at,
		TokenCount: tokens,
	}
}
