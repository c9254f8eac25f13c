// Package generate turns room state into one new message: prompt assembly,
// the text-generation call with retries, best-effort speech synthesis and
// deterministic token accounting.
package generate

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/murmurhouse/murmur/internal/domain"
)

const maxPromptLen = 8000

// TextClient is the external text-generation collaborator.
type TextClient interface {
	Complete(ctx context.Context, systemPrompt string, maxTokens int, temperature float64) (string, error)
}

// SpeechClient is the external speech-synthesis collaborator. Failures here
// are never fatal.
type SpeechClient interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Request carries everything the pipeline needs for one message.
type Request struct {
	Room    domain.RoomConfig
	Speaker string
	Recent  []domain.Message
}

type Pipeline struct {
	text   TextClient
	speech SpeechClient
	retry  RetryPolicy
	rnd    *rand.Rand
	now    func() time.Time
}

func NewPipeline(text TextClient, speech SpeechClient) *Pipeline {
	return &Pipeline{
		text:   text,
		speech: speech,
		retry:  DefaultRetryPolicy(),
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:    time.Now,
	}
}

// EstimateTokens approximates token usage as ceil(len/4). Kept deliberately
// simple so cost accounting stays consistent across providers.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// BuildPrompt assembles the system instruction for one turn: the speaker's
// persona, then either a topic seed (empty timeline) or the recent excerpt.
func (p *Pipeline) BuildPrompt(req Request) string {
	persona := PersonaFor(req.Speaker)

	if len(req.Recent) == 0 {
		topic := "anything on your mind"
		if len(req.Room.Topics) > 0 {
			topic = req.Room.Topics[p.rnd.IntN(len(req.Room.Topics))]
		}
		return fmt.Sprintf("%s\n\nStart a conversation about: %s", persona.Prompt, topic)
	}

	var excerpt strings.Builder
	for _, m := range req.Recent {
		fmt.Fprintf(&excerpt, "%s: %q\n", title(m.Speaker), m.Text)
	}
	prompt := fmt.Sprintf("%s\n\nContinue this conversation:\n%s\nRespond thoughtfully. You can reference other speakers by name when appropriate.",
		persona.Prompt, excerpt.String())
	if len(prompt) > maxPromptLen {
		prompt = prompt[:maxPromptLen]
	}
	return prompt
}

// Generate produces one finished message. The text call is retried with
// backoff; audio is attempted with the room's probability and skipped
// silently when synthesis fails.
func (p *Pipeline) Generate(ctx context.Context, req Request) (domain.Message, error) {
	prompt := p.BuildPrompt(req)

	var text string
	err := p.retry.Execute(ctx, func() error {
		var callErr error
		text, callErr = p.text.Complete(ctx, prompt, req.Room.MaxTokens, req.Room.Temperature)
		return callErr
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("text generation: %w", err)
	}

	msg := domain.NewMessage(req.Speaker, text, EstimateTokens(text), p.now())

	if p.speech != nil && p.rnd.Float64() < req.Room.AudioProbability {
		voice := PersonaFor(req.Speaker).Voice
		audio, synthErr := p.speech.Synthesize(ctx, text, voice)
		if synthErr != nil {
			log.Warn().Err(synthErr).Str("module", "generate").Str("room", string(req.Room.ID)).Str("speaker", req.Speaker).Msg("speech synthesis failed, message ships without audio")
		} else {
			msg.AudioRef = base64.StdEncoding.EncodeToString(audio)
		}
	}

	return msg, nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
