package fusion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/chat-fusion/pkg/adapters"
)

const synthesisTemplate = `You are given one user prompt and two draft answers produced by different assistants. Combine them into a single best answer.

User prompt:
%s

Draft answer A:
%s

Draft answer B:
%s

If the drafts look like a script plus separate video or production instructions, respond with a JSON document containing the fields "script", "video_instructions" and "notes". Otherwise respond with one merged prose answer, keeping concrete artifacts such as code blocks and numbered steps intact.`

// ErrNoSynthesisText means the synthesis call succeeded but produced
// no usable text.
var ErrNoSynthesisText = errors.New("synthesis returned no text")

// Synthesizer asks one upstream provider to combine two draft replies
// via a fixed meta-prompt. Its output is advisory generation, not
// deterministic merging; callers fall back to Merge on any error.
type Synthesizer struct {
	provider    adapters.Provider
	model       string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	log         *zap.Logger
}

func NewSynthesizer(provider adapters.Provider, model string, maxTokens int, temperature float64, timeout time.Duration, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Synthesizer{
		provider:    provider,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		log:         log,
	}
}

// Combine returns the provider's single merged answer for the two
// drafts, or an error the caller must treat as "synthesis
// unavailable".
func (s *Synthesizer) Combine(ctx context.Context, prompt, draftA, draftB string) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	meta := fmt.Sprintf(synthesisTemplate, prompt, draftA, draftB)
	resp, err := s.provider.Generate(cctx, adapters.GenerateRequest{
		Model:       s.model,
		Prompt:      meta,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
	if err != nil {
		s.log.Warn("synthesis call failed",
			zap.String("provider", s.provider.Name()),
			zap.Error(err))
		return "", err
	}
	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", ErrNoSynthesisText
	}
	return text, nil
}
