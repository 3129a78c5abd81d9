package adapters

import "context"

// GenerateRequest is a provider-agnostic text generation request.
// An empty Prompt is sent upstream as-is; rejecting it is the
// provider's call, not ours.
type GenerateRequest struct {
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// GenerateResponse is a provider-agnostic generation response.
// Raw always holds the unparsed upstream body so callers can fall
// back to it when the expected reply field is absent.
type GenerateResponse struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Raw          []byte
}

// Provider is the common interface both upstream adapters satisfy.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error)
}
