package fusion

import "encoding/json"

// ProviderResult is the outcome of one adapter call, tagged with the
// provider that produced it so collection never has to guess identity
// from payload shape.
type ProviderResult struct {
	Provider string
	OK       bool
	Text     string
	Raw      json.RawMessage
	Detail   string
}
