// Package adapters provides provider-agnostic LLM adapter interfaces and implementations.
//
// Subpackages:
//   - gemini
//   - openai
package adapters
