package fusion

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/your-org/chat-fusion/internal/metrics"
	"github.com/your-org/chat-fusion/pkg/adapters"
)

// Mode selects between combining both providers and returning one
// provider's reply verbatim.
type Mode string

const (
	ModeFusion Mode = "fusion"
	ModeSingle Mode = "single"
)

// Model selects which providers to call.
type Model string

const (
	ModelBoth   Model = "both"
	ModelGemini Model = "gemini"
	ModelOpenAI Model = "openai"
)

// Request is one chat request. Zero values for Mode and Model fall
// back to fusion over both providers.
type Request struct {
	Prompt string
	Mode   Mode
	Model  Model
}

// Normalized resolves absent or unrecognized mode and model values to
// their defaults. Callers labeling metrics or logs should use the
// normalized values, never raw client input.
func (r Request) Normalized() Request {
	if r.Mode != ModeSingle {
		r.Mode = ModeFusion
	}
	if r.Model != ModelGemini && r.Model != ModelOpenAI {
		r.Model = ModelBoth
	}
	return r
}

// Options carries the per-call generation parameters resolved once at
// startup.
type Options struct {
	GeminiModel string
	OpenAIModel string
	MaxTokens   int
	Temperature float64
	CallTimeout time.Duration
}

// Orchestrator fans a prompt out to the selected providers, collects
// the tagged results, and picks synthesis, heuristic merge, or
// passthrough. It always produces reply text; upstream failures
// degrade the answer instead of failing the request.
type Orchestrator struct {
	gemini adapters.Provider
	openai adapters.Provider
	synth  *Synthesizer
	opts   Options
	log    *zap.Logger
	rec    metrics.Recorder
}

// NewOrchestrator wires the two provider adapters and an optional
// synthesizer. Pass a nil synthesizer when the synthesis provider has
// no credential; fusion then goes straight to the heuristic merger.
func NewOrchestrator(gemini, openai adapters.Provider, synth *Synthesizer, opts Options, log *zap.Logger, rec metrics.Recorder) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	return &Orchestrator{gemini: gemini, openai: openai, synth: synth, opts: opts, log: log, rec: rec}
}

// Reply runs one request end to end.
func (o *Orchestrator) Reply(ctx context.Context, req Request) string {
	req = req.Normalized()
	gRes, oRes := o.dispatch(ctx, req)

	if req.Mode == ModeSingle {
		return singleReply(req.Model, gRes, oRes)
	}

	if o.synth != nil && (gRes.Text != "" || oRes.Text != "") {
		if text, err := o.synth.Combine(ctx, req.Prompt, gRes.Text, oRes.Text); err == nil {
			o.rec.ObserveFusionPath("synthesis")
			return text
		}
		// synthesis unavailable; fall through to the local merger
	}

	merged, path := Merge(gRes.Text, oRes.Text)
	o.rec.ObserveFusionPath(string(path))
	return merged
}

// dispatch issues the selected provider calls concurrently and waits
// for all of them. Each result is tagged with its provider, so no
// shape inference is needed on collection.
func (o *Orchestrator) dispatch(ctx context.Context, req Request) (ProviderResult, ProviderResult) {
	gRes := ProviderResult{Provider: o.gemini.Name()}
	oRes := ProviderResult{Provider: o.openai.Name()}

	var wg sync.WaitGroup
	if req.Model == ModelBoth || req.Model == ModelGemini {
		wg.Add(1)
		go func() {
			defer wg.Done()
			gRes = o.call(ctx, o.gemini, o.opts.GeminiModel, req.Prompt)
		}()
	}
	if req.Model == ModelBoth || req.Model == ModelOpenAI {
		wg.Add(1)
		go func() {
			defer wg.Done()
			oRes = o.call(ctx, o.openai, o.opts.OpenAIModel, req.Prompt)
		}()
	}
	wg.Wait()
	return gRes, oRes
}

func (o *Orchestrator) call(ctx context.Context, p adapters.Provider, model, prompt string) ProviderResult {
	cctx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()

	start := time.Now()
	resp, err := p.Generate(cctx, adapters.GenerateRequest{
		Model:       model,
		Prompt:      prompt,
		MaxTokens:   o.opts.MaxTokens,
		Temperature: o.opts.Temperature,
	})
	duration := time.Since(start)

	if err != nil {
		o.rec.ObserveProviderCall(p.Name(), "error", duration)
		o.log.Warn("provider call failed",
			zap.String("provider", p.Name()),
			zap.Duration("duration", duration),
			zap.Error(err))
		return ProviderResult{Provider: p.Name(), Detail: err.Error()}
	}

	o.rec.ObserveProviderCall(p.Name(), "ok", duration)
	text := resp.Text
	if text == "" && len(resp.Raw) > 0 {
		// expected reply field absent; degrade to the raw payload so
		// a technically-successful call never yields a null reply
		text = string(resp.Raw)
	}
	return ProviderResult{Provider: p.Name(), OK: true, Text: text, Raw: resp.Raw}
}

func singleReply(model Model, gRes, oRes ProviderResult) string {
	switch model {
	case ModelGemini:
		return orPlaceholder(gRes.Text)
	case ModelOpenAI:
		return orPlaceholder(oRes.Text)
	default:
		if oRes.Text != "" {
			return oRes.Text
		}
		return orPlaceholder(gRes.Text)
	}
}
