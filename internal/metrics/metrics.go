package metrics

import "time"

// Recorder defines minimal metric hooks for fusion instrumentation.
type Recorder interface {
	// ObserveRequest records one completed chat request.
	ObserveRequest(mode string, status string, duration time.Duration)
	// ObserveProviderCall records one upstream adapter call.
	ObserveProviderCall(provider string, status string, duration time.Duration)
	// ObserveFusionPath records which merge branch produced the reply
	// (synthesis, structured, markers, longest).
	ObserveFusionPath(path string)
}

// NoopRecorder discards all observations.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRequest(string, string, time.Duration)      {}
func (NoopRecorder) ObserveProviderCall(string, string, time.Duration) {}
func (NoopRecorder) ObserveFusionPath(string)                          {}
