// Package speech wraps the external text-to-speech engines. Engines are slow
// and fallible; callers run them off the request path under a timeout and a
// concurrency gate.
package speech

import "context"

// SynthesisInput carries everything an engine needs to produce audio.
type SynthesisInput struct {
	Text string
	// Voice is the engine-specific voice identifier resolved via the Catalog.
	Voice Voice
	Speed float64
}

// Synthesizer converts text into encoded audio bytes (MP3).
type Synthesizer interface {
	Synthesize(ctx context.Context, input SynthesisInput) ([]byte, error)
}
