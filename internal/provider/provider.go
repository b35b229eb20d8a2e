// Package provider abstracts the model back-ends behind one capability
// contract: plain generation, schema-constrained generation and
// vision-conditioned generation.
//
// Three interchangeable back-ends implement it:
//   - on-device: a local runner binary loading weights from disk
//   - local-service: a same-machine HTTP inference service (Ollama wire format)
//   - remote-api: a hosted API (OpenRouter wire format)
//
// All of them funnel raw model text through the same post-processing:
// leaked chat-template control tokens are stripped and inline reasoning
// segments are extracted into a separate thinking field.
package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider is the generation capability contract shared by all back-ends.
type Provider interface {
	// Generate produces a plain text completion.
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)

	// GenerateStructured produces text constrained by a JSON Schema.
	// Back-ends without native schema support append a serialized schema
	// description to the prompt and extract the JSON object from the
	// response.
	GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float64) (string, error)

	// GenerateWithVision produces a completion conditioned on the given
	// ordered images (PNG bytes).
	GenerateWithVision(ctx context.Context, prompt string, images [][]byte, temperature float64) (*VisionResult, error)
}

// VisionResult separates the visible response from any inline reasoning
// the model produced.
type VisionResult struct {
	Response string
	Thinking string
}

// Kind tags the back-end variants.
type Kind string

const (
	KindOnDevice     Kind = "on-device"
	KindLocalService Kind = "local-service"
	KindRemoteAPI    Kind = "remote-api"
)

// Selection names one back-end and the model it should run.
type Selection struct {
	Kind  Kind
	Model string
}

// Options carries the back-end settings from configuration.
type Options struct {
	// Local-service settings.
	ServiceURL string
	Thinking   bool

	// Remote-API settings.
	RemoteBaseURL string

	// On-device settings.
	RunnerBinary string
	Weights      map[string]string // model name -> weights path

	Logger *zap.Logger
}

// Resolve turns a selection into a concrete provider. Unknown kinds and
// on-device models with no registered weights fail here, before any
// network or inference call is attempted.
func Resolve(sel Selection, opts Options) (Provider, error) {
	if sel.Model == "" {
		return nil, fmt.Errorf("provider selection is missing a model name")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch sel.Kind {
	case KindLocalService:
		return NewServiceClient(opts.ServiceURL, sel.Model, opts.Thinking, log), nil
	case KindRemoteAPI:
		return NewRemoteClient(opts.RemoteBaseURL, sel.Model, log)
	case KindOnDevice:
		return NewOnDevice(opts.RunnerBinary, sel.Model, opts.Weights, log)
	default:
		return nil, fmt.Errorf("unknown provider kind %q", sel.Kind)
	}
}

// ResponseError is a response-contract failure: the model's output could
// not be parsed against the expected shape. It carries a truncated excerpt
// of the raw text for diagnosis. These are never retried and never
// coerced to a default.
type ResponseError struct {
	Excerpt string
	Err     error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid model response: %v (excerpt: %q)", e.Err, e.Excerpt)
}

func (e *ResponseError) Unwrap() error {
	return e.Err
}

// excerptLen bounds the raw-response excerpt attached to errors.
const excerptLen = 240

// Excerpt truncates raw model output for inclusion in errors.
func Excerpt(raw string) string {
	if len(raw) <= excerptLen {
		return raw
	}
	return raw[:excerptLen] + "..."
}
