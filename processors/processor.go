package processors

import (
	"context"
	"errors"
	"image"

	"github.com/promptkit/promptkit/input"
	"github.com/promptkit/promptkit/media"
)

// ModelInput is the tokenizer-ready form of a request: the rendered prompt,
// its token IDs when a tokenizer is attached, and the decoded media in
// request order.
type ModelInput struct {
	Prompt   string
	TokenIDs []uint32
	Tokens   []string
	Images   []*media.CanonicalImage
	Frames   []image.Image
}

// SequenceDelta is one streamed generation token.
type SequenceDelta struct {
	Token string
	Index int
}

// Processor turns a fully constructed UserInput into model input. The
// UserInput must be completely normalized before Prepare is called and must
// not be mutated while Prepare consumes it.
type Processor interface {
	Prepare(ctx context.Context, in *input.UserInput) (*ModelInput, error)
}

// ErrNotImplemented is returned by the stand-in processor. Seeing it means a
// real model-specific processor was never configured.
var ErrNotImplemented = errors.New("no model processor is configured")

// NoopProcessor is the stand-in used when no model-specific processor is
// registered. It always fails rather than produce empty input.
type NoopProcessor struct{}

func (NoopProcessor) Prepare(context.Context, *input.UserInput) (*ModelInput, error) {
	return nil, ErrNotImplemented
}
