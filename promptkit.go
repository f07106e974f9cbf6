package promptkit

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/promptkit/promptkit/input"
	"github.com/promptkit/promptkit/options"
	"github.com/promptkit/promptkit/processors"
)

// CancelledMarker is appended to the partial output of a run whose
// generation was cancelled mid-stream, so cancellation is visible rather
// than silent.
const CancelledMarker = "\n[generation cancelled]"

// Session wires a processor to generation requests and enforces the
// one-in-flight-run-per-session ordering: starting a new streamed run
// cancels the prior one.
type Session struct {
	options   *options.Options
	processor processors.Processor

	mu           sync.Mutex
	cancelActive context.CancelFunc
}

// NewSession builds a session. Without a configured template the session
// keeps the stand-in processor, which fails fast on use.
func NewSession(opts ...options.WithOption) (*Session, error) {
	parsedOptions := options.Defaults()
	for _, option := range opts {
		if err := option(parsedOptions); err != nil {
			return nil, err
		}
	}

	var processor processors.Processor = processors.NoopProcessor{}
	if parsedOptions.Template != "" {
		templateOptions := []processors.TemplateOption{}
		if parsedOptions.EosToken != "" {
			templateOptions = append(templateOptions, processors.WithEosToken(parsedOptions.EosToken))
		}
		if parsedOptions.TokenizerPath != "" {
			tk, err := processors.LoadTokenizer(context.Background(), parsedOptions.TokenizerPath)
			if err != nil {
				return nil, err
			}
			templateOptions = append(templateOptions, processors.WithTokenizer(tk))
			destroyOptions := parsedOptions.Destroy
			parsedOptions.Destroy = func() error {
				return errors.Join(destroyOptions(), tk.Destroy())
			}
		}
		templateProcessor, err := processors.NewTemplateProcessor(parsedOptions.Template, templateOptions...)
		if err != nil {
			return nil, err
		}
		processor = templateProcessor
	}

	return &Session{options: parsedOptions, processor: processor}, nil
}

func (s *Session) Processor() processors.Processor { return s.processor }

// Prepare normalizes a request into model input through the session's
// processor, applying the session default resize when the request has none.
// The caller's input is never written to; the default is applied to a
// shallow copy so a request prepared through one session carries nothing
// over into another.
func (s *Session) Prepare(ctx context.Context, in *input.UserInput) (*processors.ModelInput, error) {
	if in == nil {
		return nil, errors.New("user input must not be nil")
	}
	if s.options.ResizeWidth > 0 && in.Processing.Resize == nil {
		withDefault := *in
		withDefault.Processing.Resize = &input.Size{Width: s.options.ResizeWidth, Height: s.options.ResizeHeight}
		return s.processor.Prepare(ctx, &withDefault)
	}
	return s.processor.Prepare(ctx, in)
}

// Generator produces a token stream from prepared model input. The channels
// must both be closed when the context is cancelled or generation ends.
type Generator interface {
	Generate(ctx context.Context, in *processors.ModelInput) (chan processors.SequenceDelta, chan error, error)
}

type StreamResult struct {
	Output    string
	Cancelled bool
	Err       error
}

// Stream prepares the input and runs the generator as a cancellable unit of
// work. The input is fully normalized before the generator sees it. Starting
// a new stream on the session cancels any prior in-flight run; a cancelled
// run gets CancelledMarker appended to its partial output.
func (s *Session) Stream(ctx context.Context, g Generator, in *input.UserInput, onDelta func(token string)) (<-chan StreamResult, error) {
	s.mu.Lock()
	if s.cancelActive != nil {
		s.cancelActive()
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancelActive = cancel
	s.mu.Unlock()

	prepared, err := s.Prepare(runCtx, in)
	if err != nil {
		cancel()
		return nil, err
	}

	tokenStream, errorStream, err := g.Generate(runCtx, prepared)
	if err != nil {
		cancel()
		return nil, err
	}

	results := make(chan StreamResult, 1)
	go func() {
		defer cancel()
		var output strings.Builder
		for delta := range tokenStream {
			output.WriteString(delta.Token)
			if onDelta != nil {
				onDelta(delta.Token)
			}
		}
		var streamErrors []error
		for streamErr := range errorStream {
			streamErrors = append(streamErrors, streamErr)
		}

		result := StreamResult{Output: output.String()}
		if runCtx.Err() != nil {
			result.Output += CancelledMarker
			result.Cancelled = true
		} else {
			result.Err = errors.Join(streamErrors...)
		}
		results <- result
		close(results)
	}()
	return results, nil
}

// CancelActive cancels the in-flight generation, if any.
func (s *Session) CancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelActive != nil {
		s.cancelActive()
	}
}

func (s *Session) Destroy() error {
	s.CancelActive()
	return s.options.Destroy()
}
