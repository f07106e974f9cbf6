package options

import "fmt"

// Options holds session-level configuration. A session without a template
// keeps the stand-in processor; configuring a template activates the
// template processor, optionally backed by a tokenizer.
type Options struct {
	Template      string
	TokenizerPath string
	EosToken      string
	ResizeWidth   int
	ResizeHeight  int
	Destroy       func() error
}

func Defaults() *Options {
	return &Options{
		Destroy: func() error {
			return nil
		},
	}
}

// WithOption is the interface for all option functions.
type WithOption func(o *Options) error

// WithTemplate selects the chat template the session's processor renders.
func WithTemplate(name string) WithOption {
	return func(o *Options) error {
		if name == "" {
			return fmt.Errorf("template name must not be empty")
		}
		o.Template = name
		return nil
	}
}

// WithTokenizer points the session at a HuggingFace tokenizer.json.
func WithTokenizer(location string) WithOption {
	return func(o *Options) error {
		o.TokenizerPath = location
		return nil
	}
}

func WithEosToken(token string) WithOption {
	return func(o *Options) error {
		o.EosToken = token
		return nil
	}
}

// WithDefaultResize sets a resize directive applied to requests that carry
// none of their own.
func WithDefaultResize(width, height int) WithOption {
	return func(o *Options) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("resize dimensions must be positive, got %dx%d", width, height)
		}
		o.ResizeWidth = width
		o.ResizeHeight = height
		return nil
	}
}
