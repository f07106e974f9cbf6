package input

import (
	"errors"
	"fmt"

	"github.com/promptkit/promptkit/media"
)

// Size is a target pixel size.
type Size struct {
	Width  int
	Height int
}

// Processing directs preprocessing applied uniformly to all images before
// tokenization.
type Processing struct {
	Resize *Size
}

// ToolSpec is an opaque, model-specific tool schema passed through without
// interpretation.
type ToolSpec map[string]any

// UserInput aggregates everything a single generation request needs: the
// active prompt, its media, opaque tool specs and context, and a processing
// directive. It is built once per request and consumed, not retained.
//
// When the prompt is a Chat transcript the Images and Videos lists are
// derived from the transcript in message order and must not be mutated
// independently; for Text and RawMessages prompts they are owned by the
// call site.
type UserInput struct {
	prompt Prompt

	Images []media.Image
	Videos []media.Video

	Tools             []ToolSpec
	AdditionalContext map[string]any
	Processing        Processing
}

// Option configures a UserInput at construction.
type Option func(*UserInput) error

func WithImages(images ...media.Image) Option {
	return func(u *UserInput) error {
		u.Images = append(u.Images, images...)
		return nil
	}
}

func WithVideos(videos ...media.Video) Option {
	return func(u *UserInput) error {
		u.Videos = append(u.Videos, videos...)
		return nil
	}
}

func WithTools(tools ...ToolSpec) Option {
	return func(u *UserInput) error {
		u.Tools = append(u.Tools, tools...)
		return nil
	}
}

func WithAdditionalContext(ctx map[string]any) Option {
	return func(u *UserInput) error {
		u.AdditionalContext = ctx
		return nil
	}
}

// WithResize sets the target size applied to every image before tokenization.
func WithResize(width, height int) Option {
	return func(u *UserInput) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("resize dimensions must be positive, got %dx%d", width, height)
		}
		u.Processing.Resize = &Size{Width: width, Height: height}
		return nil
	}
}

// New builds a UserInput around a pre-built prompt. For a Chat prompt the
// media lists are derived from the transcript, overriding any lists supplied
// through options.
func New(prompt Prompt, opts ...Option) (*UserInput, error) {
	if prompt == nil {
		return nil, errors.New("prompt must not be nil")
	}
	u := &UserInput{}
	for _, opt := range opts {
		if err := opt(u); err != nil {
			return nil, err
		}
	}
	u.SetPrompt(prompt)
	return u, nil
}

// FromText builds a UserInput from a single free-form instruction.
func FromText(text string, opts ...Option) (*UserInput, error) {
	return New(Text(text), opts...)
}

// FromMessages builds a UserInput from raw model-specific message records.
func FromMessages(records []map[string]any, opts ...Option) (*UserInput, error) {
	return New(RawMessages(records), opts...)
}

// FromChat builds a UserInput from a structured transcript.
func FromChat(messages []ChatMessage, opts ...Option) (*UserInput, error) {
	return New(Chat(messages), opts...)
}

func (u *UserInput) Prompt() Prompt { return u.prompt }

// SetPrompt replaces the active prompt. Assigning a Chat transcript
// re-derives the media lists from its messages in transcript order;
// assigning Text or RawMessages leaves the existing lists untouched, so
// they become caller-owned again.
func (u *UserInput) SetPrompt(prompt Prompt) {
	u.prompt = prompt
	chat, ok := prompt.(Chat)
	if !ok {
		return
	}
	images := make([]media.Image, 0)
	videos := make([]media.Video, 0)
	for _, m := range chat {
		images = append(images, m.Images...)
		videos = append(videos, m.Videos...)
	}
	u.Images = images
	u.Videos = videos
}

// AsMessages flattens the active prompt into role/content records. It is
// pure: the raw variant is returned as-is, the others are freshly built.
func (u *UserInput) AsMessages() ([]map[string]any, error) {
	return u.prompt.Messages()
}
