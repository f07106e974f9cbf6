package processors

import (
	"context"
	"fmt"
	"image"

	"github.com/promptkit/promptkit/chatTemplates"
	"github.com/promptkit/promptkit/input"
	"github.com/promptkit/promptkit/media"
	"github.com/promptkit/promptkit/util/imageutil"
)

// TemplateProcessor implements the Prepare contract with a chat template and
// an optional tokenizer: flatten, render, tokenize, and decode all attached
// media. Without a tokenizer the rendered prompt is returned untokenized for
// a downstream tokenizer to consume.
type TemplateProcessor struct {
	Template            string
	EosToken            string
	AddGenerationPrompt bool
	Tokenizer           *Tokenizer
	Decoder             media.FrameDecoder

	preprocessSteps []imageutil.PreprocessStep
}

type TemplateOption func(*TemplateProcessor) error

func WithTokenizer(t *Tokenizer) TemplateOption {
	return func(p *TemplateProcessor) error {
		p.Tokenizer = t
		return nil
	}
}

func WithEosToken(token string) TemplateOption {
	return func(p *TemplateProcessor) error {
		p.EosToken = token
		return nil
	}
}

func WithFrameDecoder(dec media.FrameDecoder) TemplateOption {
	return func(p *TemplateProcessor) error {
		p.Decoder = dec
		return nil
	}
}

func WithPreprocessSteps(steps ...imageutil.PreprocessStep) TemplateOption {
	return func(p *TemplateProcessor) error {
		p.preprocessSteps = append(p.preprocessSteps, steps...)
		return nil
	}
}

// WithoutGenerationPrompt closes the final turn instead of opening an
// assistant block.
func WithoutGenerationPrompt() TemplateOption {
	return func(p *TemplateProcessor) error {
		p.AddGenerationPrompt = false
		return nil
	}
}

// NewTemplateProcessor initializes a template processor for a registered
// chat template.
func NewTemplateProcessor(templateName string, opts ...TemplateOption) (*TemplateProcessor, error) {
	p := &TemplateProcessor{
		Template:            templateName,
		AddGenerationPrompt: true,
		Decoder:             media.DefaultFrameDecoder(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	// fail on unknown template names at construction, not at request time
	if _, err := chatTemplates.Render(templateName, chatTemplates.Data{}); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *TemplateProcessor) Prepare(ctx context.Context, in *input.UserInput) (*ModelInput, error) {
	records, err := in.AsMessages()
	if err != nil {
		return nil, err
	}
	messages, err := chatTemplates.FromRecords(records)
	if err != nil {
		return nil, err
	}
	prompt, err := chatTemplates.Render(p.Template, chatTemplates.Data{
		Messages:            messages,
		AddGenerationPrompt: p.AddGenerationPrompt,
		EosToken:            p.EosToken,
	})
	if err != nil {
		return nil, err
	}

	out := &ModelInput{Prompt: prompt}
	if p.Tokenizer != nil {
		ids, tokens, encodeErr := p.Tokenizer.Encode(prompt)
		if encodeErr != nil {
			return nil, fmt.Errorf("failed to tokenize prompt: %w", encodeErr)
		}
		out.TokenIDs = ids
		out.Tokens = tokens
	}

	for _, img := range in.Images {
		canonical, decodeErr := img.Canonical(ctx)
		if decodeErr != nil {
			return nil, decodeErr
		}
		processed, stepErr := p.preprocess(ctx, canonical, in.Processing)
		if stepErr != nil {
			return nil, stepErr
		}
		out.Images = append(out.Images, processed)
	}

	for _, video := range in.Videos {
		asset, resolveErr := video.Resolve(ctx, p.Decoder)
		if resolveErr != nil {
			return nil, resolveErr
		}
		out.Frames = append(out.Frames, asset.Frames...)
	}
	return out, nil
}

// preprocess chains the configured steps and the per-request resize
// directive over a decoded image.
func (p *TemplateProcessor) preprocess(ctx context.Context, canonical *media.CanonicalImage, directive input.Processing) (*media.CanonicalImage, error) {
	if len(p.preprocessSteps) == 0 && directive.Resize == nil {
		return canonical, nil
	}
	var processed image.Image = canonical.RGBA
	for _, step := range p.preprocessSteps {
		var err error
		processed, err = step.Apply(processed)
		if err != nil {
			return nil, fmt.Errorf("failed to apply preprocessing step: %w", err)
		}
	}
	if directive.Resize != nil {
		processed = imageutil.Resize(processed, directive.Resize.Width, directive.Resize.Height, imageutil.ResizeBilinear)
	}
	return media.FromImage(processed).Canonical(ctx)
}
