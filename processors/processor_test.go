package processors

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorgonia.org/tensor"

	"github.com/promptkit/promptkit/input"
	"github.com/promptkit/promptkit/media"
)

func TestNoopProcessor(t *testing.T) {
	in, err := input.FromText("hello")
	assert.NoError(t, err)
	_, err = NoopProcessor{}.Prepare(context.Background(), in)
	assert.True(t, errors.Is(err, ErrNotImplemented))
}

func TestNewTemplateProcessorUnknownTemplate(t *testing.T) {
	_, err := NewTemplateProcessor("llama")
	assert.ErrorContains(t, err, "unknown chat template")
}

func TestTemplateProcessorPrompt(t *testing.T) {
	p, err := NewTemplateProcessor("chatml")
	assert.NoError(t, err)

	in, err := input.FromText("hi")
	assert.NoError(t, err)
	out, err := p.Prepare(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, "<|im_start|>user\nhi<|im_end|>\n<|im_start|>assistant\n", out.Prompt)
	assert.Empty(t, out.TokenIDs)
	assert.Empty(t, out.Images)
}

func TestTemplateProcessorWithoutGenerationPrompt(t *testing.T) {
	p, err := NewTemplateProcessor("chatml", WithoutGenerationPrompt())
	assert.NoError(t, err)

	in, err := input.FromText("hi")
	assert.NoError(t, err)
	out, err := p.Prepare(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, "<|im_start|>user\nhi<|im_end|>\n", out.Prompt)
}

func TestTemplateProcessorImageResize(t *testing.T) {
	d := tensor.New(tensor.WithShape(2, 2, 3), tensor.WithBacking(make([]float32, 12)))

	p, err := NewTemplateProcessor("chatml")
	assert.NoError(t, err)
	in, err := input.FromText("describe", input.WithImages(media.FromTensor(d)), input.WithResize(4, 4))
	assert.NoError(t, err)

	out, err := p.Prepare(context.Background(), in)
	assert.NoError(t, err)
	assert.Len(t, out.Images, 1)
	assert.Equal(t, 4, out.Images[0].Width())
	assert.Equal(t, 4, out.Images[0].Height())
}

func TestTemplateProcessorImagePassthrough(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))

	p, err := NewTemplateProcessor("chatml")
	assert.NoError(t, err)
	in, err := input.FromText("describe", input.WithImages(media.FromImage(rgba)))
	assert.NoError(t, err)

	// no steps and no directive: the canonical image is used as-is
	out, err := p.Prepare(context.Background(), in)
	assert.NoError(t, err)
	assert.Len(t, out.Images, 1)
	assert.Same(t, rgba, out.Images[0].RGBA)
}

func TestTemplateProcessorVideoFrames(t *testing.T) {
	frames := []image.Image{
		image.NewRGBA(image.Rect(0, 0, 1, 1)),
		image.NewRGBA(image.Rect(0, 0, 1, 1)),
	}
	asset := &media.VideoAsset{Frames: frames, Location: "memory"}

	p, err := NewTemplateProcessor("chatml")
	assert.NoError(t, err)
	in, err := input.FromText("summarize", input.WithVideos(media.FromAsset(asset)))
	assert.NoError(t, err)

	out, err := p.Prepare(context.Background(), in)
	assert.NoError(t, err)
	assert.Equal(t, frames, out.Frames)
}

func TestTemplateProcessorUntemplatableRecords(t *testing.T) {
	p, err := NewTemplateProcessor("chatml")
	assert.NoError(t, err)

	in, err := input.FromMessages([]map[string]any{
		{"role": "user", "content": []any{map[string]any{"type": "image"}}},
	})
	assert.NoError(t, err)
	_, err = p.Prepare(context.Background(), in)
	assert.ErrorContains(t, err, "content is not a string")
}
