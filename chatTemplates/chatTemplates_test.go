package chatTemplates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"chatml", "gemma", "phi", "qwen"}, Names())
}

func TestRenderChatML(t *testing.T) {
	out, err := Render("chatml", Data{
		Messages:            []Message{{Role: "user", Content: "hi"}},
		AddGenerationPrompt: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "<|im_start|>user\nhi<|im_end|>\n<|im_start|>assistant\n", out)
}

func TestRenderChatMLWithoutGenerationPrompt(t *testing.T) {
	out, err := Render("chatml", Data{
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	assert.NoError(t, err)
	assert.Equal(t, "<|im_start|>user\nhi<|im_end|>\n", out)
}

func TestRenderPhi(t *testing.T) {
	out, err := Render("phi", Data{
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hi"},
		},
		AddGenerationPrompt: true,
	})
	assert.NoError(t, err)
	assert.Equal(t, "<|system|>\nsys<|end|>\n<|user|>\nhi<|end|>\n<|assistant|>\n", out)
}

func TestRenderQwenDefaultSystemMessage(t *testing.T) {
	out, err := Render("qwen", Data{
		Messages:            []Message{{Role: "user", Content: "hi"}},
		AddGenerationPrompt: true,
	})
	assert.NoError(t, err)
	assert.Contains(t, out, "<|im_start|>system\nYou are a helpful assistant.<|im_end|>")
	assert.Contains(t, out, "<|im_start|>user\nhi<|im_end|>")
	// the generation prompt opens the assistant turn, newline included, so
	// the model continues on a fresh line
	assert.True(t, strings.HasSuffix(out, "<|im_start|>assistant\n"))
}

func TestRenderQwenExplicitSystemMessage(t *testing.T) {
	out, err := Render("qwen", Data{
		Messages: []Message{
			{Role: "system", Content: "be terse"},
			{Role: "user", Content: "hi"},
		},
	})
	assert.NoError(t, err)
	assert.Contains(t, out, "<|im_start|>system\nbe terse<|im_end|>")
	assert.NotContains(t, out, "You are a helpful assistant.")
	// the system message is emitted once, not re-emitted by the turn loop
	assert.Equal(t, 1, strings.Count(out, "be terse"))
}

func TestRenderGemma(t *testing.T) {
	out, err := Render("gemma", Data{
		Messages: []Message{
			{Role: "system", Content: "sys"},
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "yo"},
		},
		AddGenerationPrompt: true,
	})
	assert.NoError(t, err)
	// the system message folds into the first turn; assistant renders as model
	assert.Contains(t, out, "<start_of_turn>user\nsys\n\nhi<end_of_turn>")
	assert.Contains(t, out, "<start_of_turn>model\nyo<end_of_turn>")
	assert.Contains(t, out, "<start_of_turn>model\n")
	assert.NotContains(t, out, "<start_of_turn>assistant")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("llama", Data{})
	assert.ErrorContains(t, err, "unknown chat template")
}

func TestFromRecords(t *testing.T) {
	messages, err := FromRecords([]map[string]any{
		{"role": "user", "content": "hi", "extra": 42},
	})
	assert.NoError(t, err)
	assert.Equal(t, []Message{{Role: "user", Content: "hi"}}, messages)
}

func TestFromRecordsNonStringContent(t *testing.T) {
	_, err := FromRecords([]map[string]any{
		{"role": "user", "content": []any{"multipart"}},
	})
	assert.ErrorContains(t, err, "content is not a string")
}
