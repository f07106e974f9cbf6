package chatTemplates

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/exp/maps"
)

var FuncMap = template.FuncMap{
	"mod": func(a, b int) int {
		return a % b
	},
	"trim": func(s string) string {
		return strings.TrimSpace(s)
	},
}

// Message is one flattened chat record as consumed by the templates.
type Message struct {
	Role    string
	Content string
}

// Data is the execution context for a chat template.
type Data struct {
	Messages            []Message
	AddGenerationPrompt bool
	EosToken            string
}

// Gemma folds a leading system message into the first turn and renames the
// assistant role to "model".
const GemmaTemplate = `
{{- $firstUserPrefix := "" -}}
{{- $loopMessages := .Messages -}}
{{- if and .Messages (eq (index .Messages 0).Role "system") -}}
    {{- $firstUserPrefix = printf "%s\n\n" (index .Messages 0).Content -}}
    {{- $loopMessages = slice .Messages 1 -}}
{{- end -}}
{{- range $index, $message := $loopMessages -}}
    {{- $role := $message.Role -}}
    {{- if eq $message.Role "assistant" -}}
        {{- $role = "model" -}}
    {{- end -}}
<start_of_turn>{{$role}}
{{ if eq $index 0 }}{{$firstUserPrefix}}{{- end -}}
{{- $message.Content | trim -}}<end_of_turn>
{{- end -}}
{{ if .AddGenerationPrompt }}
<start_of_turn>model
{{ end }}`

const PhiTemplate = `{{range .Messages}}{{if eq .Role "system"}}<|system|>
{{.Content}}<|end|>
{{else if eq .Role "user"}}<|user|>
{{.Content}}<|end|>
{{else if eq .Role "assistant"}}<|assistant|>
{{.Content}}<|end|>
{{end}}{{end}}{{if .AddGenerationPrompt}}<|assistant|>
{{else}}{{.EosToken}}{{end}}`

// Qwen (Qwen2.5) chat template (simplified, no tool calls). Each message is
// wrapped as <|im_start|>{role}\n{content}<|im_end|>\n; for generation an
// opening assistant block is appended without the closing <|im_end|> so the
// model continues.
const QwenTemplate = `{{- $messages := .Messages -}}
{{- if gt (len $messages) 0 -}}
    {{- if eq (index $messages 0).Role "system" -}}
<|im_start|>system
{{ (index $messages 0).Content }}<|im_end|>
    {{- else -}}
<|im_start|>system
You are a helpful assistant.<|im_end|>
    {{- end -}}
{{- end -}}
{{- range $i, $m := $messages -}}
    {{- if and (eq $i 0) (eq $m.Role "system") -}}
        {{- continue -}}
    {{- end -}}
<|im_start|>{{$m.Role}}
{{$m.Content}}<|im_end|>
{{- end -}}
{{- if .AddGenerationPrompt -}}<|im_start|>assistant
{{else -}}{{.EosToken}}{{- end -}}`

// ChatMLTemplate is the bare im_start/im_end framing with no implicit system
// message.
const ChatMLTemplate = `{{- range .Messages -}}
<|im_start|>{{.Role}}
{{.Content | trim}}<|im_end|>
{{ end -}}
{{- if .AddGenerationPrompt -}}<|im_start|>assistant
{{ end -}}`

var registry = map[string]string{
	"gemma":  GemmaTemplate,
	"phi":    PhiTemplate,
	"qwen":   QwenTemplate,
	"chatml": ChatMLTemplate,
}

var (
	parsedMu sync.Mutex
	parsed   = map[string]*template.Template{}
)

// Names lists the registered template names.
func Names() []string {
	names := maps.Keys(registry)
	slices.Sort(names)
	return names
}

// Render executes the named template over the given data.
func Render(name string, data Data) (string, error) {
	tmpl, err := lookup(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render chat template %q: %w", name, err)
	}
	return buf.String(), nil
}

func lookup(name string) (*template.Template, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if tmpl, ok := parsed[name]; ok {
		return tmpl, nil
	}
	src, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown chat template %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	tmpl, err := template.New(name).Funcs(FuncMap).Parse(src)
	if err != nil {
		return nil, err
	}
	parsed[name] = tmpl
	return tmpl, nil
}

// FromRecords converts flattened role/content records into template
// messages. Records are expected to carry string role and content values;
// model-specific raw records that deviate cannot be templated.
func FromRecords(records []map[string]any) ([]Message, error) {
	out := make([]Message, len(records))
	for i, record := range records {
		role, ok := record["role"].(string)
		if !ok {
			return nil, fmt.Errorf("record %d: role is not a string", i)
		}
		content, ok := record["content"].(string)
		if !ok {
			return nil, fmt.Errorf("record %d: content is not a string", i)
		}
		out[i] = Message{Role: role, Content: content}
	}
	return out, nil
}
