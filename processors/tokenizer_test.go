package processors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadTokenizerMissingFile(t *testing.T) {
	_, err := LoadTokenizer(context.Background(), "/nonexistent/tokenizer.json")
	assert.ErrorContains(t, err, "failed to read tokenizer")
}

func TestUnknownRuntime(t *testing.T) {
	tk := &Tokenizer{Runtime: "JVM"}
	_, _, err := tk.Encode("hi")
	assert.ErrorContains(t, err, "unknown tokenizer runtime")
	assert.Equal(t, "", tk.Decode([]uint32{1}, true))
}
