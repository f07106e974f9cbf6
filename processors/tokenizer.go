package processors

import (
	"context"
	"fmt"

	"github.com/promptkit/promptkit/util/fileutil"
)

// Tokenizer wraps one of the two tokenizer backends: the pure Go sugarme
// implementation, or the Rust bindings when built with -tags RUST.
type Tokenizer struct {
	Runtime string
	Go      *GoTokenizer
	Rust    *RustTokenizer
	Destroy func() error
}

// LoadTokenizer reads a HuggingFace tokenizer.json from a location and loads
// it into the preferred available backend.
func LoadTokenizer(ctx context.Context, location string) (*Tokenizer, error) {
	b, err := fileutil.ReadBytes(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read tokenizer from %s: %w", location, err)
	}
	if rustAvailable {
		return loadRustTokenizer(b)
	}
	return loadGoTokenizer(b)
}

// Encode tokenizes text with special tokens included.
func (t *Tokenizer) Encode(text string) ([]uint32, []string, error) {
	switch t.Runtime {
	case "GO":
		return encodeGo(t, text)
	case "RUST":
		return encodeRust(t, text)
	}
	return nil, nil, fmt.Errorf("unknown tokenizer runtime %q", t.Runtime)
}

// Decode maps token IDs back to text.
func (t *Tokenizer) Decode(ids []uint32, skipSpecialTokens bool) string {
	switch t.Runtime {
	case "GO":
		return decodeGo(t, ids, skipSpecialTokens)
	case "RUST":
		return decodeRust(t, ids, skipSpecialTokens)
	}
	return ""
}
