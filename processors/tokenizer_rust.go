//go:build RUST

package processors

import (
	"github.com/daulet/tokenizers"
)

const rustAvailable = true

type RustTokenizer struct {
	Tokenizer *tokenizers.Tokenizer
}

func loadRustTokenizer(tokenizerBytes []byte) (*Tokenizer, error) {
	tk, err := tokenizers.FromBytes(tokenizerBytes)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		Runtime: "RUST",
		Rust:    &RustTokenizer{Tokenizer: tk},
		Destroy: func() error {
			return tk.Close()
		},
	}, nil
}

func encodeRust(t *Tokenizer, text string) ([]uint32, []string, error) {
	output := t.Rust.Tokenizer.EncodeWithOptions(text, true, tokenizers.WithReturnTokens())
	return output.IDs, output.Tokens, nil
}

func decodeRust(t *Tokenizer, ids []uint32, skipSpecialTokens bool) string {
	return t.Rust.Tokenizer.Decode(ids, skipSpecialTokens)
}
