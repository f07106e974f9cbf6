//go:build !RUST

package processors

import "errors"

const rustAvailable = false

type RustTokenizer struct{}

func loadRustTokenizer([]byte) (*Tokenizer, error) {
	return nil, errors.New("rust tokenizer support is not enabled, build with -tags RUST")
}

func encodeRust(*Tokenizer, string) ([]uint32, []string, error) {
	return nil, nil, errors.New("rust tokenizer support is not enabled, build with -tags RUST")
}

func decodeRust(*Tokenizer, []uint32, bool) string {
	return ""
}
