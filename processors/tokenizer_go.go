package processors

import (
	"bytes"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/promptkit/promptkit/util/safeconv"
)

type GoTokenizer struct {
	Tokenizer *tokenizer.Tokenizer
}

func loadGoTokenizer(tokenizerBytes []byte) (*Tokenizer, error) {
	tk, err := pretrained.FromReader(bytes.NewReader(tokenizerBytes))
	if err != nil {
		return nil, err
	}
	return &Tokenizer{
		Runtime: "GO",
		Go:      &GoTokenizer{Tokenizer: tk},
		Destroy: func() error {
			return nil
		},
	}, nil
}

func encodeGo(t *Tokenizer, text string) ([]uint32, []string, error) {
	output, err := t.Go.Tokenizer.EncodeSingle(text, true)
	if err != nil {
		return nil, nil, err
	}
	return safeconv.IntSliceToUint32Slice(output.Ids), output.Tokens, nil
}

func decodeGo(t *Tokenizer, ids []uint32, skipSpecialTokens bool) string {
	return t.Go.Tokenizer.Decode(safeconv.Uint32SliceToIntSlice(ids), skipSpecialTokens)
}
