package chunk

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// encodingName is the tokenizer used to measure chunk length. cl100k_base
// is a reasonable stand-in for a wide range of local embedding models;
// exact vocabulary parity with the configured embedding model is not
// required, only a stable, consistent length measure.
const encodingName = "cl100k_base"

var (
	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
	tokenizerErr  error
)

func getTokenizer() (*tiktoken.Tiktoken, error) {
	tokenizerOnce.Do(func() {
		tokenizer, tokenizerErr = tiktoken.GetEncoding(encodingName)
	})
	return tokenizer, tokenizerErr
}

// countTokens returns the number of tokens in text. Falls back to a
// whitespace-split approximation if the tokenizer's vocabulary file is
// unavailable, so chunking degrades gracefully offline.
func countTokens(text string) int {
	tk, err := getTokenizer()
	if err != nil {
		return approxTokenCount(text)
	}
	return len(tk.Encode(text, nil, nil))
}

func approxTokenCount(text string) int {
	return len(strings.Fields(text))
}
