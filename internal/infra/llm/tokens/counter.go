package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the BPE used by the gpt-4 and gpt-4o-mini family for estimates.
const DefaultEncoding = "cl100k_base"

// Counter estimates prompt length in tokens.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the named encoding. Loading may download the BPE ranks on
// first use, so callers treat an error as "no estimate available".
func NewCounter(encoding string) (*Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %s: %w", encoding, err)
	}
	return &Counter{enc: enc}, nil
}

// Count returns the number of tokens in text.
func (c *Counter) Count(text string) int {
	if c == nil || c.enc == nil || text == "" {
		return 0
	}
	return len(c.enc.Encode(text, nil, nil))
}
