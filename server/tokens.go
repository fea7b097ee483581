package server

import (
	"fmt"
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// tokenCounter estimates prompt size so oversized messages are refused
// before they reach a paid backend.
type tokenCounter struct {
	once  sync.Once
	codec tokenizer.Codec
	err   error
}

func (c *tokenCounter) Count(text string) (int, error) {
	c.once.Do(func() {
		c.codec, c.err = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if c.err != nil {
		return 0, fmt.Errorf("load tokenizer: %w", c.err)
	}
	ids, _, err := c.codec.Encode(text)
	if err != nil {
		return 0, fmt.Errorf("encode message: %w", err)
	}
	return len(ids), nil
}
