package tokens

import (
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Counter estimates prompt token counts for diagnostic logging. Encoder
// initialization is deferred until the first count and failures degrade to a
// whitespace split estimate.
type Counter struct {
	model string

	once sync.Once
	enc  *tiktoken.Tiktoken
}

// NewCounter builds a counter targeting the given model's encoding.
func NewCounter(model string) *Counter {
	return &Counter{model: model}
}

// Count returns the estimated token count for text.
func (c *Counter) Count(text string) int {
	if c == nil || text == "" {
		return 0
	}
	c.once.Do(func() {
		enc, err := tiktoken.EncodingForModel(c.model)
		if err != nil {
			enc, err = tiktoken.GetEncoding(fallbackEncoding)
		}
		if err == nil {
			c.enc = enc
		}
	})
	if c.enc == nil {
		return len(strings.Fields(text))
	}
	return len(c.enc.Encode(text, nil, nil))
}
