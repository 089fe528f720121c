package extractor

import (
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// TruncationMarker is appended to transcripts cut at the token limit.
const TruncationMarker = "\n[... transcrição truncada ...]"

const encodingName = "cl100k_base"

var loaderOnce sync.Once

// TokenCounter counts and truncates text by BPE tokens. The encoding ships
// with the binary, so no network access is needed.
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTokenCounter loads the offline cl100k_base encoding.
func NewTokenCounter() (*TokenCounter, error) {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{enc: enc}, nil
}

// Count returns the number of tokens in s. A nil counter estimates four
// characters per token.
func (c *TokenCounter) Count(s string) int {
	if c == nil || c.enc == nil {
		return (len([]rune(s)) + 3) / 4
	}
	return len(c.enc.Encode(s, nil, nil))
}

// Truncate cuts s to at most limit tokens and appends TruncationMarker.
// limit <= 0 disables truncation.
func (c *TokenCounter) Truncate(s string, limit int) (string, bool) {
	if limit <= 0 {
		return s, false
	}
	if c == nil || c.enc == nil {
		r := []rune(s)
		if len(r) <= limit*4 {
			return s, false
		}
		return string(r[:limit*4]) + TruncationMarker, true
	}
	toks := c.enc.Encode(s, nil, nil)
	if len(toks) <= limit {
		return s, false
	}
	cut := strings.ToValidUTF8(c.enc.Decode(toks[:limit]), "")
	return cut + TruncationMarker, true
}
