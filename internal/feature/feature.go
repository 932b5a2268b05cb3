package feature

import (
	"context"
	"io"
	"strings"
	"unicode"

	"github.com/FlameInTheDark/alfred/internal/history"
)

// Feature is one user-facing capability the router can select.
type Feature interface {
	Name() string
	Description() string
	// Capabilities is the free-text blurb embedded in the routing prompt.
	Capabilities() string
	// CanHandle is the keyword predicate used when AI routing is unavailable.
	CanHandle(text string) bool
	Handle(ctx context.Context, req *Request) (string, error)
}

// Replier lets a feature send more than a single text reply.
type Replier interface {
	SendFile(ctx context.Context, name string, r io.Reader) error
}

// Request is a single inbound message.
type Request struct {
	ID        string
	UserID    string
	Username  string
	ChannelID string
	// Content is the message as received.
	Content string
	// Text is the message with mentions and surrounding whitespace removed.
	Text    string
	History []history.Entry
	Replier Replier
}

// ContainsAny reports whether text contains any of the keywords, ignoring case.
// Keywords that are a single short word must match a whole word.
func ContainsAny(text string, keywords ...string) bool {
	lower := strings.ToLower(text)
	var words map[string]struct{}
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if len(kw) > 3 || strings.ContainsAny(kw, " ./") {
			if strings.Contains(lower, kw) {
				return true
			}
			continue
		}
		if words == nil {
			words = wordSet(lower)
		}
		if _, ok := words[kw]; ok {
			return true
		}
	}
	return false
}

func wordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	}) {
		set[w] = struct{}{}
	}
	return set
}
