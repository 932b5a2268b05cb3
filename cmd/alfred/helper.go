package main

import (
	"regexp"
	"slices"
	"strings"
)

const messageLimit = 2000

var mentionRe = regexp.MustCompile(`<@!?(\d+)>`)

func CropText(input string, maxLength int) string {
	runes := []rune(input)
	if len(runes) <= maxLength {
		return input
	}

	return string(runes[:maxLength-3]) + "..."
}

// SplitMessage cuts text into chunks of at most limit runes, preferring line
// and word boundaries.
func SplitMessage(text string, limit int) []string {
	var chunks []string
	runes := []rune(strings.TrimSpace(text))
	for len(runes) > limit {
		cut := lastIndex(runes[:limit], '\n')
		if cut <= 0 {
			cut = lastIndex(runes[:limit], ' ')
		}
		if cut <= 0 {
			cut = limit
		}
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " \n"))
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func lastIndex(runes []rune, r rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == r {
			return i
		}
	}
	return -1
}

// cleanContent removes mentions of the bot and surrounding whitespace.
func cleanContent(content, botID string) string {
	content = mentionRe.ReplaceAllStringFunc(content, func(m string) string {
		if mentionRe.FindStringSubmatch(m)[1] == botID {
			return ""
		}
		return m
	})
	return strings.TrimSpace(content)
}

// allowed reports whether userID may talk to the bot. An empty list allows everyone.
func allowed(whitelist []string, userID string) bool {
	return len(whitelist) == 0 || slices.Contains(whitelist, userID)
}
