package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCropText(t *testing.T) {
	assert.Equal(t, "short", CropText("short", 10))
	assert.Equal(t, "abcdefg...", CropText(strings.Repeat("abcdefghij", 3), 10))
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("hello", 2000))
	assert.Empty(t, SplitMessage("   ", 2000))

	text := strings.Repeat("a", 15) + "\n" + strings.Repeat("b", 15)
	assert.Equal(t, []string{strings.Repeat("a", 15), strings.Repeat("b", 15)}, SplitMessage(text, 20))

	assert.Equal(t, []string{"one two", "three"}, SplitMessage("one two three", 10))
	assert.Equal(t, []string{"abcde", "fghij", "k"}, SplitMessage("abcdefghijk", 5))

	long := strings.Repeat("word ", 1000)
	for _, chunk := range SplitMessage(long, messageLimit) {
		assert.LessOrEqual(t, len([]rune(chunk)), messageLimit)
	}
}

func TestCleanContent(t *testing.T) {
	assert.Equal(t, "what's on today?", cleanContent("<@123>  what's on today? ", "123"))
	assert.Equal(t, "ping <@456> please", cleanContent("<@!123> ping <@456> please", "123"))
	assert.Equal(t, "add these:\n- standup mon 9am\n- lunch fri noon",
		cleanContent("<@123> add these:\n- standup mon 9am\n- lunch fri noon\n", "123"))
}

func TestAllowed(t *testing.T) {
	assert.True(t, allowed(nil, "1"))
	assert.True(t, allowed([]string{"1", "2"}, "2"))
	assert.False(t, allowed([]string{"1"}, "3"))
}
