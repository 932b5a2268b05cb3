package history

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one message of a conversation.
type Entry struct {
	At   time.Time
	Role Role
	Text string
}

// Store keeps the most recent messages per user in memory.
type Store struct {
	mu      sync.Mutex
	size    int
	maxAge  time.Duration
	now     func() time.Time
	entries map[string][]Entry
}

// NewStore creates a store keeping at most size entries per user that are
// younger than maxAge. A zero maxAge disables expiry.
func NewStore(size int, maxAge time.Duration) *Store {
	if size <= 0 {
		size = 10
	}
	return &Store{
		size:    size,
		maxAge:  maxAge,
		now:     time.Now,
		entries: make(map[string][]Entry),
	}
}

func (s *Store) Add(userID string, role Role, text string) {
	if s == nil || strings.TrimSpace(text) == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.prune(s.entries[userID]), Entry{At: s.now(), Role: role, Text: text})
	if len(list) > s.size {
		list = list[len(list)-s.size:]
	}
	s.entries[userID] = list
}

// Recent returns a copy of the user's live entries, oldest first.
func (s *Store) Recent(userID string) []Entry {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.prune(s.entries[userID])
	if len(list) == 0 {
		delete(s.entries, userID)
		return nil
	}
	s.entries[userID] = list
	out := make([]Entry, len(list))
	copy(out, list)
	return out
}

func (s *Store) Clear(userID string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
}

func (s *Store) prune(list []Entry) []Entry {
	if s.maxAge <= 0 {
		return list
	}
	cutoff := s.now().Add(-s.maxAge)
	i := 0
	for i < len(list) && list[i].At.Before(cutoff) {
		i++
	}
	return list[i:]
}

// Format renders entries as a prompt block labelled with the assistant's name.
func Format(entries []Entry, assistant string) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("Recent conversation:\n")
	for _, e := range entries {
		label := "User"
		if e.Role == RoleAssistant {
			label = assistant
		}
		fmt.Fprintf(&b, "%s: %s\n", label, e.Text)
	}
	return b.String()
}
