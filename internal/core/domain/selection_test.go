package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNewSelection tests deduplication and empty id handling
func TestNewSelection(t *testing.T) {
	s := NewSelection([]string{"b", "a", "b", "", "a"})

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains(""))
}

// TestSelection_Toggle tests that toggling returns a new set
func TestSelection_Toggle(t *testing.T) {
	s := NewSelection([]string{"a"})

	added := s.Toggle("b")
	removed := added.Toggle("a")

	assert.Equal(t, []string{"a"}, s.IDs())
	assert.Equal(t, []string{"a", "b"}, added.IDs())
	assert.Equal(t, []string{"b"}, removed.IDs())
	assert.Equal(t, 1, s.Toggle("").Len(), "empty id is ignored")
}

// TestSelection_Announcement tests the system message texts
func TestSelection_Announcement(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		expected string
	}{
		{"empty", nil, "No documents are selected. I'll respond based on general knowledge."},
		{"one", []string{"1"}, "I'm now using 1 document(s) for context in our conversation."},
		{"three", []string{"1", "2", "3"}, "I'm now using 3 document(s) for context in our conversation."},
		{"duplicates counted once", []string{"1", "1"}, "I'm now using 1 document(s) for context in our conversation."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewSelection(tt.ids).Announcement())
		})
	}
}
