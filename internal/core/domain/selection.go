package domain

import (
	"fmt"
	"sort"
)

// Selection is the set of document IDs used as chat context.
// Stale IDs are tolerated; they simply match nothing at completion time.
type Selection map[string]struct{}

// NewSelection builds a Selection from ids, dropping duplicates and empty strings.
func NewSelection(ids []string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		s[id] = struct{}{}
	}
	return s
}

// Contains returns true if id is selected.
func (s Selection) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of selected documents.
func (s Selection) Len() int {
	return len(s)
}

// IDs returns the selected IDs in sorted order.
func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Toggle returns a new Selection with id added or removed.
func (s Selection) Toggle(id string) Selection {
	next := make(Selection, len(s)+1)
	for k := range s {
		next[k] = struct{}{}
	}
	if s.Contains(id) {
		delete(next, id)
	} else if id != "" {
		next[id] = struct{}{}
	}
	return next
}

// Announcement returns the system message describing this selection.
func (s Selection) Announcement() string {
	if s.Len() == 0 {
		return NoSelectionMessage
	}
	return fmt.Sprintf(selectionMessageFormat, s.Len())
}
