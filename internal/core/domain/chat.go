package domain

import "time"

// DocumentReference cites a location in a document that supports an answer.
type DocumentReference struct {
	// DocumentID links to the cited Document.
	DocumentID string `json:"documentId"`

	// DocumentName is the display name of the cited document.
	DocumentName string `json:"documentName"`

	// PageNumber is the cited page, 1-based. Zero when unknown.
	PageNumber int `json:"pageNumber,omitempty"`

	// Confidence is the retrieval confidence in [0,1].
	Confidence float64 `json:"confidence,omitempty"`
}

// ChatMessage is one turn in the conversation.
// Messages are never modified once appended to the history.
type ChatMessage struct {
	// ID is the unique identifier, assigned when the message is created.
	ID string `json:"id"`

	// Content is the message text.
	Content string `json:"content"`

	// Timestamp is when the message was created.
	Timestamp time.Time `json:"timestamp"`

	// IsUser is true for user-authored messages and false for assistant or system notices.
	IsUser bool `json:"isUser"`

	// DocumentReferences cite supporting documents. Only set on assistant replies.
	DocumentReferences []DocumentReference `json:"documentReferences,omitempty"`
}

// Role returns "user" or "assistant".
func (m ChatMessage) Role() string {
	if m.IsUser {
		return "user"
	}
	return "assistant"
}

// HasReferences returns true if the message cites any documents.
func (m ChatMessage) HasReferences() bool {
	return len(m.DocumentReferences) > 0
}

// System message texts posted into the conversation.
const (
	// WelcomeMessage seeds every new conversation.
	WelcomeMessage = "Hello! I'm your Document AI assistant. Upload documents and ask me questions about them."

	// NoSelectionMessage is posted when the context selection becomes empty.
	NoSelectionMessage = "No documents are selected. I'll respond based on general knowledge."

	// selectionMessageFormat is posted when one or more documents are selected.
	selectionMessageFormat = "I'm now using %d document(s) for context in our conversation."
)
