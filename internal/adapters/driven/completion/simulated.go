package completion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driven"
)

// Ensure Simulated implements the interface.
var _ driven.CompletionService = (*Simulated)(nil)

// Canned reference values for simulated replies.
const (
	SimulatedFallbackDocumentID = "mock-doc-1"
	SimulatedDocumentName       = "Example Document"
	SimulatedPageNumber         = 5
	SimulatedConfidence         = 0.92
)

const simulatedReplyFormat = `This is a simulated response to: "%s". ` +
	`In a real implementation, this would come from Azure OpenAI with context from your documents.`

// SimulatedReply builds the canned assistant reply for message. The single
// reference points at the first selected document, or a placeholder when
// nothing is selected.
func SimulatedReply(message string, documentIDs []string, at time.Time) domain.ChatMessage {
	refID := SimulatedFallbackDocumentID
	if len(documentIDs) > 0 && documentIDs[0] != "" {
		refID = documentIDs[0]
	}
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Content:   fmt.Sprintf(simulatedReplyFormat, message),
		Timestamp: at,
		IsUser:    false,
		DocumentReferences: []domain.DocumentReference{{
			DocumentID:   refID,
			DocumentName: SimulatedDocumentName,
			PageNumber:   SimulatedPageNumber,
			Confidence:   SimulatedConfidence,
		}},
	}
}

// Simulated replies with SimulatedReply after a fixed delay.
type Simulated struct {
	delay time.Duration
}

// NewSimulated creates a simulated responder. A zero delay replies immediately.
func NewSimulated(delay time.Duration) *Simulated {
	if delay < 0 {
		delay = 0
	}
	return &Simulated{delay: delay}
}

// Complete waits for the configured delay and returns the canned reply.
// Cancelling ctx abandons the reply.
func (s *Simulated) Complete(ctx context.Context, message string, documentIDs []string) (*domain.ChatMessage, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}

	reply := SimulatedReply(message, documentIDs, time.Now())
	return &reply, nil
}
