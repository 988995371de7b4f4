package driving

import (
	"context"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
)

// UploadDriver advances a document through Uploading, Processing and Ready.
// Implementations write every state to the DocumentStore and to the
// returned stream.
type UploadDriver interface {
	// Drive starts a run for doc. doc must already be in the store.
	// Cancelling ctx cancels the run.
	Drive(ctx context.Context, doc domain.Document, file domain.UploadFile) ProgressStream
}

// ProgressStream is one upload run.
type ProgressStream interface {
	// Updates yields every state the run produces. The channel is closed
	// exactly once, after the terminal state or after cancellation.
	Updates() <-chan domain.Document

	// Cancel stops the run. No store mutation happens after Cancel returns.
	// Safe to call more than once and after completion.
	Cancel()
}
