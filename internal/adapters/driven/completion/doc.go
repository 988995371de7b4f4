// Package completion provides the CompletionService implementations that do
// not talk to the document-assistant API directly: a simulated responder for
// offline use and an adapter that answers through an LLM chat endpoint.
// New picks one according to the completion settings.
package completion
