// Package api provides the HTTP client for the document-assistant API.
//
// The Client type is a small rate-limited JSON transport shared by the
// completion and upload adapters in this package and by the LLM adapters.
// CompletionService posts chat turns to {base}/chat and UploadBackend sends
// files to {base}/FileUpload before asking {base}/process-document to
// index them.
package api
