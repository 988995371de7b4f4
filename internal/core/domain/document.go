package domain

import "time"

// DocumentStatus is a stage of the upload lifecycle.
type DocumentStatus string

// Lifecycle states. Uploading -> Processing -> Ready, with Error reserved
// for failures reported by a real upload backend.
const (
	// StatusUploading means the file is being transferred.
	StatusUploading DocumentStatus = "uploading"

	// StatusProcessing means the file has arrived and is being indexed.
	StatusProcessing DocumentStatus = "processing"

	// StatusReady means the document can be used as chat context.
	StatusReady DocumentStatus = "ready"

	// StatusError means the upload or indexing failed.
	StatusError DocumentStatus = "error"
)

// IsValid returns true if the status is recognised.
func (s DocumentStatus) IsValid() bool {
	switch s {
	case StatusUploading, StatusProcessing, StatusReady, StatusError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transitions follow this status.
func (s DocumentStatus) IsTerminal() bool {
	return s == StatusReady || s == StatusError
}

// InProgress returns true while ProcessingProgress is meaningful.
func (s DocumentStatus) InProgress() bool {
	return s == StatusUploading || s == StatusProcessing
}

// String returns the string representation.
func (s DocumentStatus) String() string {
	return string(s)
}

// Label returns a human-readable label for the status.
func (s DocumentStatus) Label() string {
	switch s {
	case StatusUploading:
		return "Uploading"
	case StatusProcessing:
		return "Processing"
	case StatusReady:
		return "Ready"
	case StatusError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Progress bounds for ProcessingProgress.
const (
	ProgressMin = 0
	ProgressMax = 100
)

// Document is an uploaded file tracked through its lifecycle.
// Descriptive metadata is fixed at creation; only Status, ProcessingProgress,
// URL and Error change afterwards.
type Document struct {
	// ID is the unique identifier, assigned at creation.
	ID string `json:"id"`

	// Name is the original file name.
	Name string `json:"name"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// MimeType is the file's media type.
	MimeType string `json:"type"`

	// UploadDate is when the upload was initiated.
	UploadDate time.Time `json:"uploadDate"`

	// Status is the current lifecycle stage.
	Status DocumentStatus `json:"status"`

	// ProcessingProgress is a percentage in [0,100].
	// Only meaningful while Status is uploading or processing.
	ProcessingProgress int `json:"processingProgress,omitempty"`

	// URL is where the backend stored the file. Empty for simulated uploads.
	URL string `json:"url,omitempty"`

	// Error describes the failure when Status is error.
	Error string `json:"error,omitempty"`
}

// Progress returns ProcessingProgress when it is meaningful, and false otherwise.
func (d Document) Progress() (int, bool) {
	if !d.Status.InProgress() {
		return 0, false
	}
	return ClampProgress(d.ProcessingProgress), true
}

// WithProgress returns a copy of d in the given state.
func (d Document) WithProgress(status DocumentStatus, progress int) Document {
	d.Status = status
	d.ProcessingProgress = ClampProgress(progress)
	return d
}

// ClampProgress pins p into [ProgressMin, ProgressMax].
func ClampProgress(p int) int {
	if p < ProgressMin {
		return ProgressMin
	}
	if p > ProgressMax {
		return ProgressMax
	}
	return p
}

// UploadFile is a file handed to the upload pipeline.
type UploadFile struct {
	// Name is the file name.
	Name string

	// MimeType is the file's media type.
	MimeType string

	// Content is the raw file bytes. May be nil for simulated uploads.
	Content []byte

	// Size overrides len(Content) when Content is not loaded.
	Size int64
}

// ByteSize returns the file size in bytes.
func (f UploadFile) ByteSize() int64 {
	if f.Size > 0 {
		return f.Size
	}
	return int64(len(f.Content))
}

// SampleDocuments returns the demo documents a fresh session starts with.
func SampleDocuments() []Document {
	return []Document{
		{
			ID:         "1",
			Name:       "Annual Report 2024.pdf",
			Size:       2500000,
			MimeType:   "application/pdf",
			UploadDate: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.Local),
			Status:     StatusReady,
		},
		{
			ID:         "2",
			Name:       "Project Proposal.docx",
			Size:       1200000,
			MimeType:   "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			UploadDate: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.Local),
			Status:     StatusReady,
		},
	}
}
