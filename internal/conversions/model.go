package conversions

import "time"

// Status is the outcome of a conversion attempt.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Conversion is the metadata record kept for every upload that passed validation.
// File content is never stored.
type Conversion struct {
	ID               string
	OriginalFilename string
	DeclaredType     string
	DetectedType     string
	SizeBytes        int64
	TextChars        int
	ExtractMethod    string
	DocxFile         string
	Status           Status
	ErrorMessage     string
	DurationMs       int64
	CreatedAt        time.Time
}

// Upload is one file received by the upload endpoint.
type Upload struct {
	FileName     string
	DeclaredType string
}

// Result is what a successful conversion hands back to the caller.
type Result struct {
	Text     string
	DocxFile string
	Record   Conversion
}
