package conversions

import "time"

// UploadResponse is the body of a successful upload. DocxFile is omitted when
// document generation is disabled.
type UploadResponse struct {
	Status   string `json:"status"`
	Text     string `json:"text"`
	DocxFile string `json:"docx_file,omitempty"`
}

// ConversionResponse is the outward-facing representation of a conversion record.
type ConversionResponse struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	DeclaredType     string    `json:"declared_type"`
	DetectedType     string    `json:"detected_type,omitempty"`
	SizeBytes        int64     `json:"size_bytes"`
	TextChars        int       `json:"text_chars"`
	ExtractMethod    string    `json:"extract_method,omitempty"`
	DocxFile         string    `json:"docx_file,omitempty"`
	Status           string    `json:"status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	DurationMs       int64     `json:"duration_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

func toResponse(conv Conversion) ConversionResponse {
	return ConversionResponse{
		ID:               conv.ID,
		OriginalFilename: conv.OriginalFilename,
		DeclaredType:     conv.DeclaredType,
		DetectedType:     conv.DetectedType,
		SizeBytes:        conv.SizeBytes,
		TextChars:        conv.TextChars,
		ExtractMethod:    conv.ExtractMethod,
		DocxFile:         conv.DocxFile,
		Status:           string(conv.Status),
		ErrorMessage:     conv.ErrorMessage,
		DurationMs:       conv.DurationMs,
		CreatedAt:        conv.CreatedAt,
	}
}
