package conversions

import (
	"context"
	"database/sql"
)

// PGRepo implements ConversionsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a conversion record.
func (r *PGRepo) Create(ctx context.Context, conv Conversion) error {
	const query = `
INSERT INTO conversions (
    id,
    original_filename,
    declared_type,
    detected_type,
    size_bytes,
    text_chars,
    extract_method,
    docx_file,
    status,
    error_message,
    duration_ms,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		conv.ID,
		conv.OriginalFilename,
		conv.DeclaredType,
		conv.DetectedType,
		conv.SizeBytes,
		conv.TextChars,
		conv.ExtractMethod,
		conv.DocxFile,
		string(conv.Status),
		conv.ErrorMessage,
		conv.DurationMs,
		conv.CreatedAt,
	)
	return err
}

// List returns records ordered newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Conversion, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, original_filename, declared_type, detected_type, size_bytes, text_chars, extract_method, docx_file, status, error_message, duration_ms, created_at
FROM conversions
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Conversion{}
	for rows.Next() {
		var conv Conversion
		var status string
		if err := rows.Scan(
			&conv.ID,
			&conv.OriginalFilename,
			&conv.DeclaredType,
			&conv.DetectedType,
			&conv.SizeBytes,
			&conv.TextChars,
			&conv.ExtractMethod,
			&conv.DocxFile,
			&status,
			&conv.ErrorMessage,
			&conv.DurationMs,
			&conv.CreatedAt,
		); err != nil {
			return nil, err
		}
		conv.Status = Status(status)
		out = append(out, conv)
	}
	return out, rows.Err()
}

var _ ConversionsRepo = (*PGRepo)(nil)
