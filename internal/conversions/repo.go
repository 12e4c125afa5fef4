package conversions

import "context"

// ConversionsRepo persists conversion records.
type ConversionsRepo interface {
	Create(ctx context.Context, conv Conversion) error
	List(ctx context.Context, limit, offset int) ([]Conversion, error)
}
