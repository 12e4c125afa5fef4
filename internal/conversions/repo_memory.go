package conversions

import (
	"context"
	"sort"
	"sync"
)

// DefaultMemoryRecords is how many records a MemoryRepo keeps.
const DefaultMemoryRecords = 1000

// MemoryRepo is an in-memory implementation of ConversionsRepo. It keeps the
// most recently created records only.
type MemoryRepo struct {
	mu   sync.RWMutex
	data []Conversion
	max  int
}

// NewMemoryRepo constructs a MemoryRepo holding DefaultMemoryRecords records.
func NewMemoryRepo() *MemoryRepo {
	return NewMemoryRepoWithLimit(DefaultMemoryRecords)
}

// NewMemoryRepoWithLimit constructs a MemoryRepo holding at most max records.
// A non-positive max falls back to DefaultMemoryRecords.
func NewMemoryRepoWithLimit(max int) *MemoryRepo {
	if max <= 0 {
		max = DefaultMemoryRecords
	}
	return &MemoryRepo{max: max}
}

// Create appends a record, dropping the oldest once the repo is full.
func (r *MemoryRepo) Create(ctx context.Context, conv Conversion) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = append(r.data, conv)
	if over := len(r.data) - r.max; over > 0 {
		n := copy(r.data, r.data[over:])
		clear(r.data[n:])
		r.data = r.data[:n]
	}
	return nil
}

// List returns records newest first, honoring limit/offset.
func (r *MemoryRepo) List(ctx context.Context, limit, offset int) ([]Conversion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	out := make([]Conversion, len(r.data))
	copy(out, r.data)
	r.mu.RUnlock()

	if offset >= len(out) {
		return []Conversion{}, nil
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

var _ ConversionsRepo = (*MemoryRepo)(nil)
