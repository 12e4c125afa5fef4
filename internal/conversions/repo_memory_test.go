package conversions

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryRepoListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.Create(context.Background(), Conversion{ID: id, CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "b" {
		t.Fatalf("unexpected order %+v", got)
	}

	got, _ = repo.List(context.Background(), 2, 2)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("unexpected page %+v", got)
	}

	got, _ = repo.List(context.Background(), 2, 10)
	if len(got) != 0 {
		t.Fatalf("expected empty page, got %+v", got)
	}
}

func TestMemoryRepoKeepsNewestRecords(t *testing.T) {
	const max = 5
	repo := NewMemoryRepoWithLimit(max)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < max+3; i++ {
		conv := Conversion{ID: fmt.Sprintf("c%d", i), CreatedAt: base.Add(time.Duration(i) * time.Second)}
		if err := repo.Create(context.Background(), conv); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.List(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != max {
		t.Fatalf("expected %d records, got %d", max, len(got))
	}
	if got[0].ID != "c7" || got[max-1].ID != "c3" {
		t.Fatalf("expected c7..c3, got %s..%s", got[0].ID, got[max-1].ID)
	}
}

func TestNewMemoryRepoDefaultLimit(t *testing.T) {
	repo := NewMemoryRepo()
	for i := 0; i < DefaultMemoryRecords+10; i++ {
		if err := repo.Create(context.Background(), Conversion{ID: fmt.Sprintf("c%d", i)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	got, _ := repo.List(context.Background(), 0, 0)
	if len(got) != DefaultMemoryRecords {
		t.Fatalf("expected %d records, got %d", DefaultMemoryRecords, len(got))
	}
}
