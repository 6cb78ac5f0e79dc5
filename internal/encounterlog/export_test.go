package encounterlog

import (
	"context"
	"errors"
	"testing"

	"github.com/medsentinel/encounter-log/internal/model"
	"github.com/medsentinel/encounter-log/internal/store"
)

func TestImportPreservesOrder(t *testing.T) {
	ctx := context.Background()
	src, _ := newTestLog(t)

	src.Upsert(ctx, rec("r1", "a"))
	src.Upsert(ctx, rec("r2", "b"))
	src.Upsert(ctx, rec("r3", "c"))
	exported := src.ListAll(ctx)

	dst, _ := newTestLog(t)
	n, err := dst.Import(ctx, exported)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 imported, got %d", n)
	}
	if got := dst.ListAll(ctx); !equalIDs(got, "r3", "r2", "r1") {
		t.Errorf("expected [r3 r2 r1], got %v", ids(got))
	}
}

func TestImportMergesExisting(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLog(t)

	l.Upsert(ctx, rec("r1", "old"))
	l.Import(ctx, []model.Encounter{rec("r2", "b"), rec("r1", "new")})

	got := l.ListAll(ctx)
	if !equalIDs(got, "r2", "r1") {
		t.Fatalf("expected [r2 r1], got %v", ids(got))
	}
	if got[1].Content != "new" {
		t.Errorf("expected r1 replaced, got %q", got[1].Content)
	}
}

func TestImportStopsOnFailure(t *testing.T) {
	ctx := context.Background()
	l := New(store.NewMemoryMedium(store.Options{}))

	// Applied oldest first: r1 succeeds, then the id-less record fails
	n, err := l.Import(ctx, []model.Encounter{rec("r3", "c"), rec("", "bad"), rec("r1", "a")})
	if !errors.Is(err, model.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 imported before failure, got %d", n)
	}
	if got := l.ListAll(ctx); !equalIDs(got, "r1") {
		t.Errorf("expected [r1], got %v", ids(got))
	}
}
