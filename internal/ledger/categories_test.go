package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/finanzaspro/finanzas/internal/common"
)

func TestAddCategory_RejectsDuplicateName(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	if _, err := l.AddCategory(ctx, CategoryInput{Name: "Mascotas", Color: "#fff", Icon: "🐕"}); err != nil {
		t.Fatalf("Failed to add category: %v", err)
	}
	_, err := l.AddCategory(ctx, CategoryInput{Name: "Mascotas"})
	var vErr *common.ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("Expected validation error for duplicate name, got %v", err)
	}

	// Seeded names are reserved too.
	if _, err := l.AddCategory(ctx, CategoryInput{Name: "Transferencia"}); err == nil {
		t.Error("Expected error duplicating a seeded category")
	}
}

func TestUpdateCategory(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	cat, err := l.AddCategory(ctx, CategoryInput{Name: "Viajes", Color: "#00f", Icon: "✈️"})
	if err != nil {
		t.Fatalf("Failed to add category: %v", err)
	}

	name := "Vacaciones"
	updated, err := l.UpdateCategory(ctx, cat.ID, CategoryUpdate{Name: &name})
	if err != nil {
		t.Fatalf("Failed to update category: %v", err)
	}
	if updated.Name != "Vacaciones" || updated.Icon != "✈️" {
		t.Errorf("Unexpected category after partial update: %+v", updated)
	}

	if _, err := l.UpdateCategory(ctx, "ghost", CategoryUpdate{Name: &name}); !errors.Is(err, common.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategory_LastCategoryGuard(t *testing.T) {
	l, _ := newTestLedger(t)
	ctx := context.Background()

	cats := l.Categories()
	for _, cat := range cats[:len(cats)-1] {
		if err := l.DeleteCategory(ctx, cat.ID); err != nil {
			t.Fatalf("Failed to delete category %s: %v", cat.ID, err)
		}
	}
	last := l.Categories()
	if len(last) != 1 {
		t.Fatalf("Expected single remaining category, got %d", len(last))
	}
	if err := l.DeleteCategory(ctx, last[0].ID); !errors.Is(err, common.ErrLastCategory) {
		t.Errorf("Expected ErrLastCategory, got %v", err)
	}
}

func TestDeleteCategory_AbsentIsNoOp(t *testing.T) {
	l, _ := newTestLedger(t)
	if err := l.DeleteCategory(context.Background(), "ghost"); err != nil {
		t.Errorf("Expected nil deleting absent category, got %v", err)
	}
}
