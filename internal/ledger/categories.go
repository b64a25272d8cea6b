package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// CategoryInput carries the caller-supplied fields for a new category.
type CategoryInput struct {
	Name  string
	Color string
	Icon  string
}

// CategoryUpdate lists the category fields that may change. A nil field
// is left untouched.
type CategoryUpdate struct {
	Name  *string
	Color *string
	Icon  *string
}

// AddCategory creates a new category.
func (l *Ledger) AddCategory(ctx context.Context, input CategoryInput) (*model.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if input.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}
	if l.state.CategoryByName(input.Name) != nil {
		return nil, common.NewValidationError("name", fmt.Sprintf("category %q already exists", input.Name))
	}

	cat := &model.Category{
		ID:    uuid.NewString(),
		Name:  input.Name,
		Color: input.Color,
		Icon:  input.Icon,
	}
	if err := l.store.CreateCategory(ctx, cat); err != nil {
		return nil, persistErr("create category", err)
	}
	l.state.Categories = append(l.state.Categories, *cat)

	slog.Info("category created", "id", cat.ID, "name", cat.Name)
	return cat, nil
}

// UpdateCategory applies a partial update to a category.
func (l *Ledger) UpdateCategory(ctx context.Context, id string, update CategoryUpdate) (*model.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cat := l.state.Category(id)
	if cat == nil {
		return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}

	next := *cat
	if update.Name != nil {
		next.Name = *update.Name
	}
	if update.Color != nil {
		next.Color = *update.Color
	}
	if update.Icon != nil {
		next.Icon = *update.Icon
	}
	if next.Name == "" {
		return nil, common.NewValidationError("name", "must not be empty")
	}

	if err := l.store.UpdateCategory(ctx, &next); err != nil {
		return nil, persistErr("update category", err)
	}
	*cat = next
	return cat, nil
}

// DeleteCategory removes a category. The category set is never allowed
// to become empty; deleting an absent category is a no-op.
func (l *Ledger) DeleteCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state.Category(id) == nil {
		return nil
	}
	if len(l.state.Categories) <= 1 {
		return common.ErrLastCategory
	}

	if err := l.store.DeleteCategory(ctx, id); err != nil {
		return persistErr("delete category", err)
	}
	for i := range l.state.Categories {
		if l.state.Categories[i].ID == id {
			l.state.Categories = append(l.state.Categories[:i], l.state.Categories[i+1:]...)
			break
		}
	}

	slog.Info("category deleted", "id", id)
	return nil
}
