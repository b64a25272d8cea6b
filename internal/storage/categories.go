package storage

import (
	"context"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// CreateCategory inserts a new category row.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return insertCategory(ctx, s.db, category)
}

// UpdateCategory replaces a category row. Fails with common.ErrNotFound
// if the category does not exist.
func (s *SQLiteStorage) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}
	return updateCategory(ctx, s.db, category)
}

// DeleteCategory removes a category row. Absence is not an error.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteCategory(ctx, s.db, id)
}

func (t *sqliteTx) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return insertCategory(ctx, t.tx, category)
}

func (t *sqliteTx) UpdateCategory(ctx context.Context, category *model.Category) error {
	if err := validateCategory(category); err != nil {
		return err
	}
	return updateCategory(ctx, t.tx, category)
}

func (t *sqliteTx) DeleteCategory(ctx context.Context, id string) error {
	return deleteCategory(ctx, t.tx, id)
}

func insertCategory(ctx context.Context, q dbtx, category *model.Category) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO categories (id, name, color, icon)
		VALUES (?, ?, ?, ?)`,
		category.ID, category.Name, category.Color, category.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

func updateCategory(ctx context.Context, q dbtx, category *model.Category) error {
	res, err := q.ExecContext(ctx, `
		UPDATE categories SET name = ?, color = ?, icon = ? WHERE id = ?`,
		category.Name, category.Color, category.Icon, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("category %s: %w", category.ID, common.ErrNotFound)
	}
	return nil
}

func deleteCategory(ctx context.Context, q dbtx, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

func listCategories(ctx context.Context, q dbtx) ([]model.Category, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, color, icon
		FROM categories
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}
