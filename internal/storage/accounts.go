package storage

import (
	"context"
	"fmt"

	"github.com/finanzaspro/finanzas/internal/common"
	"github.com/finanzaspro/finanzas/internal/model"
)

// CreateAccount inserts a new account row.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return insertAccount(ctx, s.db, account)
}

// UpdateAccount replaces an account row. Fails with common.ErrNotFound
// if the account does not exist.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}
	return updateAccount(ctx, s.db, account)
}

// DeleteAccount removes an account row. Absence is not an error.
func (s *SQLiteStorage) DeleteAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return deleteAccount(ctx, s.db, id)
}

// AdjustAccountBalance applies a signed delta to the stored balance as a
// single atomic statement.
func (s *SQLiteStorage) AdjustAccountBalance(ctx context.Context, id string, delta float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return adjustAccountBalance(ctx, s.db, id, delta)
}

func (t *sqliteTx) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return insertAccount(ctx, t.tx, account)
}

func (t *sqliteTx) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateAccount(account); err != nil {
		return err
	}
	return updateAccount(ctx, t.tx, account)
}

func (t *sqliteTx) DeleteAccount(ctx context.Context, id string) error {
	return deleteAccount(ctx, t.tx, id)
}

func (t *sqliteTx) AdjustAccountBalance(ctx context.Context, id string, delta float64) error {
	return adjustAccountBalance(ctx, t.tx, id, delta)
}

func insertAccount(ctx context.Context, q dbtx, account *model.Account) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO accounts (id, name, type, balance, color, icon)
		VALUES (?, ?, ?, ?, ?, ?)`,
		account.ID, account.Name, account.Type, account.Balance, account.Color, account.Icon,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func updateAccount(ctx context.Context, q dbtx, account *model.Account) error {
	res, err := q.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, type = ?, balance = ?, color = ?, icon = ?
		WHERE id = ?`,
		account.Name, account.Type, account.Balance, account.Color, account.Icon, account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s: %w", account.ID, common.ErrNotFound)
	}
	return nil
}

func deleteAccount(ctx context.Context, q dbtx, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

func adjustAccountBalance(ctx context.Context, q dbtx, id string, delta float64) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET balance = balance + ? WHERE id = ?`,
		delta, id,
	)
	if err != nil {
		return fmt.Errorf("failed to adjust account balance: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check adjustment result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("account %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func listAccounts(ctx context.Context, q dbtx) ([]model.Account, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, type, balance, color, icon
		FROM accounts
		ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.Type, &acc.Balance, &acc.Color, &acc.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}
