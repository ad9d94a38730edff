package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kmutombo/caisse-backend/internal/domain"
)

const transactionColumns = `id, kind, amount, description, business_date, category, created_at`

type scanner interface {
	Scan(dest ...any) error
}

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Insert(ctx context.Context, t *domain.Transaction) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO transactions (kind, amount, description, business_date, category, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.Kind, t.Amount, t.Description, t.BusinessDate.Time(), t.Category, t.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Insert: %w", err)
	}
	t.ID = id
	return id, nil
}

// Update overwrites only the non-nil fields.
func (r *TransactionRepository) Update(ctx context.Context, id int64, amount *decimal.Decimal, description *string) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)

	if amount != nil {
		args = append(args, *amount)
		sets = append(sets, fmt.Sprintf("amount = $%d", len(args)))
	}
	if description != nil {
		args = append(args, *description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE transactions SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Update: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)

	t, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) List(ctx context.Context, f domain.TransactionFilter) ([]domain.Transaction, error) {
	var (
		where []string
		args  []any
	)

	if f.Date != nil {
		args = append(args, f.Date.Time())
		where = append(where, fmt.Sprintf("business_date = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, f.From.Time())
		where = append(where, fmt.Sprintf("business_date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, f.To.Time())
		where = append(where, fmt.Sprintf("business_date <= $%d", len(args)))
	}
	if f.Kind != nil {
		args = append(args, *f.Kind)
		where = append(where, fmt.Sprintf("kind = $%d", len(args)))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("List: scan: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows: %w", err)
	}
	return txns, nil
}

func scanTransaction(s scanner) (*domain.Transaction, error) {
	var (
		t            domain.Transaction
		businessDate time.Time
	)
	err := s.Scan(
		&t.ID, &t.Kind, &t.Amount, &t.Description,
		&businessDate, &t.Category, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.BusinessDate = domain.DateOf(businessDate)
	return &t, nil
}
