package receipts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, receipt Receipt) error {
	items, err := json.Marshal(receipt.Items)
	if err != nil {
		return fmt.Errorf("marshal receipt items: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO receipts (
			number,
			session_id,
			items,
			total,
			calories,
			payment_method,
			paid_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		receipt.Number,
		receipt.SessionID,
		items,
		receipt.Total,
		receipt.Calories,
		receipt.PaymentMethod,
		receipt.PaidAt,
	)
	return err
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Receipt, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx, `
		SELECT number, session_id, items, total, calories, payment_method, paid_at
		FROM receipts
		ORDER BY paid_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Receipt
	for rows.Next() {
		var (
			receipt  Receipt
			rawItems []byte
		)
		if err := rows.Scan(
			&receipt.Number,
			&receipt.SessionID,
			&rawItems,
			&receipt.Total,
			&receipt.Calories,
			&receipt.PaymentMethod,
			&receipt.PaidAt,
		); err != nil {
			return nil, err
		}
		if len(rawItems) > 0 {
			if err := json.Unmarshal(rawItems, &receipt.Items); err != nil {
				return nil, fmt.Errorf("decode receipt %s items: %w", receipt.Number, err)
			}
		}
		if receipt.Items == nil {
			receipt.Items = []order.Line{}
		}
		out = append(out, receipt)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM receipts`).Scan(&count)
	return count, err
}
