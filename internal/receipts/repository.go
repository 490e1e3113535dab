package receipts

import "context"

// Repository defines the storage operations for receipts.
type Repository interface {

	// Save persists a finished receipt.
	Save(ctx context.Context, receipt Receipt) error

	// List returns receipts, most recent first.
	List(ctx context.Context, limit int) ([]Receipt, error)

	// Count returns how many receipts exist, used for order numbering.
	Count(ctx context.Context) (int, error)
}
