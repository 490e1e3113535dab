package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Zornetta/Chatbot-Barista/internal/events"
	"github.com/Zornetta/Chatbot-Barista/internal/order"
)

// ObjectStore uploads receipt documents to object storage. Satisfied by
// storage.R2Client.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, body []byte) (string, error)
}

// Service archives completed purchases: it numbers the receipt, saves it,
// uploads the JSON document when a store is configured and emits the paid
// event. Storage upload and event publishing are best-effort; the receipt
// itself is the source of truth.
type Service struct {
	repo      Repository
	store     ObjectStore
	publisher events.Publisher
	logger    *slog.Logger

	now func() time.Time
}

func NewService(
	repo Repository,
	store ObjectStore,
	publisher events.Publisher,
	logger *slog.Logger,
) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Archive records one completed purchase and returns the numbered receipt.
func (s *Service) Archive(
	ctx context.Context,
	sessionID string,
	snapshot order.Snapshot,
	paymentMethod string,
) (Receipt, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("count receipts: %w", err)
	}

	paidAt := s.now().UTC()
	receipt := Receipt{
		Number:        fmt.Sprintf("ORD_%s_%03d", paidAt.Format("20060102"), count+1),
		SessionID:     sessionID,
		Items:         snapshot.Items,
		Total:         snapshot.Total,
		Calories:      snapshot.Calories,
		PaymentMethod: paymentMethod,
		PaidAt:        paidAt,
	}

	if err := s.repo.Save(ctx, receipt); err != nil {
		return Receipt{}, fmt.Errorf("save receipt: %w", err)
	}

	if s.store != nil {
		doc, err := json.Marshal(receipt)
		if err != nil {
			s.logger.Error("marshal receipt document", "number", receipt.Number, "error", err)
		} else {
			key := fmt.Sprintf("receipts/%s.json", receipt.Number)
			if _, err := s.store.Put(ctx, key, "application/json", doc); err != nil {
				s.logger.Error("upload receipt document", "number", receipt.Number, "error", err)
			}
		}
	}

	evt := events.OrderPaid{
		OrderNumber:   receipt.Number,
		SessionID:     receipt.SessionID,
		Items:         receipt.Items,
		Total:         receipt.Total,
		Calories:      receipt.Calories,
		PaymentMethod: receipt.PaymentMethod,
		PaidAt:        receipt.PaidAt,
	}
	if err := s.publisher.PublishOrderPaid(ctx, evt); err != nil {
		s.logger.Error("publish order paid event", "number", receipt.Number, "error", err)
	}

	return receipt, nil
}

// List exposes archived receipts for the staff endpoints.
func (s *Service) List(ctx context.Context, limit int) ([]Receipt, error) {
	return s.repo.List(ctx, limit)
}
