package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

const EventPaymentCaptured = "payment.captured"

// PaymentService is the inbox for gateway callbacks.
type PaymentService struct {
	Repo        *repo.GormRepo
	Secret      []byte
	Events      events.Publisher
	OrdersTopic string
}

// Sign returns the hex HMAC-SHA256 of body, as the gateway sends it.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *PaymentService) verify(body []byte, signature string) bool {
	if len(s.Secret) == 0 {
		return false
	}
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, s.Secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// HandleWebhook applies a signed gateway event. Replaying an event changes
// nothing. Events for unknown orders are acknowledged.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	l := logging.FromContext(ctx).With("component", "payment_webhook")

	if !s.verify(body, signature) {
		l.Warn("payment_webhook_rejected", "reason", "signature mismatch", "bytes", len(body))
		return fmt.Errorf("%w: invalid webhook signature", domain.ErrUnauthorized)
	}

	var ev transport.PaymentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return domain.FieldErrors{"body": "Invalid webhook payload"}
	}
	if ev.Event != EventPaymentCaptured {
		l.Info("payment_webhook_ignored", "event", ev.Event)
		return nil
	}

	entity := ev.Payload.Payment.Entity
	externalID := entity.Notes["orderId"]
	if externalID == "" {
		l.Warn("payment_webhook_ignored", "event", ev.Event, "reason", "missing order reference", "payment_id", entity.ID)
		return nil
	}

	var (
		order   *models.Order
		changed bool
	)
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		o, err := tx.GetOrderByExternalIDForUpdate(ctx, externalID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if o.PaymentStatus != domain.PaymentPaid {
			updates["payment_status"] = domain.PaymentPaid
		}
		if entity.ID != "" && o.PaymentID != entity.ID {
			updates["payment_id"] = entity.ID
		}
		if o.OrderStatus == domain.OrderPending {
			updates["order_status"] = domain.OrderConfirmed
		}
		if len(updates) == 0 {
			order = o
			return nil
		}

		order, err = tx.UpdateOrder(ctx, o.ID, updates)
		changed = err == nil
		return err
	})
	if err != nil {
		if repo.IsNotFound(err) {
			l.Warn("payment_webhook_ignored", "reason", "unknown order", "order_ref", externalID, "payment_id", entity.ID)
			return nil
		}
		return err
	}

	if !changed {
		l.Info("payment_webhook_duplicate", "order_id", order.ID, "payment_id", entity.ID)
		return nil
	}

	publish(ctx, s.Events, s.OrdersTopic, order.ID.String(), map[string]any{
		"type":        "order_paid",
		"orderId":     order.ID.String(),
		"userId":      order.UserID.String(),
		"paymentId":   order.PaymentID,
		"orderStatus": string(order.OrderStatus),
	})
	l.Info("payment_captured", "order_id", order.ID, "payment_id", order.PaymentID, "order_status", order.OrderStatus)
	return nil
}
