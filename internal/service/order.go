package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/phone_market/internal/domain"
	"github.com/Skotchmaster/phone_market/internal/models"
	"github.com/Skotchmaster/phone_market/internal/repo"
	"github.com/Skotchmaster/phone_market/internal/transport"
	"github.com/Skotchmaster/phone_market/internal/util"
	"github.com/Skotchmaster/phone_market/pkg/events"
	"github.com/Skotchmaster/phone_market/pkg/logging"
)

type OrderService struct {
	Repo        *repo.GormRepo
	Events      events.Publisher
	OrdersTopic string
	Now         func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

type checkoutLine struct {
	productID uuid.UUID
	quantity  int
}

// mergeLines folds repeated products into one line, keeping first-seen order.
func mergeLines(items []transport.OrderLine) ([]checkoutLine, error) {
	lines := make([]checkoutLine, 0, len(items))
	index := make(map[uuid.UUID]int, len(items))
	fe := domain.FieldErrors{}
	for i, it := range items {
		id, err := uuid.Parse(it.Product)
		if err != nil {
			fe.Add(fmt.Sprintf("items[%d].product", i), "Valid product ID is required")
			continue
		}
		if it.Quantity < 1 || it.Quantity > domain.MaxCartQuantity {
			fe.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("quantity must be between 1 and %d", domain.MaxCartQuantity))
			continue
		}
		if j, ok := index[id]; ok {
			if lines[j].quantity+it.Quantity > domain.MaxCartQuantity {
				fe.Add(fmt.Sprintf("items[%d].quantity", i), fmt.Sprintf("at most %d of one product per order", domain.MaxCartQuantity))
				continue
			}
			lines[j].quantity += it.Quantity
			continue
		}
		index[id] = len(lines)
		lines = append(lines, checkoutLine{productID: id, quantity: it.Quantity})
	}
	if err := fe.Err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.FieldErrors{"items": "Order must contain at least one item"}
	}
	return lines, nil
}

// Create checks out the given lines. Stock for every line is reserved in the
// same transaction that stores the order, so either all of it is taken or none.
func (s *OrderService) Create(ctx context.Context, actor domain.Actor, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	method, ok := domain.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, domain.FieldErrors{"paymentMethod": "paymentMethod must be one of: cod, gateway, razorpay"}
	}
	lines, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.productID)
	}
	products, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(lines))
	var subtotal int64
	for i, l := range lines {
		p, ok := products[l.productID]
		if !ok || !p.Visible() {
			return nil, fmt.Errorf("%w: product %s is not available", domain.ErrUnavailable, l.productID)
		}
		if p.Stock < l.quantity {
			return nil, fmt.Errorf("%w: only %d of %s left", domain.ErrInsufficientStock, p.Stock, p.Name)
		}
		items = append(items, models.OrderItem{
			Position:  i,
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.quantity,
			Image:     p.FirstImage(),
		})
		subtotal += p.Price * int64(l.quantity)
	}

	summary := domain.Price(subtotal)
	addr := req.ShippingAddress
	order := &models.Order{
		UserID:      actor.UserID,
		Items:       items,
		Subtotal:    summary.Subtotal,
		Tax:         summary.Tax,
		Shipping:    summary.Shipping,
		TotalAmount: summary.Total,
		ShippingAddress: models.ShippingAddress{
			Name:    strings.TrimSpace(addr.Name),
			Phone:   strings.ReplaceAll(addr.Phone, " ", ""),
			Street:  strings.TrimSpace(addr.Street),
			City:    strings.TrimSpace(addr.City),
			State:   strings.TrimSpace(addr.State),
			ZipCode: strings.TrimSpace(addr.ZipCode),
		},
		PaymentMethod: method,
		PaymentStatus: method.InitialPaymentStatus(),
		OrderStatus:   domain.OrderPending,
		Notes:         req.Notes,
	}
	if method == domain.PaymentGateway {
		ext := newExternalID()
		order.ExternalID = &ext
	}

	if err := s.Repo.CreateOrderWithReservation(ctx, order); err != nil {
		if errors.Is(err, repo.ErrStockConflict) {
			return nil, fmt.Errorf("%w: stock changed during checkout", domain.ErrInsufficientStock)
		}
		return nil, err
	}

	l := logging.FromContext(ctx)
	if err := s.Repo.ClearCart(ctx, actor.UserID); err != nil {
		l.Warn("clear_cart_error", "order_id", order.ID, "error", err)
	}
	publish(ctx, s.Events, s.OrdersTopic, order.ID.String(), map[string]any{
		"type":          "order_created",
		"orderId":       order.ID.String(),
		"userId":        actor.UserID.String(),
		"totalAmount":   order.TotalAmount,
		"paymentMethod": string(order.PaymentMethod),
		"items":         len(order.Items),
	})
	l.Info("order_created", "order_id", order.ID, "total", order.TotalAmount)
	return order, nil
}

func newExternalID() string {
	return "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Cancel returns the order's stock. Only the buyer may cancel, and only
// before processing starts.
func (s *OrderService) Cancel(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Order, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.UserID != actor.UserID {
		return nil, fmt.Errorf("%w: not your order", domain.ErrForbidden)
	}
	if !domain.CanTransition(o.OrderStatus, domain.OrderCancelled) {
		return nil, fmt.Errorf("%w: order cannot be cancelled at %s stage", domain.ErrInvalidTransition, o.OrderStatus)
	}

	cancelled, err := s.Repo.CancelOrder(ctx, id, domain.CancellableStatuses())
	if err != nil {
		if errors.Is(err, repo.ErrStatusChanged) {
			return nil, fmt.Errorf("%w: order status changed, retry", domain.ErrInvalidTransition)
		}
		return nil, err
	}

	publish(ctx, s.Events, s.OrdersTopic, id.String(), map[string]any{
		"type":    "order_cancelled",
		"orderId": id.String(),
		"userId":  actor.UserID.String(),
		"from":    string(o.OrderStatus),
	})
	return cancelled, nil
}

// UpdateStatus is the admin override. Any known status may be set.
func (s *OrderService) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	status := domain.OrderStatus(req.OrderStatus)
	if !status.Valid() {
		return nil, domain.FieldErrors{"orderStatus": "Invalid order status"}
	}

	updates := map[string]any{"order_status": status}
	if t := strings.TrimSpace(req.TrackingNumber); t != "" {
		updates["tracking_number"] = t
	}
	if n := strings.TrimSpace(req.Notes); n != "" {
		updates["notes"] = n
	}
	if status == domain.OrderShipped {
		updates["estimated_delivery"] = domain.EstimatedDelivery(s.now())
	}

	o, err := s.Repo.UpdateOrder(ctx, id, updates)
	if err != nil {
		return nil, notFound(err, "order")
	}

	publish(ctx, s.Events, s.OrdersTopic, id.String(), map[string]any{
		"type":        "order_status_updated",
		"orderId":     id.String(),
		"userId":      o.UserID.String(),
		"orderStatus": string(status),
	})
	return o, nil
}

// List returns the caller's orders, or every order for an admin.
func (s *OrderService) List(ctx context.Context, actor domain.Actor, q transport.OrderQuery) ([]models.Order, util.Pagination, error) {
	if err := requireUser(actor); err != nil {
		return nil, util.Pagination{}, err
	}
	from, limit := util.Calculate(q.Page, q.Limit)
	f := repo.OrderFilter{
		Status:        domain.OrderStatus(q.Status),
		PaymentStatus: domain.PaymentStatus(q.PaymentStatus),
		Offset:        from,
		Limit:         limit,
	}
	if !actor.IsAdmin() {
		owner := actor.UserID
		f.UserID = &owner
	}

	orders, total, err := s.Repo.ListOrders(ctx, f)
	if err != nil {
		return nil, util.Pagination{}, err
	}
	return orders, util.NewPagination(q.Page, q.Limit, total), nil
}

func (s *OrderService) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*models.Order, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if o.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: not your order", domain.ErrForbidden)
	}
	return o, nil
}
