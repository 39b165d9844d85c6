package domain

import "time"

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderReturned   OrderStatus = "returned"
)

var orderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderReturned,
}

// transitions is the fulfilment graph buyers and the payment inbox follow.
// Admin status updates bypass it.
var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderReturned},
}

func (s OrderStatus) Valid() bool {
	for _, v := range orderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled || s == OrderReturned
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CancellableStatuses lists every state with an edge into cancelled.
func CancellableStatuses() []OrderStatus {
	var out []OrderStatus
	for _, s := range orderStatuses {
		if CanTransition(s, OrderCancelled) {
			out = append(out, s)
		}
	}
	return out
}

func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (p PaymentStatus) Valid() bool { return p == PaymentPending || p == PaymentPaid }

type PaymentMethod string

const (
	PaymentCOD     PaymentMethod = "cod"
	PaymentGateway PaymentMethod = "gateway"
)

func (m PaymentMethod) Valid() bool { return m == PaymentCOD || m == PaymentGateway }

// ParsePaymentMethod accepts the storefront's "razorpay" as a spelling of the
// gateway method.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	if s == "razorpay" {
		return PaymentGateway, true
	}
	m := PaymentMethod(s)
	return m, m.Valid()
}

// InitialPaymentStatus is optimistic for gateway payments; the payment inbox
// re-asserts it when the capture event arrives.
func (m PaymentMethod) InitialPaymentStatus() PaymentStatus {
	if m == PaymentGateway {
		return PaymentPaid
	}
	return PaymentPending
}

const DeliveryWindow = 5 * 24 * time.Hour

func EstimatedDelivery(now time.Time) time.Time { return now.Add(DeliveryWindow) }
