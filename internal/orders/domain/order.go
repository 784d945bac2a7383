package domain

import (
	"fmt"
	"time"
)

// ErrPaymentAlreadyVerified is returned when payment approval arrives for an
// order whose payment was already verified.
var ErrPaymentAlreadyVerified = &ValidationError{msg: "payment has already been verified for this order"}

// Payment carries the fields reported by the payment collaborator webhook.
type Payment struct {
	TransactionID  string
	ApprovalStatus bool
	Date           *time.Time
	Message        string
}

// Order is the aggregate root: it owns its items and enforces the status
// lifecycle and payment rules. Item snapshots are frozen at creation time.
type Order struct {
	InternalID           int64
	CustomerID           int64
	Items                []*OrderItem
	Value                Money
	Status               Status
	StartDate            *time.Time
	EndDate              *time.Time
	HasPaymentVerified   bool
	PaymentDate          *time.Time
	PaymentTransactionID string
	PaymentMessage       string
	DisplayID            string
}

// NewOrder builds a fresh order in RECEBIDO and computes its aggregate value.
func NewOrder(customerID int64, items []*OrderItem) (*Order, error) {
	order := &Order{
		CustomerID: customerID,
		Items:      items,
		Status:     StatusRecebido,
	}
	if err := order.validate(false); err != nil {
		return nil, err
	}
	order.CalculateValue()
	return order, nil
}

// OrderSnapshot carries every persisted field for rehydration.
type OrderSnapshot struct {
	InternalID           int64
	CustomerID           int64
	Items                []*OrderItem
	Value                Money
	Status               Status
	StartDate            *time.Time
	EndDate              *time.Time
	HasPaymentVerified   bool
	PaymentDate          *time.Time
	PaymentTransactionID string
	PaymentMessage       string
	DisplayID            string
}

// RehydrateOrder restores a persisted order. The active-product check is
// skipped so orders referencing since-deactivated products still load.
func RehydrateOrder(snap OrderSnapshot) (*Order, error) {
	order := &Order{
		InternalID:           snap.InternalID,
		CustomerID:           snap.CustomerID,
		Items:                snap.Items,
		Value:                snap.Value,
		Status:               snap.Status,
		StartDate:            snap.StartDate,
		EndDate:              snap.EndDate,
		HasPaymentVerified:   snap.HasPaymentVerified,
		PaymentDate:          snap.PaymentDate,
		PaymentTransactionID: snap.PaymentTransactionID,
		PaymentMessage:       snap.PaymentMessage,
		DisplayID:            snap.DisplayID,
	}
	if err := order.validate(true); err != nil {
		return nil, err
	}
	if order.Status == "" {
		order.Status = StatusRecebido
	}
	if order.Value.Zero() {
		order.CalculateValue()
	}
	order.SetDisplayID()
	return order, nil
}

func (o *Order) validate(skipActiveCheck bool) error {
	if o.CustomerID == 0 {
		return validationErrorf("order must have a customer internal ID")
	}
	if len(o.Items) == 0 {
		return validationErrorf("order must have at least one item")
	}
	if !skipActiveCheck {
		for _, item := range o.Items {
			if item.Product == nil || !item.Product.IsActive {
				return validationErrorf("order items must have active products")
			}
		}
	}
	if !o.Value.Zero() && o.Value.Amount().Sign() <= 0 {
		return validationErrorf("order value must be positive")
	}
	return nil
}

// CalculateValue recomputes the aggregate value from the item prices. It is
// never triggered automatically after item mutation; callers must invoke it.
func (o *Order) CalculateValue() {
	total := Money{}
	for _, item := range o.Items {
		total = total.Add(item.Price)
	}
	o.Value = total
}

// SetDisplayID derives the human-facing 3-digit order number once the
// internal identifier is known.
func (o *Order) SetDisplayID() string {
	if o.InternalID > 0 && o.DisplayID == "" {
		o.DisplayID = DisplayID(o.InternalID)
	}
	return o.DisplayID
}

// DisplayID zero-pads the internal identifier to three digits and keeps the
// first three characters.
func DisplayID(internalID int64) string {
	padded := fmt.Sprintf("%03d", internalID)
	return padded[:3]
}

// SetStartDate stamps the order start time.
func (o *Order) SetStartDate() {
	now := time.Now().UTC()
	o.StartDate = &now
}

// SetEndDate stamps the order end time.
func (o *Order) SetEndDate() {
	now := time.Now().UTC()
	o.EndDate = &now
}

// NextStatus advances along RECEBIDO -> EM_PREPARACAO -> PRONTO -> FINALIZADO.
// No-op at FINALIZADO and for statuses outside the chain.
func (o *Order) NextStatus() {
	if next, ok := o.Status.Next(); ok {
		o.Status = next
	}
}

// PreviousStatus steps backwards along the same chain; no-op at RECEBIDO.
func (o *Order) PreviousStatus() {
	if prev, ok := o.Status.Previous(); ok {
		o.Status = prev
	}
}

// ProcessPayment records the payment outcome. Approval moves the order to
// EM_PREPARACAO and marks it verified; approving twice is an error.
// Rejection cancels the order.
func (o *Order) ProcessPayment(payment Payment) error {
	o.PaymentTransactionID = payment.TransactionID
	o.PaymentDate = payment.Date
	o.PaymentMessage = payment.Message

	if !payment.ApprovalStatus {
		o.HasPaymentVerified = false
		o.Status = StatusCancelado
		return nil
	}

	if o.HasPaymentVerified {
		return ErrPaymentAlreadyVerified
	}
	o.HasPaymentVerified = true
	o.Status = StatusEmPreparacao
	return nil
}

// CanBeCancelled allows cancellation only before preparation completes.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusRecebido || o.Status == StatusEmPreparacao
}

// CanBeFinalized is true only when the order is ready for pickup.
func (o *Order) CanBeFinalized() bool {
	return o.Status == StatusPronto
}

// TotalItems returns the number of order lines.
func (o *Order) TotalItems() int {
	return len(o.Items)
}
