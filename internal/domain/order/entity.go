package order

import (
	"errors"
	"time"

	"storefront/internal/domain/pricing"
	"storefront/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrNoLineItems           = errors.New("order has no line items")
	ErrQuoteNotFinal         = errors.New("order price is not finalized")
	ErrPriceInvariantBroken  = errors.New("order total does not match its breakdown")
	ErrOrderNotFound         = errors.New("order not found")
	ErrAlreadyPaid           = errors.New("order is already paid")
	ErrAlreadyDelivered      = errors.New("order is already delivered")
	ErrInvalidTransition     = errors.New("invalid order status transition")
	ErrPaymentNotSucceeded   = errors.New("payment capture did not succeed")
	ErrCaptureAmountMismatch = errors.New("captured amount does not match order total")
)

// Order is the settlement pipeline's central aggregate. It is created
// once at checkout and, on the happy path, mutated exactly twice: paid
// then delivered. Transitions follow a strict state machine; anything
// else is rejected.
type Order struct {
	id             uuid.UUID
	userID         uuid.UUID
	items          []LineItem
	address        Address
	paymentMethod  PaymentMethod
	couponCode     *string
	discountAmount float64
	quote          pricing.Quote
	status         Status
	paymentResult  *PaymentResult
	timestamps     Timestamps
}

func NewOrder(
	userID uuid.UUID,
	items []LineItem,
	address Address,
	paymentMethod PaymentMethod,
	couponCode *string,
	discountAmount float64,
	quote pricing.Quote,
	now time.Time,
) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrNoLineItems
	}
	if !quote.Final {
		return nil, ErrQuoteNotFinal
	}

	discounted := quote.ItemsPrice - discountAmount
	if discounted < 0 {
		discounted = 0
	}
	want := money.Round2(discounted + quote.ShippingPrice + quote.TaxPrice)
	if quote.TotalPrice != want {
		return nil, ErrPriceInvariantBroken
	}

	return &Order{
		id:             uuid.New(),
		userID:         userID,
		items:          items,
		address:        address,
		paymentMethod:  paymentMethod,
		couponCode:     couponCode,
		discountAmount: discountAmount,
		quote:          quote,
		status:         StatusCreated,
		timestamps:     Timestamps{CreatedAt: now, UpdatedAt: now},
	}, nil
}

func ReconstructOrder(
	id, userID uuid.UUID,
	items []LineItem,
	address Address,
	paymentMethod PaymentMethod,
	couponCode *string,
	discountAmount float64,
	quote pricing.Quote,
	status Status,
	paymentResult *PaymentResult,
	timestamps Timestamps,
) *Order {
	return &Order{
		id:             id,
		userID:         userID,
		items:          items,
		address:        address,
		paymentMethod:  paymentMethod,
		couponCode:     couponCode,
		discountAmount: discountAmount,
		quote:          quote,
		status:         status,
		paymentResult:  paymentResult,
		timestamps:     timestamps,
	}
}

// MarkPaid reconciles a gateway capture against the server-side total and
// transitions created→paid. The captured amount is compared against the
// order's own recomputed total, never a client-submitted figure.
func (o *Order) MarkPaid(result PaymentResult, now time.Time) error {
	switch o.status {
	case StatusPaid, StatusDelivered:
		return ErrAlreadyPaid
	case StatusCancelled:
		return ErrInvalidTransition
	}

	if result.Status != PaymentStatusSucceeded {
		return ErrPaymentNotSucceeded
	}
	if money.Round2(result.AmountCaptured) != o.quote.TotalPrice {
		return ErrCaptureAmountMismatch
	}

	o.status = StatusPaid
	o.paymentResult = &result
	o.timestamps.PaidAt = &now
	o.timestamps.UpdatedAt = now
	return nil
}

// MarkDelivered transitions paid→delivered. Inventory is deliberately
// deferred to this transition so unpaid orders never reserve stock.
func (o *Order) MarkDelivered(now time.Time) error {
	switch o.status {
	case StatusDelivered:
		return ErrAlreadyDelivered
	case StatusPaid:
	default:
		return ErrInvalidTransition
	}

	o.status = StatusDelivered
	o.timestamps.DeliveredAt = &now
	o.timestamps.UpdatedAt = now
	return nil
}

// Cancel is only possible before payment.
func (o *Order) Cancel(now time.Time) error {
	if o.status != StatusCreated {
		return ErrInvalidTransition
	}
	o.status = StatusCancelled
	o.timestamps.UpdatedAt = now
	return nil
}

func (o *Order) IsPaid() bool {
	return o.status == StatusPaid || o.status == StatusDelivered
}

func (o *Order) IsDelivered() bool {
	return o.status == StatusDelivered
}

func (o *Order) ID() uuid.UUID                  { return o.id }
func (o *Order) UserID() uuid.UUID              { return o.userID }
func (o *Order) Items() []LineItem              { return o.items }
func (o *Order) Address() Address               { return o.address }
func (o *Order) PaymentMethod() PaymentMethod   { return o.paymentMethod }
func (o *Order) CouponCode() *string            { return o.couponCode }
func (o *Order) DiscountAmount() float64        { return o.discountAmount }
func (o *Order) Quote() pricing.Quote           { return o.quote }
func (o *Order) TotalPrice() float64            { return o.quote.TotalPrice }
func (o *Order) Status() Status                 { return o.status }
func (o *Order) PaymentResult() *PaymentResult  { return o.paymentResult }
func (o *Order) Timestamps() Timestamps         { return o.timestamps }
