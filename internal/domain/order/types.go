package order

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusCreated   Status = "created"
	StatusPaid      Status = "paid"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func IsValidStatus(s string) bool {
	switch Status(s) {
	case StatusCreated, StatusPaid, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type PaymentMethod string

const (
	MethodCard   PaymentMethod = "card"
	MethodWallet PaymentMethod = "wallet"
	MethodCOD    PaymentMethod = "cod"
)

func IsValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case MethodCard, MethodWallet, MethodCOD:
		return true
	}
	return false
}

// PaymentStatusSucceeded is the gateway status sentinel; anything else
// aborts the paid transition.
const PaymentStatusSucceeded = "succeeded"

// PaymentResult is the reconciliation sub-record returned by a gateway
// capture.
type PaymentResult struct {
	ProviderTxID   string
	Status         string
	AmountCaptured float64
}

// LineItem snapshots the catalog state at order time. StockAtOrder is
// informational; inventory itself only changes at delivery.
type LineItem struct {
	ProductID    uuid.UUID
	Name         string
	Variant      string
	Quantity     int
	UnitPrice    float64
	StockAtOrder int
}

// Address is the shipping snapshot frozen into the order.
type Address struct {
	FullName   string
	Street     string
	City       string
	PostalCode string
	Country    string
}

func (a Address) IsZero() bool {
	return a == Address{}
}

type Timestamps struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	PaidAt      *time.Time
	DeliveredAt *time.Time
}
