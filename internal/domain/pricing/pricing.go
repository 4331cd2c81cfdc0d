package pricing

import (
	"errors"

	"storefront/internal/pkg/money"
)

var (
	ErrUnknownDeliveryOption = errors.New("unknown delivery option")
	ErrEmptyCart             = errors.New("cart has no items")
	ErrNegativeDiscount      = errors.New("discount cannot be negative")
)

// TaxRate is the flat tax applied to the item subtotal. Shipping is not taxed.
const TaxRate = 0.15

type LineItem struct {
	UnitPrice float64
	Quantity  int
}

// DeliveryOption is a selectable delivery speed. ShippingPrice is waived
// once the item subtotal reaches FreeShippingMin.
type DeliveryOption struct {
	Index           int
	Name            string
	DaysToDeliver   int
	ShippingPrice   float64
	FreeShippingMin float64
}

// Quote is the price breakdown for a cart. When no shipping address is
// known yet, Final is false and only ItemsPrice is meaningful: shipping
// and tax cannot be computed without a destination.
type Quote struct {
	ItemsPrice        float64
	ShippingPrice     float64
	TaxPrice          float64
	TotalPrice        float64
	DeliveryDateIndex int
	Final             bool
}

type Engine struct {
	options []DeliveryOption
}

func NewEngine(options []DeliveryOption) *Engine {
	return &Engine{options: options}
}

// DefaultOptions is the storefront's standard delivery catalog.
func DefaultOptions() []DeliveryOption {
	return []DeliveryOption{
		{Index: 0, Name: "next-day", DaysToDeliver: 1, ShippingPrice: 25, FreeShippingMin: 200},
		{Index: 1, Name: "standard", DaysToDeliver: 3, ShippingPrice: 10, FreeShippingMin: 100},
		{Index: 2, Name: "economy", DaysToDeliver: 5, ShippingPrice: 5, FreeShippingMin: 50},
	}
}

func (e *Engine) Option(index int) (DeliveryOption, error) {
	for _, opt := range e.options {
		if opt.Index == index {
			return opt, nil
		}
	}
	return DeliveryOption{}, ErrUnknownDeliveryOption
}

// Compute prices a cart. The discount is subtracted from the item subtotal
// before totaling and floored at zero; shipping and tax are never
// discounted. Each sub-amount is rounded on its own so the invariant
// total = round2(max(0, items-discount) + shipping + tax) holds exactly.
func (e *Engine) Compute(items []LineItem, deliveryIndex int, discount float64, hasAddress bool) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}
	if discount < 0 {
		return Quote{}, ErrNegativeDiscount
	}

	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	itemsPrice := money.Round2(sum)

	if !hasAddress {
		return Quote{
			ItemsPrice:        itemsPrice,
			DeliveryDateIndex: deliveryIndex,
			Final:             false,
		}, nil
	}

	opt, err := e.Option(deliveryIndex)
	if err != nil {
		return Quote{}, err
	}

	shippingPrice := opt.ShippingPrice
	if itemsPrice >= opt.FreeShippingMin {
		shippingPrice = 0
	}

	taxPrice := money.Round2(itemsPrice * TaxRate)

	discounted := itemsPrice - discount
	if discounted < 0 {
		discounted = 0
	}
	totalPrice := money.Round2(discounted + shippingPrice + taxPrice)

	return Quote{
		ItemsPrice:        itemsPrice,
		ShippingPrice:     shippingPrice,
		TaxPrice:          taxPrice,
		TotalPrice:        totalPrice,
		DeliveryDateIndex: deliveryIndex,
		Final:             true,
	}, nil
}
