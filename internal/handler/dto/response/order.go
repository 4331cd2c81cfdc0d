package response

import (
	"time"

	"storefront/internal/domain/order"

	"github.com/google/uuid"
)

type OrderItemResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Variant   string    `json:"variant,omitempty"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

type AddressResponse struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentResultResponse struct {
	ProviderTxID   string  `json:"providerTxId"`
	Status         string  `json:"status"`
	AmountCaptured float64 `json:"amountCaptured"`
}

type OrderResponse struct {
	ID                uuid.UUID              `json:"id"`
	UserID            uuid.UUID              `json:"userId"`
	Items             []OrderItemResponse    `json:"items"`
	Address           AddressResponse        `json:"address"`
	PaymentMethod     string                 `json:"paymentMethod"`
	CouponCode        *string                `json:"couponCode,omitempty"`
	DiscountAmount    float64                `json:"discountAmount"`
	ItemsPrice        float64                `json:"itemsPrice"`
	ShippingPrice     float64                `json:"shippingPrice"`
	TaxPrice          float64                `json:"taxPrice"`
	TotalPrice        float64                `json:"totalPrice"`
	DeliveryDateIndex int                    `json:"deliveryDateIndex"`
	Status            string                 `json:"status"`
	PaymentResult     *PaymentResultResponse `json:"paymentResult,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	PaidAt            *time.Time             `json:"paidAt,omitempty"`
	DeliveredAt       *time.Time             `json:"deliveredAt,omitempty"`
}

type PayOrderResponse struct {
	Order    *OrderResponse `json:"order"`
	Replayed bool           `json:"replayed"`
}

func FromOrder(o *order.Order) *OrderResponse {
	items := make([]OrderItemResponse, len(o.Items()))
	for i, it := range o.Items() {
		items[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	addr := o.Address()
	quote := o.Quote()
	ts := o.Timestamps()

	resp := &OrderResponse{
		ID:     o.ID(),
		UserID: o.UserID(),
		Items:  items,
		Address: AddressResponse{
			FullName:   addr.FullName,
			Street:     addr.Street,
			City:       addr.City,
			PostalCode: addr.PostalCode,
			Country:    addr.Country,
		},
		PaymentMethod:     string(o.PaymentMethod()),
		CouponCode:        o.CouponCode(),
		DiscountAmount:    o.DiscountAmount(),
		ItemsPrice:        quote.ItemsPrice,
		ShippingPrice:     quote.ShippingPrice,
		TaxPrice:          quote.TaxPrice,
		TotalPrice:        quote.TotalPrice,
		DeliveryDateIndex: quote.DeliveryDateIndex,
		Status:            string(o.Status()),
		CreatedAt:         ts.CreatedAt,
		PaidAt:            ts.PaidAt,
		DeliveredAt:       ts.DeliveredAt,
	}
	if pr := o.PaymentResult(); pr != nil {
		resp.PaymentResult = &PaymentResultResponse{
			ProviderTxID:   pr.ProviderTxID,
			Status:         pr.Status,
			AmountCaptured: pr.AmountCaptured,
		}
	}
	return resp
}

func FromOrders(orders []*order.Order) []*OrderResponse {
	out := make([]*OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = FromOrder(o)
	}
	return out
}
