package request

import (
	"strings"

	"storefront/internal/domain/order"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

type AddressRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Address       AddressRequest     `json:"address" binding:"required"`
	PaymentMethod string             `json:"payment_method" binding:"required"`
	CouponCode    *string            `json:"coupon_code,omitempty"`
	DeliveryIndex int                `json:"delivery_index"`
}

func (r CreateOrderRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*r.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (r CreateOrderRequest) ToInput() (usecase.CreateOrderInput, error) {
	items := make([]usecase.CreateOrderItem, len(r.Items))
	for i, it := range r.Items {
		items[i] = usecase.CreateOrderItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}

	var address order.Address
	if err := copier.Copy(&address, r.Address); err != nil {
		return usecase.CreateOrderInput{}, err
	}

	return usecase.CreateOrderInput{
		Items:         items,
		Address:       address,
		PaymentMethod: order.PaymentMethod(r.PaymentMethod),
		CouponCode:    r.GetCouponCode(),
		DeliveryIndex: r.DeliveryIndex,
	}, nil
}
