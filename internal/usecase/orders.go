package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain/coupon"
	"storefront/internal/domain/order"
	"storefront/internal/domain/pricing"
	"storefront/internal/infra"
	"storefront/internal/pkg/clock"
	"storefront/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound        = errs.New("order not found")
	ErrOrderForbidden       = errs.New("order belongs to another user")
	ErrProductNotFound      = errs.New("product not found")
	ErrProductOutOfStock    = errs.New("product is out of stock")
	ErrEmptyCart            = errs.New("cart has no items")
	ErrInvalidOrderInput    = errs.New("invalid order input")
	ErrPaymentFailed        = errs.New("payment capture failed")
	ErrOrderNotDeliverable  = errs.New("order is not in a deliverable state")
	ErrInsufficientStock    = errs.New("insufficient stock at delivery")
	ErrCouponAlreadyApplied = errs.New("coupon usage limit reached")
)

type CreateOrderItem struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateOrderInput struct {
	Items         []CreateOrderItem
	Address       order.Address
	PaymentMethod order.PaymentMethod
	CouponCode    *string
	DeliveryIndex int
}

type PayOrderResult struct {
	Order *order.Order
	// Replayed is true when the order was already paid and nothing ran.
	Replayed bool
}

type OrderCommands interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*order.Order, error)
	Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*order.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error)
	// Pay captures the order total on the order's payment channel and
	// runs the settlement fan-out exactly once per order.
	Pay(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*PayOrderResult, error)
	// Deliver transitions paid→delivered and applies inventory effects
	// in the same transaction; an inventory failure cancels the whole
	// transition.
	Deliver(ctx context.Context, orderID uuid.UUID) (*order.Order, error)
}

type orderUseCaseImpl struct {
	uow        UnitOfWork
	gateways   GatewayResolver
	settlement *SettlementService
	pricing    *pricing.Engine
	clock      clock.Clock
}

func NewOrderUseCase(
	uow UnitOfWork,
	gateways GatewayResolver,
	settlement *SettlementService,
	pricingEngine *pricing.Engine,
	clock clock.Clock,
) OrderCommands {
	return &orderUseCaseImpl{
		uow:        uow,
		gateways:   gateways,
		settlement: settlement,
		pricing:    pricingEngine,
		clock:      clock,
	}
}

func (u *orderUseCaseImpl) Create(ctx context.Context, userID uuid.UUID, in CreateOrderInput) (*order.Order, error) {
	if len(in.Items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return nil, errs.Wrap(ErrInvalidOrderInput, "quantity must be positive")
		}
	}
	if !order.IsValidPaymentMethod(string(in.PaymentMethod)) {
		return nil, errs.Wrap(ErrInvalidOrderInput, "unknown payment method")
	}

	now := u.clock.Now()

	var created *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		items, err := u.buildLineItems(ctx, tx, in.Items)
		if err != nil {
			return err
		}

		priceItems := make([]pricing.LineItem, len(items))
		for i, it := range items {
			priceItems[i] = pricing.LineItem{UnitPrice: it.UnitPrice, Quantity: it.Quantity}
		}

		var appliedCoupon *coupon.Coupon
		var discount float64
		if in.CouponCode != nil {
			quote, err := u.pricing.Compute(priceItems, in.DeliveryIndex, 0, !in.Address.IsZero())
			if err != nil {
				return errs.Wrap(err, "failed to price cart")
			}
			appliedCoupon, discount, err = u.resolveCoupon(ctx, tx, *in.CouponCode, quote.ItemsPrice, now)
			if err != nil {
				return err
			}
		}

		quote, err := u.pricing.Compute(priceItems, in.DeliveryIndex, discount, !in.Address.IsZero())
		if err != nil {
			return errs.Wrap(err, "failed to price cart")
		}
		if !quote.Final {
			return errs.Wrap(ErrInvalidOrderInput, "shipping address is required")
		}

		created, err = order.NewOrder(userID, items, in.Address, in.PaymentMethod, in.CouponCode, discount, quote, now)
		if err != nil {
			return err
		}

		if err := tx.Orders().Create(ctx, created); err != nil {
			return err
		}

		if appliedCoupon != nil {
			applied, err := tx.Coupons().ApplyToOrder(ctx, appliedCoupon.ID(), created.ID())
			if err != nil {
				if infra.IsKind(err, infra.KindConstraintViolated) {
					return errs.Mark(err, ErrCouponAlreadyApplied)
				}
				return err
			}
			if !applied {
				// A fresh order ID can never have an existing redemption
				// row, so this branch is unreachable in practice.
				return errs.New("coupon redemption conflict for new order")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (u *orderUseCaseImpl) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*order.Order, error) {
	o, err := u.uow.Direct().Orders().FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrOrderNotFound)
		}
		return nil, err
	}
	if !isAdmin && o.UserID() != userID {
		return nil, ErrOrderForbidden
	}
	return o, nil
}

func (u *orderUseCaseImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	return u.uow.Direct().Orders().ListByUser(ctx, userID)
}

func (u *orderUseCaseImpl) Pay(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*PayOrderResult, error) {
	o, err := u.uow.Direct().Orders().FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrOrderNotFound)
		}
		return nil, err
	}
	if o.UserID() != userID {
		return nil, ErrOrderForbidden
	}
	if o.IsPaid() || o.IsDelivered() {
		return &PayOrderResult{Order: o, Replayed: true}, nil
	}

	gw, err := u.gateways.Resolve(o.PaymentMethod())
	if err != nil {
		return nil, err
	}
	result, err := gw.Capture(ctx, o)
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentFailed)
	}

	now := u.clock.Now()
	var settled bool
	err = u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		// Re-read inside the transaction; the pre-check above only
		// short-circuits the gateway call.
		o, err = tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := o.MarkPaid(result, now); err != nil {
			if errors.Is(err, order.ErrAlreadyPaid) {
				return nil
			}
			return err
		}

		won, err := tx.Orders().TransitionToPaid(ctx, o)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}

		settled, err = tx.SettlementEvents().TryInsert(ctx, o.ID(), EventOrderPaid)
		return err
	})
	if err != nil {
		return nil, err
	}

	if settled {
		u.settlement.SettlePaid(ctx, o)
	}
	return &PayOrderResult{Order: o, Replayed: !settled}, nil
}

func (u *orderUseCaseImpl) Deliver(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	now := u.clock.Now()

	var delivered *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx Tx) error {
		o, err := tx.Orders().FindByID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return err
		}
		delivered = o

		if err := o.MarkDelivered(now); err != nil {
			if errors.Is(err, order.ErrAlreadyDelivered) {
				return nil
			}
			return errs.Mark(err, ErrOrderNotDeliverable)
		}

		won, err := tx.Orders().TransitionToDelivered(ctx, o)
		if err != nil {
			return err
		}
		if !won {
			return nil
		}

		ran, err := tx.SettlementEvents().TryInsert(ctx, o.ID(), EventOrderDelivered)
		if err != nil {
			return err
		}
		if !ran {
			return nil
		}

		// Inventory moves with the delivery transition; a stock failure
		// rolls the transition back rather than delivering phantom goods.
		for _, item := range o.Items() {
			if err := tx.Products().DeductStock(ctx, item.ProductID, item.Quantity); err != nil {
				if infra.IsKind(err, infra.KindConstraintViolated) {
					return errs.Mark(err, ErrInsufficientStock)
				}
				return err
			}
			if err := tx.FlashSales().IncrementSold(ctx, item.ProductID, item.Quantity, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return delivered, nil
}

func (u *orderUseCaseImpl) buildLineItems(ctx context.Context, tx Tx, in []CreateOrderItem) ([]order.LineItem, error) {
	ids := make([]uuid.UUID, len(in))
	for i, it := range in {
		ids[i] = it.ProductID
	}

	snapshots, err := tx.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]ProductSnapshot, len(snapshots))
	for _, s := range snapshots {
		byID[s.ID] = s
	}

	items := make([]order.LineItem, 0, len(in))
	for _, it := range in {
		s, ok := byID[it.ProductID]
		if !ok {
			return nil, errs.Wrap(ErrProductNotFound, it.ProductID.String())
		}
		if s.CountInStock < it.Quantity {
			return nil, errs.Wrap(ErrProductOutOfStock, fmt.Sprintf("%s: %d in stock", s.Name, s.CountInStock))
		}
		items = append(items, order.LineItem{
			ProductID:    s.ID,
			Name:         s.Name,
			Variant:      s.Variant,
			Quantity:     it.Quantity,
			UnitPrice:    s.Price,
			StockAtOrder: s.CountInStock,
		})
	}
	return items, nil
}

func (u *orderUseCaseImpl) resolveCoupon(ctx context.Context, tx Tx, code string, itemsPrice float64, now time.Time) (*coupon.Coupon, float64, error) {
	c, err := tx.Coupons().FindByCode(ctx, code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, 0, errs.Mark(err, ErrCouponNotFound)
		}
		return nil, 0, err
	}
	if err := c.ValidateUsage(now); err != nil {
		switch {
		case errors.Is(err, coupon.ErrCouponExpired):
			return nil, 0, errs.Mark(err, ErrCouponExpired)
		case errors.Is(err, coupon.ErrCouponExhausted):
			return nil, 0, errs.Mark(err, ErrCouponExhausted)
		}
		return nil, 0, err
	}
	return c, c.DiscountAmount(itemsPrice), nil
}
