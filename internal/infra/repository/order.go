package repository

import (
	"context"

	"storefront/internal/domain/order"
	"storefront/internal/domain/pricing"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type OrderRepository struct {
	dbtx db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{dbtx: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	ts := o.Timestamps()
	addr := o.Address()
	q := o.Quote()

	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, status, payment_method, coupon_code, discount_amount,
			items_price, shipping_price, tax_price, total_price, delivery_index,
			addr_full_name, addr_street, addr_city, addr_postal, addr_country,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		o.ID(), o.UserID(), string(o.Status()), string(o.PaymentMethod()),
		o.CouponCode(), o.DiscountAmount(),
		q.ItemsPrice, q.ShippingPrice, q.TaxPrice, q.TotalPrice, q.DeliveryDateIndex,
		addr.FullName, addr.Street, addr.City, addr.PostalCode, addr.Country,
		ts.CreatedAt, ts.UpdatedAt,
	)
	if err != nil {
		if isPgCode(err, pgErrFKViolation) {
			return infra.WrapRepoErr("order references unknown user or product", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to insert order", err)
	}

	for _, it := range o.Items() {
		_, err := r.dbtx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, name, variant, quantity, unit_price, stock_at_order)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.New(), o.ID(), it.ProductID, it.Name, it.Variant, it.Quantity, it.UnitPrice, it.StockAtOrder,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert order item", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.dbtx.QueryRow(ctx, `
		SELECT id, user_id, status, payment_method, coupon_code, discount_amount,
		       items_price, shipping_price, tax_price, total_price, delivery_index,
		       addr_full_name, addr_street, addr_city, addr_postal, addr_country,
		       provider_tx_id, payment_status, amount_captured,
		       paid_at, delivered_at, created_at, updated_at
		FROM orders WHERE id = $1`, id)

	o, err := r.scanOrder(ctx, row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by id", err)
	}
	return o, nil
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*order.Order, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id, user_id, status, payment_method, coupon_code, discount_amount,
		       items_price, shipping_price, tax_price, total_price, delivery_index,
		       addr_full_name, addr_street, addr_city, addr_postal, addr_country,
		       provider_tx_id, payment_status, amount_captured,
		       paid_at, delivered_at, created_at, updated_at
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		o, err := r.scanOrder(ctx, rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan order row", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order rows", err)
	}
	return out, nil
}

func (r *OrderRepository) TransitionToPaid(ctx context.Context, o *order.Order) (bool, error) {
	res := o.PaymentResult()
	if res == nil {
		return false, infra.WrapRepoErr("paid transition without payment result", nil)
	}
	ts := o.Timestamps()

	tag, err := r.dbtx.Exec(ctx, `
		UPDATE orders
		SET status = 'paid', provider_tx_id = $2, payment_status = $3,
		    amount_captured = $4, paid_at = $5, updated_at = $6
		WHERE id = $1 AND status = 'created'`,
		o.ID(), res.ProviderTxID, res.Status, res.AmountCaptured, ts.PaidAt, ts.UpdatedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order paid", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *OrderRepository) TransitionToDelivered(ctx context.Context, o *order.Order) (bool, error) {
	ts := o.Timestamps()

	tag, err := r.dbtx.Exec(ctx, `
		UPDATE orders
		SET status = 'delivered', delivered_at = $2, updated_at = $3
		WHERE id = $1 AND status = 'paid'`,
		o.ID(), ts.DeliveredAt, ts.UpdatedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order delivered", err)
	}
	return tag.RowsAffected() == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *OrderRepository) scanOrder(ctx context.Context, row rowScanner) (*order.Order, error) {
	var (
		id, userID     uuid.UUID
		status, method string
		couponCode     *string
		discount       float64
		quote          pricing.Quote
		addr           order.Address
		providerTxID   *string
		paymentStatus  *string
		amountCaptured *float64
		ts             order.Timestamps
	)

	err := row.Scan(
		&id, &userID, &status, &method, &couponCode, &discount,
		&quote.ItemsPrice, &quote.ShippingPrice, &quote.TaxPrice, &quote.TotalPrice, &quote.DeliveryDateIndex,
		&addr.FullName, &addr.Street, &addr.City, &addr.PostalCode, &addr.Country,
		&providerTxID, &paymentStatus, &amountCaptured,
		&ts.PaidAt, &ts.DeliveredAt, &ts.CreatedAt, &ts.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	quote.Final = true

	items, err := r.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}

	var result *order.PaymentResult
	if providerTxID != nil && paymentStatus != nil && amountCaptured != nil {
		result = &order.PaymentResult{
			ProviderTxID:   *providerTxID,
			Status:         *paymentStatus,
			AmountCaptured: *amountCaptured,
		}
	}

	return order.ReconstructOrder(
		id, userID, items, addr,
		order.PaymentMethod(method), couponCode, discount,
		quote, order.Status(status), result, ts,
	), nil
}

func (r *OrderRepository) itemsFor(ctx context.Context, orderID uuid.UUID) ([]order.LineItem, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT product_id, name, variant, quantity, unit_price, stock_at_order
		FROM order_items WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []order.LineItem
	for rows.Next() {
		var it order.LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Variant, &it.Quantity, &it.UnitPrice, &it.StockAtOrder); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
