package repository

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

type ProductRepository struct {
	dbtx db.DBTX
}

func NewProductRepository(dbtx db.DBTX) *ProductRepository {
	return &ProductRepository{dbtx: dbtx}
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]usecase.ProductSnapshot, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id, name, variant, price, count_in_stock, num_sales
		FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query products", err)
	}
	defer rows.Close()

	var out []usecase.ProductSnapshot
	for rows.Next() {
		var p usecase.ProductSnapshot
		if err := rows.Scan(&p.ID, &p.Name, &p.Variant, &p.Price, &p.CountInStock, &p.NumSales); err != nil {
			return nil, infra.WrapRepoErr("failed to scan product row", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate product rows", err)
	}
	return out, nil
}

func (r *ProductRepository) DeductStock(ctx context.Context, productID uuid.UUID, qty int) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE products
		SET count_in_stock = count_in_stock - $2, num_sales = num_sales + $2
		WHERE id = $1 AND count_in_stock >= $2`,
		productID, qty,
	)
	if err != nil {
		if isPgCode(err, pgErrCheckViolation) {
			return infra.WrapRepoErr("insufficient stock", err, infra.KindConstraintViolated)
		}
		return infra.WrapRepoErr("failed to deduct stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("insufficient stock", nil, infra.KindConstraintViolated)
	}
	return nil
}
