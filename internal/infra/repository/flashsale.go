package repository

import (
	"context"
	"time"

	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type FlashSaleRepository struct {
	dbtx db.DBTX
}

func NewFlashSaleRepository(dbtx db.DBTX) *FlashSaleRepository {
	return &FlashSaleRepository{dbtx: dbtx}
}

func (r *FlashSaleRepository) IncrementSold(ctx context.Context, productID uuid.UUID, qty int, now time.Time) error {
	_, err := r.dbtx.Exec(ctx, `
		UPDATE flash_sales fs
		SET sold_quantity = LEAST(fs.sold_quantity + $2, fs.total_quantity)
		FROM flash_sale_products fsp
		WHERE fsp.flash_sale_id = fs.id
		  AND fsp.product_id = $1
		  AND fs.starts_at <= $3
		  AND fs.ends_at > $3`,
		productID, qty, now,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to increment flash sale sold count", err)
	}
	return nil
}
