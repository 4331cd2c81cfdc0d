package repository

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type SettlementEventRepository struct {
	dbtx db.DBTX
}

func NewSettlementEventRepository(dbtx db.DBTX) *SettlementEventRepository {
	return &SettlementEventRepository{dbtx: dbtx}
}

func (r *SettlementEventRepository) TryInsert(ctx context.Context, orderID uuid.UUID, eventType string) (bool, error) {
	tag, err := r.dbtx.Exec(ctx, `
		INSERT INTO settlement_events (order_id, event_type, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (order_id, event_type) DO NOTHING`,
		orderID, eventType,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert settlement event", err)
	}
	return tag.RowsAffected() == 1, nil
}
