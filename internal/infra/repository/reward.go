package repository

import (
	"context"

	"storefront/internal/domain/loyalty"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type RewardRepository struct {
	dbtx db.DBTX
}

func NewRewardRepository(dbtx db.DBTX) *RewardRepository {
	return &RewardRepository{dbtx: dbtx}
}

func (r *RewardRepository) FindByID(ctx context.Context, id uuid.UUID) (*loyalty.Reward, error) {
	var (
		name        string
		cost, stock int
	)
	err := r.dbtx.QueryRow(ctx, `
		SELECT name, cost_points, stock FROM rewards WHERE id = $1`, id,
	).Scan(&name, &cost, &stock)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("reward not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find reward", err)
	}
	return loyalty.ReconstructReward(id, name, cost, stock), nil
}

func (r *RewardRepository) DecrementStock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE rewards SET stock = stock - 1 WHERE id = $1 AND stock > 0`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement reward stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("reward out of stock", nil, infra.KindConstraintViolated)
	}
	return nil
}
