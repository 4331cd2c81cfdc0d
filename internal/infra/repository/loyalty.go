package repository

import (
	"context"
	"time"

	"storefront/internal/domain/loyalty"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type LoyaltyRepository struct {
	dbtx db.DBTX
}

func NewLoyaltyRepository(dbtx db.DBTX) *LoyaltyRepository {
	return &LoyaltyRepository{dbtx: dbtx}
}

func (r *LoyaltyRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*loyalty.Account, error) {
	var (
		id      uuid.UUID
		balance int
		tier    string
	)
	err := r.dbtx.QueryRow(ctx, `
		SELECT id, balance, tier FROM loyalty_accounts WHERE customer_id = $1`,
		customerID,
	).Scan(&id, &balance, &tier)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("loyalty account not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find loyalty account", err)
	}

	points, err := r.pointsHistory(ctx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load points history", err)
	}
	tiers, err := r.tierHistory(ctx, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load tier history", err)
	}

	return loyalty.ReconstructAccount(id, customerID, balance, loyalty.Tier(tier), points, tiers), nil
}

func (r *LoyaltyRepository) Create(ctx context.Context, a *loyalty.Account) error {
	now := time.Now()
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO loyalty_accounts (id, customer_id, balance, tier, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID(), a.CustomerID(), a.Balance(), string(a.Tier()), now, now,
	)
	if err != nil {
		if isPgCode(err, pgErrUniqueViolation) {
			return infra.WrapRepoErr("loyalty account already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create loyalty account", err)
	}

	for _, e := range a.PointsHistory() {
		if err := r.AppendEntry(ctx, a.ID(), e); err != nil {
			return err
		}
	}
	for _, e := range a.TierHistory() {
		if err := r.AppendTierEntry(ctx, a.ID(), e); err != nil {
			return err
		}
	}
	return nil
}

func (r *LoyaltyRepository) AppendEntry(ctx context.Context, accountID uuid.UUID, e loyalty.PointsEntry) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO loyalty_entries (id, account_id, delta, kind, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, accountID, e.Delta, string(e.Kind), e.Description, e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append points entry", err)
	}
	return nil
}

func (r *LoyaltyRepository) AppendTierEntry(ctx context.Context, accountID uuid.UUID, e loyalty.TierEntry) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO loyalty_tier_entries (id, account_id, tier, reason, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		e.ID, accountID, string(e.Tier), e.Reason, e.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to append tier entry", err)
	}
	return nil
}

func (r *LoyaltyRepository) SetBalanceAndTier(ctx context.Context, accountID uuid.UUID, balance int, tier loyalty.Tier, now time.Time) error {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE loyalty_accounts SET balance = $2, tier = $3, updated_at = $4 WHERE id = $1`,
		accountID, balance, string(tier), now,
	)
	if err != nil {
		if isPgCode(err, pgErrCheckViolation) {
			return infra.WrapRepoErr("balance constraint violated", err, infra.KindConstraintViolated)
		}
		return infra.WrapRepoErr("failed to update loyalty balance", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("loyalty account not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *LoyaltyRepository) RetagEntriesExpired(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.dbtx.Exec(ctx, `
		UPDATE loyalty_entries SET kind = 'expired' WHERE id = ANY($1) AND kind = 'earned'`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to retag expired entries", err)
	}
	return nil
}

func (r *LoyaltyRepository) pointsHistory(ctx context.Context, accountID uuid.UUID) ([]loyalty.PointsEntry, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id, delta, kind, description, created_at
		FROM loyalty_entries WHERE account_id = $1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.PointsEntry
	for rows.Next() {
		var (
			e    loyalty.PointsEntry
			kind string
		)
		if err := rows.Scan(&e.ID, &e.Delta, &kind, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = loyalty.EntryKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *LoyaltyRepository) tierHistory(ctx context.Context, accountID uuid.UUID) ([]loyalty.TierEntry, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id, tier, reason, created_at
		FROM loyalty_tier_entries WHERE account_id = $1 ORDER BY created_at, id`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []loyalty.TierEntry
	for rows.Next() {
		var (
			e    loyalty.TierEntry
			tier string
		)
		if err := rows.Scan(&e.ID, &tier, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Tier = loyalty.Tier(tier)
		out = append(out, e)
	}
	return out, rows.Err()
}
