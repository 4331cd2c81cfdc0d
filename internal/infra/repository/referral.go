package repository

import (
	"context"
	"time"

	"storefront/internal/domain/referral"
	"storefront/internal/infra"
	"storefront/internal/infra/db"

	"github.com/google/uuid"
)

type ReferralRepository struct {
	dbtx db.DBTX
}

func NewReferralRepository(dbtx db.DBTX) *ReferralRepository {
	return &ReferralRepository{dbtx: dbtx}
}

func (r *ReferralRepository) Create(ctx context.Context, ref *referral.Referral) error {
	tier := ref.RewardTier()
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO referrals (
			id, referrer_id, referred_user_id, code, status,
			reward_tier_name, reward_kind, reward_fixed, reward_percent,
			created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		ref.ID(), ref.ReferrerID(), ref.ReferredUserID(), ref.Code(), string(ref.Status()),
		tier.Name, string(tier.Kind), tier.FixedPoints, tier.Percent,
		ref.CreatedAt(),
	)
	if err != nil {
		if isPgCode(err, pgErrUniqueViolation) {
			return infra.WrapRepoErr("user already referred", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to insert referral", err)
	}
	return nil
}

func (r *ReferralRepository) FindPendingByReferredUser(ctx context.Context, userID uuid.UUID) (*referral.Referral, error) {
	row := r.dbtx.QueryRow(ctx, `
		SELECT id, referrer_id, referred_user_id, code, status,
		       reward_tier_name, reward_kind, reward_fixed, reward_percent,
		       purchase_amount, completed_at, created_at
		FROM referrals WHERE referred_user_id = $1 AND status = 'pending'`, userID)

	ref, err := scanReferral(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("pending referral not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find pending referral", err)
	}
	return ref, nil
}

func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uuid.UUID) ([]*referral.Referral, error) {
	rows, err := r.dbtx.Query(ctx, `
		SELECT id, referrer_id, referred_user_id, code, status,
		       reward_tier_name, reward_kind, reward_fixed, reward_percent,
		       purchase_amount, completed_at, created_at
		FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC`, referrerID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list referrals", err)
	}
	defer rows.Close()

	var out []*referral.Referral
	for rows.Next() {
		ref, err := scanReferral(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan referral row", err)
		}
		out = append(out, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate referral rows", err)
	}
	return out, nil
}

func (r *ReferralRepository) MarkCompleted(ctx context.Context, ref *referral.Referral) (bool, error) {
	tag, err := r.dbtx.Exec(ctx, `
		UPDATE referrals
		SET status = 'completed', purchase_amount = $2, completed_at = $3
		WHERE id = $1 AND status = 'pending'`,
		ref.ID(), ref.PurchaseAmount(), ref.CompletedAt(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to complete referral", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ReferralRepository) RecordAttempt(ctx context.Context, a referral.Attempt) error {
	_, err := r.dbtx.Exec(ctx, `
		INSERT INTO referral_attempts (id, code, user_id, outcome, created_at)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.Code, a.UserID, string(a.Outcome), a.CreatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to record referral attempt", err)
	}
	return nil
}

func (r *ReferralRepository) DefaultRewardTier(ctx context.Context) (referral.RewardTier, error) {
	var (
		name, kind string
		fixed      int
		percent    float64
	)
	err := r.dbtx.QueryRow(ctx, `
		SELECT name, kind, fixed_points, percent
		FROM referral_reward_tiers WHERE is_default ORDER BY name LIMIT 1`,
	).Scan(&name, &kind, &fixed, &percent)
	if err != nil {
		if isNoRows(err) {
			return referral.RewardTier{}, infra.WrapRepoErr("no default reward tier configured", err, infra.KindNotFound)
		}
		return referral.RewardTier{}, infra.WrapRepoErr("failed to load default reward tier", err)
	}
	return referral.RewardTier{
		Name:        name,
		Kind:        referral.RewardKind(kind),
		FixedPoints: fixed,
		Percent:     percent,
	}, nil
}

func scanReferral(row rowScanner) (*referral.Referral, error) {
	var (
		id, referrerID, referredID uuid.UUID
		code, status               string
		tierName, kind             string
		fixed                      int
		percent                    float64
		purchaseAmount             *float64
		completedAt                *time.Time
		createdAt                  time.Time
	)
	err := row.Scan(
		&id, &referrerID, &referredID, &code, &status,
		&tierName, &kind, &fixed, &percent,
		&purchaseAmount, &completedAt, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	return referral.ReconstructReferral(
		id, referrerID, referredID, code, referral.Status(status),
		referral.RewardTier{
			Name:        tierName,
			Kind:        referral.RewardKind(kind),
			FixedPoints: fixed,
			Percent:     percent,
		},
		purchaseAmount, completedAt, createdAt,
	), nil
}
