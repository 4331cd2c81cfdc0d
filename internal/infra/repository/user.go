package repository

import (
	"context"

	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/usecase"

	"github.com/google/uuid"
)

type UserRepository struct {
	dbtx db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{dbtx: dbtx}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*usecase.UserSnapshot, error) {
	return r.findOne(ctx, `
		SELECT id, email, role, referral_code FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*usecase.UserSnapshot, error) {
	return r.findOne(ctx, `
		SELECT id, email, role, referral_code FROM users WHERE referral_code = $1`, code)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*usecase.UserSnapshot, error) {
	var u usecase.UserSnapshot
	err := r.dbtx.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.Role, &u.ReferralCode)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &u, nil
}
