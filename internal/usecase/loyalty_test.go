//go:build unit

package usecase_test

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/loyalty"
	"storefront/internal/pkg/clock"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loyaltyFixture struct {
	uow   *fakeUoW
	clock *clock.MockClock
	uc    usecase.LoyaltyCommands
}

func newLoyaltyFixture() *loyaltyFixture {
	uow := newFakeUoW()
	mc := clock.NewMockClock(testNow)
	return &loyaltyFixture{uow: uow, clock: mc, uc: usecase.NewLoyaltyUseCase(uow, mc)}
}

func (f *loyaltyFixture) addReward(cost, stock int) uuid.UUID {
	id := uuid.New()
	f.uow.tx.rewards.byID[id] = loyalty.ReconstructReward(id, "free shipping voucher", cost, stock)
	f.uow.tx.rewards.stock[id] = stock
	return id
}

func TestLoyaltyAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("first touch creates an empty bronze account", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()

		account, err := f.uc.Account(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, customerID, account.CustomerID())
		assert.Equal(t, 0, account.Balance())
		assert.Equal(t, loyalty.TierBronze, account.Tier())

		again, err := f.uc.Account(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, account.ID(), again.ID())
	})
}

func TestLoyaltyAward(t *testing.T) {
	ctx := context.Background()

	t.Run("accrues points and promotes", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()

		account, err := f.uc.Award(ctx, customerID, 1200, "order abc")
		require.NoError(t, err)
		assert.Equal(t, 1200, account.Balance())
		assert.Equal(t, loyalty.TierSilver, account.Tier())
		assert.Equal(t, 1, f.uow.tx.loyalty.appended)

		account, err = f.uc.Award(ctx, customerID, 300, "order def")
		require.NoError(t, err)
		assert.Equal(t, 1500, account.Balance())
	})

	t.Run("rejects non-positive points", func(t *testing.T) {
		f := newLoyaltyFixture()
		_, err := f.uc.Award(ctx, uuid.New(), 0, "noop")
		assert.Error(t, err)
	})
}

func TestLoyaltyRedeem(t *testing.T) {
	ctx := context.Background()

	t.Run("spends points for stocked rewards", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()
		rewardID := f.addReward(400, 2)
		_, err := f.uc.Award(ctx, customerID, 1000, "seed")
		require.NoError(t, err)

		account, err := f.uc.Redeem(ctx, customerID, rewardID)
		require.NoError(t, err)
		assert.Equal(t, 600, account.Balance())
		assert.Equal(t, 1, f.uow.tx.rewards.stock[rewardID])
	})

	t.Run("insufficient points", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()
		rewardID := f.addReward(400, 2)

		_, err := f.uc.Redeem(ctx, customerID, rewardID)
		assert.ErrorIs(t, err, usecase.ErrInsufficientPoints)
		assert.Equal(t, 2, f.uow.tx.rewards.stock[rewardID])
	})

	t.Run("out of stock", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()
		rewardID := f.addReward(400, 0)
		_, err := f.uc.Award(ctx, customerID, 1000, "seed")
		require.NoError(t, err)

		_, err = f.uc.Redeem(ctx, customerID, rewardID)
		assert.ErrorIs(t, err, usecase.ErrRewardOutOfStock)
	})

	t.Run("unknown reward", func(t *testing.T) {
		f := newLoyaltyFixture()
		_, err := f.uc.Redeem(ctx, uuid.New(), uuid.New())
		assert.ErrorIs(t, err, usecase.ErrRewardNotFound)
	})
}

func TestLoyaltyExpirePoints(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps entries older than the window", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()
		_, err := f.uc.Award(ctx, customerID, 800, "old order")
		require.NoError(t, err)

		f.clock.Add(usecase.ExpireAfter + 24*time.Hour)
		_, err = f.uc.Award(ctx, customerID, 100, "recent order")
		require.NoError(t, err)

		result, err := f.uc.ExpirePoints(ctx, customerID)
		require.NoError(t, err)
		require.NotNil(t, result.Entry)
		assert.Equal(t, -800, result.Entry.Delta)
		assert.Equal(t, 100, result.NewBalance)
		assert.Len(t, result.RetaggedIDs, 1)

		account, err := f.uc.Account(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, 100, account.Balance())
	})

	t.Run("nothing to expire is a no-op", func(t *testing.T) {
		f := newLoyaltyFixture()
		customerID := uuid.New()
		_, err := f.uc.Award(ctx, customerID, 500, "recent order")
		require.NoError(t, err)

		result, err := f.uc.ExpirePoints(ctx, customerID)
		require.NoError(t, err)
		assert.Nil(t, result.Entry)
		assert.Equal(t, 500, result.NewBalance)
	})
}
