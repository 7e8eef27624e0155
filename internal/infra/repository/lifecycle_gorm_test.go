package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/testutil"
)

func TestFindOrCreateCityMatchesLoosely(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	ctx := context.Background()

	city, err := repo.FindOrCreateCity(ctx, "stara  zagora")
	require.NoError(t, err)
	assert.Equal(t, "Stara zagora", city.Name)

	again, err := repo.FindOrCreateCity(ctx, "STARA ZAGORA")
	require.NoError(t, err)
	assert.Equal(t, city.ID, again.ID)

	var count int64
	require.NoError(t, db.Model(&models.City{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteCityIfOrphaned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")
	require.NoError(t, repo.DeleteCityIfOrphaned(ctx, shop.CityID))

	var count int64
	require.NoError(t, db.Model(&models.City{}).Where("id = ?", shop.CityID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "referenced city must stay")

	lonely, err := repo.FindOrCreateCity(ctx, "Varna")
	require.NoError(t, err)
	require.NoError(t, repo.DeleteCityIfOrphaned(ctx, lonely.ID))
	require.NoError(t, db.Model(&models.City{}).Where("id = ?", lonely.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestLookupsReturnNilWhenMissing(t *testing.T) {
	repo := NewLifecycleGormRepository(testutil.NewDB(t))
	ctx := context.Background()

	shop, err := repo.GetBarbershop(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, shop)

	m, err := repo.GetMembership(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, m)

	b, err := repo.GetBarberByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestLockBarbershop(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")

	require.NoError(t, repo.WithinTx(ctx, func(tx domain.Repository) error {
		locked, err := tx.LockBarbershop(ctx, shop.ID)
		require.NoError(t, err)
		require.NotNil(t, locked)
		assert.Equal(t, shop.Name, locked.Name)
		assert.NotZero(t, locked.City.ID)

		missing, err := tx.LockBarbershop(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	}))
}

func TestUpdateMembershipStoresFalse(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")
	_, barber := f.Barber("Ivan")
	f.Member(shop, barber, true, true)

	m, err := repo.GetMembership(ctx, shop.ID, barber.ID)
	require.NoError(t, err)
	m.IsOwner = false
	m.IsAvailable = false
	require.NoError(t, repo.UpdateMembership(ctx, m))

	m, err = repo.GetMembership(ctx, shop.ID, barber.ID)
	require.NoError(t, err)
	assert.False(t, m.IsOwner)
	assert.False(t, m.IsAvailable)
	assert.Equal(t, "Ivan", m.Barber.FirstName)
}

func TestCountOwnedShopsIgnoresDeletedShops(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	_, barber := f.Barber("Ivan")
	a := f.Shop("A")
	b := f.Shop("B")
	f.Member(a, barber, true, true)
	f.Member(b, barber, true, true)

	n, err := repo.CountOwnedShops(ctx, barber.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	b.MarkDeleted(time.Now())
	require.NoError(t, repo.SaveBarbershop(ctx, b))

	n, err = repo.CountOwnedShops(ctx, barber.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSoftDeleteOrdersFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")
	customer := f.User("Maria")
	_, barber := f.Barber("Ivan")
	svc := f.Offer(shop, "Fade", 20)

	base := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Omit("User", "Barber", "Barbershop", "Service").Create(&models.Order{
			UserID:       customer.ID,
			BarberID:     barber.ID,
			BarbershopID: shop.ID,
			ServiceID:    svc.ID,
			ScheduledAt:  base.Add(time.Duration(i) * time.Hour),
			Price:        20,
		}).Error)
	}

	n, err := repo.SoftDeleteOrders(ctx, domain.OrderFilter{}, base)
	require.NoError(t, err)
	assert.Zero(t, n)

	after := base
	n, err = repo.SoftDeleteOrders(ctx, domain.OrderFilter{UserID: customer.ID, After: &after}, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.SoftDeleteOrders(ctx, domain.OrderFilter{BarbershopID: shop.ID}, base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var live int64
	require.NoError(t, db.Model(&models.Order{}).Where("is_deleted = ?", false).Count(&live).Error)
	assert.Zero(t, live)
}

func TestWithinTxRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLifecycleGormRepository(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithinTx(ctx, func(tx domain.Repository) error {
		if _, err := tx.FindOrCreateCity(ctx, "Plovdiv"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&models.City{}).Count(&count).Error)
	assert.Zero(t, count)
}
