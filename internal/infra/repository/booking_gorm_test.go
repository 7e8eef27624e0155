package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/testutil"
)

func TestOrderSlotIsUniqueAmongLiveOrders(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")
	customer := f.User("Maria")
	_, barber := f.Barber("Ivan")
	svc := f.Offer(shop, "Fade", 20)
	at := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	newOrder := func() *models.Order {
		return &models.Order{
			UserID:       customer.ID,
			BarberID:     barber.ID,
			BarbershopID: shop.ID,
			ServiceID:    svc.ID,
			ScheduledAt:  at,
			Price:        20,
		}
	}

	first := newOrder()
	require.NoError(t, repo.CreateOrder(ctx, first))
	assert.Len(t, first.ID, 36)

	busy, err := repo.HasOrderAt(ctx, barber.ID, at)
	require.NoError(t, err)
	assert.True(t, busy)

	err = repo.CreateOrder(ctx, newOrder())
	require.Error(t, err)
	assert.True(t, httperr.IsUniqueConflict(err))

	first.MarkDeleted(at)
	require.NoError(t, repo.SaveOrder(ctx, first))

	busy, err = repo.HasOrderAt(ctx, barber.ID, at)
	require.NoError(t, err)
	assert.False(t, busy)

	require.NoError(t, repo.CreateOrder(ctx, newOrder()))
}

func TestListOrdersForUserSkipsDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBookingGormRepository(db)
	f := testutil.NewFixtures(t, db)
	ctx := context.Background()

	shop := f.Shop("Fade")
	customer := f.User("Maria")
	_, barber := f.Barber("Ivan")
	svc := f.Offer(shop, "Fade", 20)
	at := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)

	live := &models.Order{UserID: customer.ID, BarberID: barber.ID, BarbershopID: shop.ID, ServiceID: svc.ID, ScheduledAt: at.Add(time.Hour), Price: 20}
	gone := &models.Order{UserID: customer.ID, BarberID: barber.ID, BarbershopID: shop.ID, ServiceID: svc.ID, ScheduledAt: at, Price: 20}
	gone.MarkDeleted(at)
	require.NoError(t, repo.CreateOrder(ctx, live))
	require.NoError(t, repo.CreateOrder(ctx, gone))

	orders, err := repo.ListOrdersForUser(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, live.ID, orders[0].ID)
	assert.Equal(t, "Fade", orders[0].Barbershop.Name)
	assert.Equal(t, "Ivan", orders[0].Barber.FirstName)

	got, err := repo.GetOrder(ctx, gone.ID)
	require.NoError(t, err)
	assert.True(t, got.IsDeleted)

	missing, err := repo.GetOrder(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
