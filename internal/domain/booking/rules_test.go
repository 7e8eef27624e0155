package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

func TestParseSlot(t *testing.T) {
	loc := timezone.Location("Europe/Sofia")

	slot, err := ParseSlot("2025-06-10", "17:00", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC), slot.At)
	assert.Equal(t, 17*60, slot.Minutes)

	_, err = ParseSlot("10.06.2025", "17:00", loc)
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = ParseSlot("2025-06-10", "5pm", loc)
	assert.True(t, httperr.IsBusiness(err, "invalid_time"))
}

func TestWithinHoursIsInclusive(t *testing.T) {
	shop := models.Barbershop{StartHour: "09:00", FinishHour: "18:00"}

	assert.True(t, WithinHours(shop, 9*60))
	assert.True(t, WithinHours(shop, 18*60))
	assert.True(t, WithinHours(shop, 17*60))
	assert.False(t, WithinHours(shop, 8*60+59))
	assert.False(t, WithinHours(shop, 19*60))

	assert.False(t, WithinHours(models.Barbershop{StartHour: "bad", FinishHour: "18:00"}, 10*60))
}

func TestBookable(t *testing.T) {
	assert.False(t, Bookable(nil))
	assert.False(t, Bookable(&models.Barbershop{}))
	assert.True(t, Bookable(&models.Barbershop{IsPublic: true}))

	deleted := &models.Barbershop{IsPublic: true}
	deleted.MarkDeleted(time.Now())
	assert.False(t, Bookable(deleted))
}

func TestCheckLeadTime(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	loc := timezone.Location("Europe/Sofia")

	assert.NoError(t, CheckLeadTime(now.Add(15*time.Minute), now, loc))

	err := CheckLeadTime(now.Add(14*time.Minute), now, loc)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "too_soon", be.Code)
	assert.Equal(t, httperr.KindTemporal, be.Kind)
	assert.Contains(t, be.Message, "2025-06-10 11:15")
}

func TestCandidatesAndFirstMatch(t *testing.T) {
	deleted := models.Barber{ID: 2}
	deleted.MarkDeleted(time.Now())

	ms := []models.Membership{
		{BarberID: 1, IsAvailable: false, Barber: models.Barber{ID: 1}},
		{BarberID: 2, IsAvailable: true, Barber: deleted},
		{BarberID: 3, IsAvailable: true, Barber: models.Barber{ID: 3}},
		{BarberID: 4, IsAvailable: true, Barber: models.Barber{ID: 4}},
	}

	c := Candidates(ms)
	require.Len(t, c, 2)
	assert.Equal(t, uint(3), c[0].BarberID)

	picked, err := SelectBarber(c, func(models.Membership) (bool, error) { return true, nil })
	require.NoError(t, err)
	assert.Equal(t, uint(3), picked.BarberID)

	picked, err = SelectBarber(c, func(m models.Membership) (bool, error) { return m.BarberID == 4, nil })
	require.NoError(t, err)
	assert.Equal(t, uint(4), picked.BarberID)

	picked, err = SelectBarber(c, func(models.Membership) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Nil(t, picked)

	boom := errors.New("boom")
	_, err = SelectBarber(c, func(models.Membership) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}

func TestCanCancelAsCustomer(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	order := &models.Order{UserID: 7, ScheduledAt: now.Add(45 * time.Minute)}
	assert.NoError(t, CanCancelAsCustomer(order, 7, now))
	assert.ErrorIs(t, CanCancelAsCustomer(order, 8, now), ErrNotOrderOwner)

	order.ScheduledAt = now.Add(20 * time.Minute)
	assert.ErrorIs(t, CanCancelAsCustomer(order, 7, now), ErrCannotCancel)

	order.ScheduledAt = now.Add(30 * time.Minute)
	assert.ErrorIs(t, CanCancelAsCustomer(order, 7, now), ErrCannotCancel)

	order.ScheduledAt = now.Add(2 * time.Hour)
	order.MarkDeleted(now)
	assert.ErrorIs(t, CanCancelAsCustomer(order, 7, now), ErrCannotCancel)
}

func TestCanCancelAsBarber(t *testing.T) {
	now := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

	order := &models.Order{BarberID: 3, ScheduledAt: now}
	assert.NoError(t, CanCancelAsBarber(order, 3, now))
	assert.ErrorIs(t, CanCancelAsBarber(order, 4, now), ErrNotAssignedBarber)

	order.ScheduledAt = now.Add(-time.Minute)
	assert.ErrorIs(t, CanCancelAsBarber(order, 3, now), ErrCannotCancel)
}

func TestSlotKey(t *testing.T) {
	at := time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC)
	assert.Equal(t, SlotKey(3, at), SlotKey(3, at.In(timezone.Location("Europe/Sofia"))))
	assert.NotEqual(t, SlotKey(3, at), SlotKey(4, at))
}
