package dto

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

func TestOrdersRenderLocalTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)

	orders := []models.Order{{
		ID:          "a",
		ScheduledAt: time.Date(2025, 6, 10, 14, 0, 0, 0, time.UTC),
		Price:       25,
		User:        models.User{FirstName: "Ivan", LastName: "Ivanov"},
		Barber:      models.Barber{FirstName: "Georgi"},
		Barbershop:  models.Barbershop{Name: "Fade"},
		Service:     models.Service{Name: "Skin fade"},
	}}

	got := Orders(orders, loc, false)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-06-10", got[0].Date)
	assert.Equal(t, "17:00", got[0].Time)
	assert.Equal(t, "Georgi", got[0].BarberName)
	assert.Empty(t, got[0].ClientName)

	assert.Equal(t, "Ivan Ivanov", Orders(orders, loc, true)[0].ClientName)
	assert.NotNil(t, Orders(nil, loc, true))
}
