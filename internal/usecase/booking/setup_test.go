package booking

import (
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/lock"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/repository"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/testutil"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

// 12:00 in Sofia.
var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	repo   domain.Repository
	locker *lock.LocalLocker
	f      *testutil.Fixtures
	loc    *time.Location
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	loc, err := time.LoadLocation("Europe/Sofia")
	require.NoError(t, err)

	return &env{
		t:      t,
		ctx:    context.Background(),
		db:     db,
		repo:   repository.NewBookingGormRepository(db),
		locker: lock.NewLocalLocker(),
		f:      testutil.NewFixtures(t, db),
		loc:    loc,
	}
}

func (e *env) bookCart() *BookCart {
	return NewBookCart(e.repo, e.locker, nil, timezone.Fixed(testNow), e.loc)
}

func (e *env) at(now time.Time) timezone.Clock {
	return timezone.Fixed(now)
}

func line(shop *models.Barbershop, svc *models.Service, price float64) cart.Line {
	return cart.Line{
		BarbershopID:   shop.ID,
		BarbershopName: shop.Name,
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		Price:          price,
	}
}

func (e *env) order(shop *models.Barbershop, customer *models.User, barber *models.Barber, svc *models.Service, at time.Time) *models.Order {
	e.t.Helper()
	o := &models.Order{
		UserID:       customer.ID,
		BarberID:     barber.ID,
		BarbershopID: shop.ID,
		ServiceID:    svc.ID,
		ScheduledAt:  at.UTC(),
		Price:        20,
	}
	require.NoError(e.t, e.db.Omit("User", "Barber", "Barbershop", "Service").Create(o).Error)
	return o
}

func (e *env) reloadOrder(id string) models.Order {
	e.t.Helper()
	var o models.Order
	require.NoError(e.t, e.db.Where("id = ?", id).First(&o).Error)
	return o
}

func (e *env) liveOrders() []models.Order {
	e.t.Helper()
	var out []models.Order
	require.NoError(e.t, e.db.Where("is_deleted = ?", false).Order("scheduled_at ASC").Find(&out).Error)
	return out
}
