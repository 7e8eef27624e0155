package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/repository"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/testutil"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	t    *testing.T
	ctx  context.Context
	db   *gorm.DB
	repo domain.Repository
	f    *testutil.Fixtures
	now  timezone.Clock
}

func newEnv(t *testing.T) *env {
	db := testutil.NewDB(t)
	return &env{
		t:    t,
		ctx:  context.Background(),
		db:   db,
		repo: repository.NewLifecycleGormRepository(db),
		f:    testutil.NewFixtures(t, db),
		now:  timezone.Fixed(testNow),
	}
}

func sofiaForm(name string) ShopForm {
	return ShopForm{
		Name:       name,
		City:       "Sofia",
		District:   "Lozenets",
		Street:     "ul. Vitosha 12",
		StartHour:  "09:00",
		FinishHour: "18:00",
		IsPublic:   true,
	}
}

// ownedShop creates a shop through the use case so roles are real.
func (e *env) ownedShop(owner *models.User, name string) *models.Barbershop {
	e.t.Helper()
	shop, err := NewCreateShop(e.repo, nil, e.now).Execute(e.ctx, CreateShopInput{
		Form:         sofiaForm(name),
		CallerUserID: owner.ID,
	})
	require.NoError(e.t, err)
	return shop
}

func (e *env) hasRole(u *models.User, role models.Role) bool {
	e.t.Helper()
	ok, err := e.repo.Directory().HasRole(e.ctx, u.ID, role)
	require.NoError(e.t, err)
	return ok
}

func (e *env) memberships(shopID uint) []models.Membership {
	e.t.Helper()
	ms, err := e.repo.ListMemberships(e.ctx, shopID)
	require.NoError(e.t, err)
	return ms
}

// assertOwnerInvariant checks every shop has an owner whenever it has members.
func (e *env) assertOwnerInvariant() {
	e.t.Helper()
	var shops []models.Barbershop
	require.NoError(e.t, e.db.Find(&shops).Error)
	for _, s := range shops {
		require.NoError(e.t, domain.EnsureOwnerInvariant(e.memberships(s.ID)), "shop %d", s.ID)
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
