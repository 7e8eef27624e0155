package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

func TestCreateShopMakesCallerSoleOwner(t *testing.T) {
	e := newEnv(t)
	user, barber := e.f.Barber("Ivan")

	shop, err := NewCreateShop(e.repo, nil, e.now).Execute(e.ctx, CreateShopInput{
		Form: ShopForm{
			Name:       "Fade Cut",
			City:       "  sofia ",
			District:   "lozenets",
			Street:     "ul. Vitosha 12",
			StartHour:  "9:00",
			FinishHour: "18:00",
			IsPublic:   true,
		},
		CallerUserID: user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "09:00", shop.StartHour)

	var city models.City
	require.NoError(t, e.db.First(&city, shop.CityID).Error)
	assert.Equal(t, "Sofia", city.Name)

	ms := e.memberships(shop.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, barber.ID, ms[0].BarberID)
	assert.True(t, ms[0].IsOwner)
	assert.True(t, ms[0].IsAvailable)

	assert.True(t, e.hasRole(user, models.RoleOwner))

	var reloaded models.User
	require.NoError(t, e.db.First(&reloaded, user.ID).Error)
	assert.Equal(t, 2, reloaded.SessionVersion)
}

func TestCreateShopRejectsSameNaturalKey(t *testing.T) {
	e := newEnv(t)
	user, _ := e.f.Barber("Ivan")
	e.ownedShop(user, "Fade Cut")

	other, _ := e.f.Barber("Petar")
	_, err := NewCreateShop(e.repo, nil, e.now).Execute(e.ctx, CreateShopInput{
		Form: ShopForm{
			Name:       "fade  cut",
			City:       "SOFIA",
			District:   "Lozenets",
			Street:     "Vitosha st. 12",
			StartHour:  "10:00",
			FinishHour: "19:00",
		},
		CallerUserID: other.ID,
	})
	assert.ErrorIs(t, err, domain.ErrShopExists)
}

func TestCreateShopRestoresDeletedShop(t *testing.T) {
	e := newEnv(t)
	user, barber := e.f.Barber("Ivan")
	shop := e.ownedShop(user, "Fade Cut")

	require.NoError(t, NewDeleteShop(e.repo, nil, e.now).Execute(e.ctx, DeleteShopInput{
		ShopID:       shop.ID,
		CallerUserID: user.ID,
	}))
	assert.False(t, e.hasRole(user, models.RoleOwner))

	form := sofiaForm("Fade Cut")
	form.StartHour = "08:00"
	again, err := NewCreateShop(e.repo, nil, e.now).Execute(e.ctx, CreateShopInput{
		Form:         form,
		CallerUserID: user.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, shop.ID, again.ID)

	var stored models.Barbershop
	require.NoError(t, e.db.First(&stored, shop.ID).Error)
	assert.False(t, stored.IsDeleted)
	assert.Nil(t, stored.DeletedAt)
	assert.True(t, stored.IsPublic)
	assert.Equal(t, "08:00", stored.StartHour)

	ms := e.memberships(shop.ID)
	require.Len(t, ms, 1)
	assert.Equal(t, barber.ID, ms[0].BarberID)
	assert.True(t, ms[0].IsOwner)
	assert.True(t, e.hasRole(user, models.RoleOwner))

	var count int64
	require.NoError(t, e.db.Model(&models.Barbershop{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateShopValidation(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateShop(e.repo, nil, e.now)
	user, _ := e.f.Barber("Ivan")

	form := sofiaForm("Fade")
	form.FinishHour = "09:00"
	_, err := uc.Execute(e.ctx, CreateShopInput{Form: form, CallerUserID: user.ID})
	assert.True(t, httperr.IsBusiness(err, "hours_out_of_order"))

	form = sofiaForm("Fade")
	form.StartHour = "nine"
	_, err = uc.Execute(e.ctx, CreateShopInput{Form: form, CallerUserID: user.ID})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "StartHour", be.Key)

	form = sofiaForm("Fade")
	form.City = "   "
	_, err = uc.Execute(e.ctx, CreateShopInput{Form: form, CallerUserID: user.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidCity)

	form = sofiaForm("")
	_, err = uc.Execute(e.ctx, CreateShopInput{Form: form, CallerUserID: user.ID})
	assert.True(t, httperr.IsBusiness(err, "invalid_name"))
}

func TestCreateShopRequiresActiveUserAndBarber(t *testing.T) {
	e := newEnv(t)
	uc := NewCreateShop(e.repo, nil, e.now)

	customer := e.f.User("Maria")
	_, err := uc.Execute(e.ctx, CreateShopInput{Form: sofiaForm("Fade"), CallerUserID: customer.ID})
	assert.ErrorIs(t, err, domain.ErrNotABarber)

	_, err = uc.Execute(e.ctx, CreateShopInput{Form: sofiaForm("Fade"), CallerUserID: 999})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	gone, _ := e.f.Barber("Gone")
	gone.MarkDeleted(testNow)
	require.NoError(t, e.db.Save(gone).Error)
	_, err = uc.Execute(e.ctx, CreateShopInput{Form: sofiaForm("Fade"), CallerUserID: gone.ID})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEditShopCollectsOrphanedLookups(t *testing.T) {
	e := newEnv(t)
	user, _ := e.f.Barber("Ivan")
	shop := e.ownedShop(user, "Fade")
	oldCity := shop.CityID

	form := sofiaForm("Fade")
	form.City = "Plovdiv"
	edited, err := NewEditShop(e.repo, nil).Execute(e.ctx, EditShopInput{
		ShopID:       shop.ID,
		Form:         form,
		CallerUserID: user.ID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldCity, edited.CityID)

	var count int64
	require.NoError(t, e.db.Model(&models.City{}).Where("id = ?", oldCity).Count(&count).Error)
	assert.Zero(t, count)

	require.NoError(t, e.db.Model(&models.District{}).Where("id = ?", shop.DistrictID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestEditShopAuthorization(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.f.Barber("Ivan")
	stranger, _ := e.f.Barber("Petar")
	shop := e.ownedShop(owner, "Fade")
	uc := NewEditShop(e.repo, nil)

	form := sofiaForm("Fade Deluxe")
	_, err := uc.Execute(e.ctx, EditShopInput{ShopID: shop.ID, Form: form, CallerUserID: stranger.ID})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	admin := e.f.User("Admin")
	edited, err := uc.Execute(e.ctx, EditShopInput{ShopID: shop.ID, Form: form, CallerUserID: admin.ID, IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, "Fade Deluxe", edited.Name)
}

func TestEditShopRejectsCollisionWithAnotherShop(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.f.Barber("Ivan")
	e.ownedShop(owner, "Fade")
	second := e.ownedShop(owner, "Razor")

	_, err := NewEditShop(e.repo, nil).Execute(e.ctx, EditShopInput{
		ShopID:       second.ID,
		Form:         sofiaForm("FADE"),
		CallerUserID: owner.ID,
	})
	assert.ErrorIs(t, err, domain.ErrShopExists)

	_, err = NewEditShop(e.repo, nil).Execute(e.ctx, EditShopInput{
		ShopID:       second.ID,
		Form:         sofiaForm("razor"),
		CallerUserID: owner.ID,
	})
	assert.NoError(t, err)
}

func TestDeleteShopBySoleOwnerCascades(t *testing.T) {
	e := newEnv(t)
	owner, ownerBarber := e.f.Barber("Ivan")
	employeeUser, employee := e.f.Barber("Petar")
	customer := e.f.User("Maria")
	shop := e.ownedShop(owner, "Fade")
	e.f.Member(shop, employee, false, true)

	shared := e.f.Offer(shop, "Fade", 20)
	other := e.f.Shop("Elsewhere")
	require.NoError(t, e.db.Omit("Service", "Barbershop").Create(&models.Offering{
		ServiceID: shared.ID, BarbershopID: other.ID, Price: 25,
	}).Error)
	only := e.f.Offer(shop, "Beard trim", 10)

	past := e.order(shop, customer, ownerBarber, only, testNow.Add(-24*time.Hour))
	future := e.order(shop, customer, employee, shared, testNow.Add(24*time.Hour))

	require.NoError(t, NewDeleteShop(e.repo, nil, e.now).Execute(e.ctx, DeleteShopInput{
		ShopID:       shop.ID,
		CallerUserID: owner.ID,
	}))

	var stored models.Barbershop
	require.NoError(t, e.db.First(&stored, shop.ID).Error)
	assert.True(t, stored.IsDeleted)
	assert.False(t, stored.IsPublic)
	require.NotNil(t, stored.DeletedAt)
	assert.True(t, stored.DeletedAt.Equal(testNow))

	assert.True(t, e.reloadOrder(past.ID).IsDeleted)
	assert.True(t, e.reloadOrder(future.ID).IsDeleted)
	assert.Empty(t, e.memberships(shop.ID))

	var retired models.Service
	require.NoError(t, e.db.First(&retired, only.ID).Error)
	assert.True(t, retired.IsDeleted, "service without offerings is retired")

	var survivor models.Service
	require.NoError(t, e.db.First(&survivor, shared.ID).Error)
	assert.False(t, survivor.IsDeleted, "service offered elsewhere survives")

	assert.False(t, e.hasRole(owner, models.RoleOwner))
	assert.False(t, e.hasRole(employeeUser, models.RoleOwner))
	assert.True(t, e.hasRole(owner, models.RoleBarber))
}

func TestDeleteShopAuthorization(t *testing.T) {
	e := newEnv(t)
	owner, _ := e.f.Barber("Ivan")
	coOwnerUser, coOwner := e.f.Barber("Petar")
	employeeUser, employee := e.f.Barber("Georgi")
	shop := e.ownedShop(owner, "Fade")
	e.f.Member(shop, coOwner, true, true)
	e.f.Member(shop, employee, false, true)
	uc := NewDeleteShop(e.repo, nil, e.now)

	err := uc.Execute(e.ctx, DeleteShopInput{ShopID: shop.ID, CallerUserID: owner.ID})
	assert.ErrorIs(t, err, domain.ErrNotOnlyOwner)

	err = uc.Execute(e.ctx, DeleteShopInput{ShopID: shop.ID, CallerUserID: coOwnerUser.ID})
	assert.ErrorIs(t, err, domain.ErrNotOnlyOwner)

	err = uc.Execute(e.ctx, DeleteShopInput{ShopID: shop.ID, CallerUserID: employeeUser.ID})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	admin := e.f.User("Admin")
	require.NoError(t, uc.Execute(e.ctx, DeleteShopInput{ShopID: shop.ID, CallerUserID: admin.ID, IsAdmin: true}))

	err = uc.Execute(e.ctx, DeleteShopInput{ShopID: shop.ID, CallerUserID: admin.ID, IsAdmin: true})
	assert.ErrorIs(t, err, domain.ErrBarbershopNotFound)
	e.assertOwnerInvariant()
}
