package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/storage"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

func TestCreateBarberCopiesAccountAndRestores(t *testing.T) {
	e := newEnv(t)
	user := e.f.User("Ivan")
	uc := NewCreateBarber(e.repo, nil)

	barber, err := uc.Execute(e.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, barber.Email)
	assert.True(t, e.hasRole(user, models.RoleBarber))

	_, err = uc.Execute(e.ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyBarber)

	require.NoError(t, NewDeleteBarber(e.repo, nil, e.now).Execute(e.ctx, DeleteBarberInput{CallerUserID: user.ID}))
	assert.False(t, e.hasRole(user, models.RoleBarber))

	restored, err := uc.Execute(e.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, barber.ID, restored.ID)
	assert.False(t, restored.IsDeleted)
	assert.True(t, e.hasRole(user, models.RoleBarber))

	_, err = uc.Execute(e.ctx, 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteBarberCascades(t *testing.T) {
	e := newEnv(t)
	user, barber := e.f.Barber("Ivan")
	partnerUser, partner := e.f.Barber("Petar")
	customer := e.f.User("Maria")

	solo := e.ownedShop(user, "Solo")
	shared := e.ownedShop(partnerUser, "Shared")
	e.f.Member(shared, barber, true, true)
	employed := e.ownedShop(partnerUser, "Employer")
	e.f.Member(employed, barber, false, true)

	svc := e.f.Offer(shared, "Fade", 20)
	o := e.order(shared, customer, barber, svc, testNow.Add(time.Hour))
	kept := e.order(shared, customer, partner, svc, testNow.Add(time.Hour))

	require.NoError(t, NewDeleteBarber(e.repo, nil, e.now).Execute(e.ctx, DeleteBarberInput{CallerUserID: user.ID}))

	var soloStored models.Barbershop
	require.NoError(t, e.db.First(&soloStored, solo.ID).Error)
	assert.True(t, soloStored.IsDeleted, "solely owned shop is deleted")

	var sharedStored models.Barbershop
	require.NoError(t, e.db.First(&sharedStored, shared.ID).Error)
	assert.False(t, sharedStored.IsDeleted)
	assert.Len(t, e.memberships(shared.ID), 1)
	assert.Len(t, e.memberships(employed.ID), 1)

	assert.True(t, e.reloadOrder(o.ID).IsDeleted)
	assert.False(t, e.reloadOrder(kept.ID).IsDeleted)

	var b models.Barber
	require.NoError(t, e.db.First(&b, barber.ID).Error)
	assert.True(t, b.IsDeleted)
	assert.Equal(t, "Ivan", b.FirstName, "not scrubbed")

	assert.False(t, e.hasRole(user, models.RoleBarber))
	assert.False(t, e.hasRole(user, models.RoleOwner))
	assert.True(t, e.hasRole(partnerUser, models.RoleOwner))
	e.assertOwnerInvariant()

	err := NewDeleteBarber(e.repo, nil, e.now).Execute(e.ctx, DeleteBarberInput{CallerUserID: user.ID})
	assert.ErrorIs(t, err, domain.ErrNotABarber)
}

func TestDeleteAccountScrubs(t *testing.T) {
	e := newEnv(t)
	user, barber := e.f.Barber("Ivan")
	e.f.Role(user, models.RoleAdministrator)
	shop := e.ownedShop(user, "Fade")
	other := e.f.Shop("Other")
	_, otherBarber := e.f.Barber("Petar")
	svc := e.f.Offer(other, "Fade", 20)

	past := e.order(other, user, otherBarber, svc, testNow.Add(-time.Hour))
	upcoming := e.order(other, user, otherBarber, svc, testNow.Add(time.Hour))

	require.NoError(t, NewDeleteAccount(e.repo, nil, e.now).Execute(e.ctx, user.ID))

	var u models.User
	require.NoError(t, e.db.First(&u, user.ID).Error)
	assert.True(t, u.IsDeleted)
	assert.Equal(t, "Deleted", u.FirstName)
	assert.NotEqual(t, user.Email, u.Email)
	assert.Greater(t, u.SessionVersion, 1)

	var b models.Barber
	require.NoError(t, e.db.First(&b, barber.ID).Error)
	assert.True(t, b.IsDeleted)
	assert.Empty(t, b.Email)

	var s models.Barbershop
	require.NoError(t, e.db.First(&s, shop.ID).Error)
	assert.True(t, s.IsDeleted)

	assert.False(t, e.reloadOrder(past.ID).IsDeleted, "history is kept")
	assert.True(t, e.reloadOrder(upcoming.ID).IsDeleted)

	roles, err := e.repo.Directory().Roles(e.ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)

	assert.ErrorIs(t, NewDeleteAccount(e.repo, nil, e.now).Execute(e.ctx, user.ID), domain.ErrUserNotFound)
}

func TestUploadShopImage(t *testing.T) {
	e := newEnv(t)
	ownerUser, _ := e.f.Barber("Ivan")
	strangerUser, _ := e.f.Barber("Petar")
	shop := e.ownedShop(ownerUser, "Fade")
	store := storage.NewMemoryImageStore()
	uc := NewUploadShopImage(e.repo, store, nil)

	pic := func() *bytes.Buffer {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))
		return &buf
	}

	updated, err := uc.Execute(e.ctx, UploadShopImageInput{ShopID: shop.ID, CallerUserID: ownerUser.ID, Image: pic()})
	require.NoError(t, err)
	first := updated.ImageName
	_, ok := store.Get(first)
	assert.True(t, ok)

	updated, err = uc.Execute(e.ctx, UploadShopImageInput{ShopID: shop.ID, CallerUserID: ownerUser.ID, Image: pic()})
	require.NoError(t, err)
	assert.NotEqual(t, first, updated.ImageName)
	_, ok = store.Get(first)
	assert.False(t, ok, "previous image is removed")

	_, err = uc.Execute(e.ctx, UploadShopImageInput{ShopID: shop.ID, CallerUserID: strangerUser.ID, Image: pic()})
	assert.ErrorIs(t, err, domain.ErrNotOwner)

	_, err = uc.Execute(e.ctx, UploadShopImageInput{ShopID: shop.ID, CallerUserID: ownerUser.ID, Image: bytes.NewBufferString("nope")})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// recordingStore keeps the names currently stored.
type recordingStore struct {
	names map[string]struct{}
}

func (s *recordingStore) Put(_ context.Context, name string, _ []byte) error {
	s.names[name] = struct{}{}
	return nil
}

func (s *recordingStore) Delete(_ context.Context, name string) error {
	delete(s.names, name)
	return nil
}

var errSaveFailed = errors.New("save failed")

// saveFailingRepo fails every shop save, inside transactions too.
type saveFailingRepo struct {
	domain.Repository
}

func (r saveFailingRepo) WithinTx(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repository.WithinTx(ctx, func(tx domain.Repository) error {
		return fn(saveFailingRepo{tx})
	})
}

func (saveFailingRepo) SaveBarbershop(context.Context, *models.Barbershop) error {
	return errSaveFailed
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("client went away")
}

func TestUploadShopImageFailures(t *testing.T) {
	e := newEnv(t)
	ownerUser, _ := e.f.Barber("Ivan")
	shop := e.ownedShop(ownerUser, "Fade")
	store := &recordingStore{names: map[string]struct{}{}}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 20))))

	_, err := NewUploadShopImage(saveFailingRepo{e.repo}, store, nil).Execute(e.ctx, UploadShopImageInput{
		ShopID:       shop.ID,
		CallerUserID: ownerUser.ID,
		Image:        &buf,
	})
	assert.ErrorIs(t, err, errSaveFailed)
	assert.Empty(t, store.names, "stored image is removed when the shop is not updated")

	_, err = NewUploadShopImage(e.repo, store, nil).Execute(e.ctx, UploadShopImageInput{
		ShopID:       shop.ID,
		CallerUserID: ownerUser.ID,
		Image:        failingReader{},
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidImage, "a broken upload is not a bad image")
	assert.Empty(t, store.names)
}

func TestShopQueries(t *testing.T) {
	e := newEnv(t)
	ownerUser, _ := e.f.Barber("Ivan")
	strangerUser, _ := e.f.Barber("Petar")

	public := e.ownedShop(ownerUser, "Fade")
	form := sofiaForm("Hidden")
	form.IsPublic = false
	hidden, err := NewCreateShop(e.repo, nil, e.now).Execute(e.ctx, CreateShopInput{Form: form, CallerUserID: ownerUser.ID})
	require.NoError(t, err)
	e.f.Offer(public, "Fade", 20)

	shops, err := NewListPublicShops(e.repo).Execute(e.ctx, "sofia")
	require.NoError(t, err)
	require.Len(t, shops, 1)
	assert.Equal(t, public.ID, shops[0].ID)
	assert.Equal(t, "Sofia", shops[0].City.Name)

	shops, err = NewListPublicShops(e.repo).Execute(e.ctx, "Varna")
	require.NoError(t, err)
	assert.Empty(t, shops)

	details := NewGetShopDetails(e.repo)
	d, err := details.Execute(e.ctx, public.ID, 0)
	require.NoError(t, err)
	require.Len(t, d.Offerings, 1)
	assert.Equal(t, "Fade", d.Offerings[0].Service.Name)
	require.Len(t, d.Members, 1)

	_, err = details.Execute(e.ctx, hidden.ID, 0)
	assert.ErrorIs(t, err, domain.ErrBarbershopNotFound)
	_, err = details.Execute(e.ctx, hidden.ID, strangerUser.ID)
	assert.ErrorIs(t, err, domain.ErrBarbershopNotFound)
	_, err = details.Execute(e.ctx, hidden.ID, ownerUser.ID)
	assert.NoError(t, err)
}

func TestShopOwnerCheck(t *testing.T) {
	e := newEnv(t)
	ownerUser, _ := e.f.Barber("Ivan")
	employeeUser, employee := e.f.Barber("Petar")
	shop := e.ownedShop(ownerUser, "Fade")
	e.f.Member(shop, employee, false, true)

	check := NewShopOwnerCheck(e.repo)

	ok, err := check.Execute(e.ctx, shop.ID, ownerUser.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = check.Execute(e.ctx, shop.ID, employeeUser.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = check.Execute(e.ctx, shop.ID, e.f.User("Maria").ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = check.Execute(e.ctx, 999, ownerUser.ID)
	assert.ErrorIs(t, err, domain.ErrBarbershopNotFound)
}
