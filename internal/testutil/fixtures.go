package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// Fixtures inserts rows directly, bypassing the use cases.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
	n  int
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) User(first string) *models.User {
	f.t.Helper()
	f.n++

	u := &models.User{
		FirstName:    first,
		LastName:     "Test",
		Email:        fmt.Sprintf("%s.%d@example.com", first, f.n),
		PhoneNumber:  "+359888000000",
		PasswordHash: "x",
	}
	require.NoError(f.t, f.db.Create(u).Error)
	return u
}

func (f *Fixtures) Role(u *models.User, role models.Role) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(&models.UserRole{UserID: u.ID, Role: role}).Error)
}

// Barber creates a user with an active barber profile and the Barber role.
func (f *Fixtures) Barber(first string) (*models.User, *models.Barber) {
	f.t.Helper()

	u := f.User(first)
	b := &models.Barber{
		UserID:      u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}
	require.NoError(f.t, f.db.Create(b).Error)
	f.Role(u, models.RoleBarber)
	return u, b
}

// Shop creates a public shop open 09:00-18:00.
func (f *Fixtures) Shop(name string) *models.Barbershop {
	f.t.Helper()
	f.n++

	city := &models.City{Name: fmt.Sprintf("City%d", f.n)}
	require.NoError(f.t, f.db.Create(city).Error)
	district := &models.District{Name: fmt.Sprintf("District%d", f.n)}
	require.NoError(f.t, f.db.Create(district).Error)

	s := &models.Barbershop{
		Name:       name,
		CityID:     city.ID,
		DistrictID: district.ID,
		Street:     "Vitosha 1",
		StartHour:  "09:00",
		FinishHour: "18:00",
		IsPublic:   true,
	}
	require.NoError(f.t, f.db.Create(s).Error)
	return s
}

func (f *Fixtures) Member(shop *models.Barbershop, b *models.Barber, owner, available bool) {
	f.t.Helper()

	m := &models.Membership{
		BarbershopID: shop.ID,
		BarberID:     b.ID,
		IsOwner:      owner,
		IsAvailable:  available,
	}
	require.NoError(f.t, f.db.Omit("Barber", "Barbershop").Create(m).Error)

	if owner {
		require.NoError(f.t, f.db.Exec(
			"INSERT INTO user_roles (user_id, role) SELECT ?, ? WHERE NOT EXISTS (SELECT 1 FROM user_roles WHERE user_id = ? AND role = ?)",
			b.UserID, models.RoleOwner, b.UserID, models.RoleOwner,
		).Error)
	}
}

// Offer creates a service in the Haircut category and offers it at shop.
func (f *Fixtures) Offer(shop *models.Barbershop, name string, price float64) *models.Service {
	f.t.Helper()

	var cat models.Category
	require.NoError(f.t, f.db.Where("name = ?", "Haircut").First(&cat).Error)

	s := &models.Service{Name: name, CategoryID: cat.ID}
	require.NoError(f.t, f.db.Omit("Category").Create(s).Error)
	require.NoError(f.t, f.db.Omit("Service", "Barbershop").Create(&models.Offering{
		ServiceID:    s.ID,
		BarbershopID: shop.ID,
		Price:        price,
	}).Error)
	return s
}

func (f *Fixtures) Reload(dest any, id any) {
	f.t.Helper()
	require.NoError(f.t, f.db.First(dest, id).Error)
}
