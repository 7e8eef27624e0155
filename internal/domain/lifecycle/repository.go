package lifecycle

import (
	"context"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/domain/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// Repository is the persistence gateway for shops, barbers, memberships and
// services. Single-row lookups return (nil, nil) when nothing matches and do
// not filter soft-deleted rows unless their name says so.
type Repository interface {
	// WithinTx runs fn inside one transaction; fn must only use tx.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
	Directory() identity.Directory

	// -------- City / District --------
	FindOrCreateCity(ctx context.Context, name string) (*models.City, error)
	FindOrCreateDistrict(ctx context.Context, name string) (*models.District, error)
	DeleteCityIfOrphaned(ctx context.Context, cityID uint) error
	DeleteDistrictIfOrphaned(ctx context.Context, districtID uint) error

	// -------- Barbershop --------
	GetBarbershop(ctx context.Context, id uint) (*models.Barbershop, error)
	// LockBarbershop is GetBarbershop holding the row lock until the
	// transaction ends. Every membership change takes it first so concurrent
	// changes to one shop run one after another.
	LockBarbershop(ctx context.Context, id uint) (*models.Barbershop, error)
	ListBarbershopsInArea(ctx context.Context, cityID, districtID uint) ([]models.Barbershop, error)
	ListPublicBarbershops(ctx context.Context, cityName string) ([]models.Barbershop, error)
	CreateBarbershop(ctx context.Context, shop *models.Barbershop) error
	SaveBarbershop(ctx context.Context, shop *models.Barbershop) error

	// -------- Membership --------
	// ListMemberships returns the shop's memberships with Barber loaded,
	// ordered by barber id.
	ListMemberships(ctx context.Context, shopID uint) ([]models.Membership, error)
	// ListMembershipsForBarber returns memberships with Barbershop loaded.
	ListMembershipsForBarber(ctx context.Context, barberID uint) ([]models.Membership, error)
	GetMembership(ctx context.Context, shopID, barberID uint) (*models.Membership, error)
	CreateMembership(ctx context.Context, m *models.Membership) error
	UpdateMembership(ctx context.Context, m *models.Membership) error
	DeleteMembership(ctx context.Context, shopID, barberID uint) error
	DeleteMembershipsForShop(ctx context.Context, shopID uint) error
	// CountOwnedShops counts owner memberships in non-deleted shops.
	CountOwnedShops(ctx context.Context, barberID uint) (int64, error)

	// -------- Barber --------
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)
	CreateBarber(ctx context.Context, b *models.Barber) error
	SaveBarber(ctx context.Context, b *models.Barber) error

	// -------- Service / Offering --------
	GetCategory(ctx context.Context, id uint) (*models.Category, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListServicesInCategory(ctx context.Context, categoryID uint) ([]models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	SaveService(ctx context.Context, s *models.Service) error
	GetOffering(ctx context.Context, shopID, serviceID uint) (*models.Offering, error)
	// ListOfferings returns the shop's offerings with Service loaded.
	ListOfferings(ctx context.Context, shopID uint) ([]models.Offering, error)
	CreateOffering(ctx context.Context, o *models.Offering) error
	DeleteOffering(ctx context.Context, shopID, serviceID uint) error
	CountOfferings(ctx context.Context, serviceID uint) (int64, error)

	// -------- Order --------
	// SoftDeleteOrders marks every live order matching filter as deleted at
	// the given instant and returns how many rows changed.
	SoftDeleteOrders(ctx context.Context, filter OrderFilter, at time.Time) (int64, error)
}

// OrderFilter selects live orders. Zero fields do not filter.
type OrderFilter struct {
	BarbershopID uint
	BarberID     uint
	UserID       uint
	// After restricts to orders scheduled strictly after the instant.
	After *time.Time
}

func (f OrderFilter) IsEmpty() bool {
	return f.BarbershopID == 0 && f.BarberID == 0 && f.UserID == 0
}
