package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainidentity "github.com/lilpaf/Super-Barber-sub000/internal/domain/identity"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

type LifecycleGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*LifecycleGormRepository)(nil)

func NewLifecycleGormRepository(db *gorm.DB) *LifecycleGormRepository {
	return &LifecycleGormRepository{db: db}
}

func (r *LifecycleGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LifecycleGormRepository{db: tx})
	})
}

func (r *LifecycleGormRepository) Directory() domainidentity.Directory {
	return identity.NewGormDirectory(r.db)
}

// --------------------------------------------------
// City / District
// --------------------------------------------------

func (r *LifecycleGormRepository) FindOrCreateCity(
	ctx context.Context,
	name string,
) (*models.City, error) {

	name = validators.NormalizeLookupName(name)

	var city models.City
	found, err := first(
		r.db.WithContext(ctx).Where("LOWER(REPLACE(name, ' ', '')) = ?", validators.CompactKey(name)),
		&city,
	)
	if err != nil {
		return nil, err
	}
	if found {
		return &city, nil
	}

	city = models.City{Name: name}
	if err := r.db.WithContext(ctx).Create(&city).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *LifecycleGormRepository) FindOrCreateDistrict(
	ctx context.Context,
	name string,
) (*models.District, error) {

	name = validators.NormalizeLookupName(name)

	var district models.District
	found, err := first(
		r.db.WithContext(ctx).Where("LOWER(REPLACE(name, ' ', '')) = ?", validators.CompactKey(name)),
		&district,
	)
	if err != nil {
		return nil, err
	}
	if found {
		return &district, nil
	}

	district = models.District{Name: name}
	if err := r.db.WithContext(ctx).Create(&district).Error; err != nil {
		return nil, err
	}
	return &district, nil
}

// DeleteCityIfOrphaned removes the city when no shop, deleted or not,
// references it.
func (r *LifecycleGormRepository) DeleteCityIfOrphaned(
	ctx context.Context,
	cityID uint,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barbershop{}).
		Where("city_id = ?", cityID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.City{}, cityID).Error
}

func (r *LifecycleGormRepository) DeleteDistrictIfOrphaned(
	ctx context.Context,
	districtID uint,
) error {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Barbershop{}).
		Where("district_id = ?", districtID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.District{}, districtID).Error
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *LifecycleGormRepository) GetBarbershop(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	found, err := first(
		r.db.WithContext(ctx).Preload("City").Preload("District").Where("id = ?", id),
		&shop,
	)
	if err != nil || !found {
		return nil, err
	}
	return &shop, nil
}

func (r *LifecycleGormRepository) LockBarbershop(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	found, err := first(
		r.db.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("City").
			Preload("District").
			Where("id = ?", id),
		&shop,
	)
	if err != nil || !found {
		return nil, err
	}
	return &shop, nil
}

func (r *LifecycleGormRepository) ListBarbershopsInArea(
	ctx context.Context,
	cityID uint,
	districtID uint,
) ([]models.Barbershop, error) {

	var shops []models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("city_id = ? AND district_id = ?", cityID, districtID).
		Order("id ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *LifecycleGormRepository) ListPublicBarbershops(
	ctx context.Context,
	cityName string,
) ([]models.Barbershop, error) {

	q := r.db.WithContext(ctx).
		Preload("City").
		Preload("District").
		Where("barbershops.is_public = ? AND barbershops.is_deleted = ?", true, false)

	if cityName != "" {
		q = q.Joins("JOIN cities ON cities.id = barbershops.city_id").
			Where("LOWER(REPLACE(cities.name, ' ', '')) = ?", validators.CompactKey(cityName))
	}

	var shops []models.Barbershop
	if err := q.Order("barbershops.name ASC").Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

func (r *LifecycleGormRepository) CreateBarbershop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(shop).Error
}

func (r *LifecycleGormRepository) SaveBarbershop(
	ctx context.Context,
	shop *models.Barbershop,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(shop).Error
}

// --------------------------------------------------
// Membership
// --------------------------------------------------

func (r *LifecycleGormRepository) ListMemberships(
	ctx context.Context,
	shopID uint,
) ([]models.Membership, error) {

	var ms []models.Membership
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where("barbershop_id = ?", shopID).
		Order("barber_id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *LifecycleGormRepository) ListMembershipsForBarber(
	ctx context.Context,
	barberID uint,
) ([]models.Membership, error) {

	var ms []models.Membership
	if err := r.db.WithContext(ctx).
		Preload("Barbershop").
		Where("barber_id = ?", barberID).
		Order("barbershop_id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return ms, nil
}

func (r *LifecycleGormRepository) GetMembership(
	ctx context.Context,
	shopID uint,
	barberID uint,
) (*models.Membership, error) {

	var m models.Membership
	found, err := first(
		r.db.WithContext(ctx).
			Preload("Barber").
			Where("barbershop_id = ? AND barber_id = ?", shopID, barberID),
		&m,
	)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (r *LifecycleGormRepository) CreateMembership(
	ctx context.Context,
	m *models.Membership,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

// UpdateMembership writes both flags explicitly so false values are stored.
func (r *LifecycleGormRepository) UpdateMembership(
	ctx context.Context,
	m *models.Membership,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Where("barbershop_id = ? AND barber_id = ?", m.BarbershopID, m.BarberID).
		Updates(map[string]any{
			"is_owner":     m.IsOwner,
			"is_available": m.IsAvailable,
		}).Error
}

func (r *LifecycleGormRepository) DeleteMembership(
	ctx context.Context,
	shopID uint,
	barberID uint,
) error {
	return r.db.WithContext(ctx).
		Where("barbershop_id = ? AND barber_id = ?", shopID, barberID).
		Delete(&models.Membership{}).Error
}

func (r *LifecycleGormRepository) DeleteMembershipsForShop(
	ctx context.Context,
	shopID uint,
) error {
	return r.db.WithContext(ctx).
		Where("barbershop_id = ?", shopID).
		Delete(&models.Membership{}).Error
}

func (r *LifecycleGormRepository) CountOwnedShops(
	ctx context.Context,
	barberID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Membership{}).
		Joins("JOIN barbershops ON barbershops.id = memberships.barbershop_id").
		Where("memberships.barber_id = ? AND memberships.is_owner = ? AND barbershops.is_deleted = ?", barberID, true, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *LifecycleGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var b models.Barber
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (r *LifecycleGormRepository) GetBarberByUserID(
	ctx context.Context,
	userID uint,
) (*models.Barber, error) {

	var b models.Barber
	found, err := first(r.db.WithContext(ctx).Where("user_id = ?", userID), &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (r *LifecycleGormRepository) CreateBarber(
	ctx context.Context,
	b *models.Barber,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *LifecycleGormRepository) SaveBarber(
	ctx context.Context,
	b *models.Barber,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// --------------------------------------------------
// Service / Offering
// --------------------------------------------------

func (r *LifecycleGormRepository) GetCategory(
	ctx context.Context,
	id uint,
) (*models.Category, error) {

	var c models.Category
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *LifecycleGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var s models.Service
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *LifecycleGormRepository) ListServicesInCategory(
	ctx context.Context,
	categoryID uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *LifecycleGormRepository) CreateService(
	ctx context.Context,
	s *models.Service,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *LifecycleGormRepository) SaveService(
	ctx context.Context,
	s *models.Service,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error
}

func (r *LifecycleGormRepository) GetOffering(
	ctx context.Context,
	shopID uint,
	serviceID uint,
) (*models.Offering, error) {

	var o models.Offering
	found, err := first(
		r.db.WithContext(ctx).
			Preload("Service").
			Where("barbershop_id = ? AND service_id = ?", shopID, serviceID),
		&o,
	)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (r *LifecycleGormRepository) ListOfferings(
	ctx context.Context,
	shopID uint,
) ([]models.Offering, error) {

	var offerings []models.Offering
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Service.Category").
		Where("barbershop_id = ?", shopID).
		Order("service_id ASC").
		Find(&offerings).Error; err != nil {
		return nil, err
	}
	return offerings, nil
}

func (r *LifecycleGormRepository) CreateOffering(
	ctx context.Context,
	o *models.Offering,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *LifecycleGormRepository) DeleteOffering(
	ctx context.Context,
	shopID uint,
	serviceID uint,
) error {
	return r.db.WithContext(ctx).
		Where("barbershop_id = ? AND service_id = ?", shopID, serviceID).
		Delete(&models.Offering{}).Error
}

func (r *LifecycleGormRepository) CountOfferings(
	ctx context.Context,
	serviceID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Offering{}).
		Where("service_id = ?", serviceID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *LifecycleGormRepository) SoftDeleteOrders(
	ctx context.Context,
	filter domain.OrderFilter,
	at time.Time,
) (int64, error) {

	// an unfiltered update would wipe every order
	if filter.IsEmpty() {
		return 0, nil
	}

	q := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("is_deleted = ?", false)

	if filter.BarbershopID != 0 {
		q = q.Where("barbershop_id = ?", filter.BarbershopID)
	}
	if filter.BarberID != 0 {
		q = q.Where("barber_id = ?", filter.BarberID)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.After != nil {
		q = q.Where("scheduled_at > ?", filter.After.UTC())
	}

	at = at.UTC()
	res := q.Updates(map[string]any{
		"is_deleted": true,
		"deleted_at": at,
	})
	return res.RowsAffected, res.Error
}
