package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	domainidentity "github.com/lilpaf/Super-Barber-sub000/internal/domain/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

var _ domain.Repository = (*BookingGormRepository)(nil)

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func (r *BookingGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

func (r *BookingGormRepository) Directory() domainidentity.Directory {
	return identity.NewGormDirectory(r.db)
}

// --------------------------------------------------
// Barbershop
// --------------------------------------------------

func (r *BookingGormRepository) GetBarbershop(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	found, err := first(r.db.WithContext(ctx).Where("id = ?", id), &shop)
	if err != nil || !found {
		return nil, err
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetOffering(
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

func (r *BookingGormRepository) ListMemberships(
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

// --------------------------------------------------
// Barber
// --------------------------------------------------

func (r *BookingGormRepository) GetBarber(
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

func (r *BookingGormRepository) GetBarberByUserID(
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

// --------------------------------------------------
// Order
// --------------------------------------------------

// HasOrderAt locks the matching row on postgres so a concurrent booking of the
// same slot waits for this transaction.
func (r *BookingGormRepository) HasOrderAt(
	ctx context.Context,
	barberID uint,
	at time.Time,
) (bool, error) {

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("barber_id = ? AND scheduled_at = ? AND is_deleted = ?", barberID, at.UTC(), false).
		Limit(1).
		Pluck("id", &ids).Error; err != nil {
		return false, err
	}
	return len(ids) > 0, nil
}

func (r *BookingGormRepository) CreateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	o.ScheduledAt = o.ScheduledAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *BookingGormRepository) GetOrder(
	ctx context.Context,
	id string,
) (*models.Order, error) {

	var o models.Order
	found, err := first(
		r.db.WithContext(ctx).
			Preload("User").
			Preload("Barber").
			Preload("Barbershop").
			Preload("Service").
			Where("id = ?", id),
		&o,
	)
	if err != nil || !found {
		return nil, err
	}
	return &o, nil
}

func (r *BookingGormRepository) SaveOrder(
	ctx context.Context,
	o *models.Order,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(o).Error
}

func (r *BookingGormRepository) ListOrdersForUser(
	ctx context.Context,
	userID uint,
) ([]models.Order, error) {
	return r.listOrders(ctx, "user_id = ?", userID)
}

func (r *BookingGormRepository) ListOrdersForBarber(
	ctx context.Context,
	barberID uint,
) ([]models.Order, error) {
	return r.listOrders(ctx, "barber_id = ?", barberID)
}

func (r *BookingGormRepository) listOrders(
	ctx context.Context,
	cond string,
	id uint,
) ([]models.Order, error) {

	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Barber").
		Preload("Barbershop").
		Preload("Service").
		Where(cond, id).
		Where("is_deleted = ?", false).
		Order("scheduled_at ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
