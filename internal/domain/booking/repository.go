package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/domain/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// Repository is the persistence gateway for allocation and cancellation.
// Single-row lookups return (nil, nil) when nothing matches.
type Repository interface {
	WithinTx(ctx context.Context, fn func(tx Repository) error) error
	Directory() identity.Directory

	// -------- Barbershop --------
	GetBarbershop(ctx context.Context, id uint) (*models.Barbershop, error)
	// GetOffering returns the offering with Service loaded.
	GetOffering(ctx context.Context, shopID, serviceID uint) (*models.Offering, error)
	// ListMemberships returns the shop's memberships with Barber loaded,
	// ordered by barber id.
	ListMemberships(ctx context.Context, shopID uint) ([]models.Membership, error)

	// -------- Barber --------
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetBarberByUserID(ctx context.Context, userID uint) (*models.Barber, error)

	// -------- Order --------
	// HasOrderAt reports whether the barber holds a live order at exactly at.
	HasOrderAt(ctx context.Context, barberID uint, at time.Time) (bool, error)
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order) error
	// ListOrdersForUser and ListOrdersForBarber return live orders with
	// Barber, Barbershop and Service loaded, soonest first.
	ListOrdersForUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListOrdersForBarber(ctx context.Context, barberID uint) ([]models.Order, error)
}

// SlotLocker serializes bookings of one (barber, instant) pair across
// requests. TryLock never waits: ok is false when someone else holds the slot.
type SlotLocker interface {
	TryLock(ctx context.Context, barberID uint, at time.Time) (unlock func(), ok bool, err error)
}

// SlotKey is the lock key of a (barber, instant) pair.
func SlotKey(barberID uint, at time.Time) string {
	return fmt.Sprintf("slot:%d:%d", barberID, at.UTC().Unix())
}
