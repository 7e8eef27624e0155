package booking

import (
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

const (
	// LeadTime is the minimum gap between now and a bookable instant.
	LeadTime = 15 * time.Minute

	// CustomerCancelWindow is how long before the slot a customer may still cancel.
	CustomerCancelWindow = 30 * time.Minute
)

// ===============================
// Slot
// ===============================

// Slot is the requested booking instant and its local time of day.
type Slot struct {
	At      time.Time // UTC, minute precision
	Minutes int       // minutes since local midnight
}

// ParseSlot parses the date and the time independently and combines them in
// loc.
func ParseSlot(date, clock string, loc *time.Location) (Slot, error) {
	d, ok := validators.ParseDate(date)
	if !ok {
		return Slot{}, ErrInvalidDate
	}

	minutes, ok := validators.ParseTimeOfDay(clock)
	if !ok {
		return Slot{}, ErrInvalidTime
	}

	at := validators.CombineInLocation(d, minutes, loc).UTC()
	return Slot{At: at, Minutes: minutes}, nil
}

// WithinHours reports whether minutes falls inside the shop's opening window,
// both ends included.
func WithinHours(shop models.Barbershop, minutes int) bool {
	open, ok := validators.ParseTimeOfDay(shop.StartHour)
	if !ok {
		return false
	}
	closing, ok := validators.ParseTimeOfDay(shop.FinishHour)
	if !ok {
		return false
	}
	return minutes >= open && minutes <= closing
}

// Bookable reports whether the shop accepts bookings at all.
func Bookable(shop *models.Barbershop) bool {
	return shop != nil && shop.IsPublic && shop.Active()
}

// CheckLeadTime fails when at is closer to now than LeadTime.
func CheckLeadTime(at, now time.Time, loc *time.Location) error {
	earliest := now.Add(LeadTime)
	if at.Before(earliest) {
		return TooSoon(earliest, loc)
	}
	return nil
}

// ===============================
// Barber selection
// ===============================

// Candidates keeps the memberships whose barber can take bookings, in the
// given order.
func Candidates(ms []models.Membership) []models.Membership {
	out := make([]models.Membership, 0, len(ms))
	for _, m := range ms {
		if !m.IsAvailable || m.Barber.ID == 0 || m.Barber.IsDeleted {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SelectBarber returns the first candidate for which free reports true.
// There is no load balancing; enumeration order decides.
func SelectBarber(
	candidates []models.Membership,
	free func(m models.Membership) (bool, error),
) (*models.Membership, error) {
	for i := range candidates {
		ok, err := free(candidates[i])
		if err != nil {
			return nil, err
		}
		if ok {
			return &candidates[i], nil
		}
	}
	return nil, nil
}

// ===============================
// Cancellation
// ===============================

func CanCancelAsCustomer(o *models.Order, userID uint, now time.Time) error {
	if o.UserID != userID {
		return ErrNotOrderOwner
	}
	if o.IsDeleted {
		return ErrCannotCancel
	}
	if !now.Before(o.ScheduledAt.Add(-CustomerCancelWindow)) {
		return ErrCannotCancel
	}
	return nil
}

func CanCancelAsBarber(o *models.Order, barberID uint, now time.Time) error {
	if o.BarberID != barberID {
		return ErrNotAssignedBarber
	}
	if o.IsDeleted {
		return ErrCannotCancel
	}
	if now.After(o.ScheduledAt) {
		return ErrCannotCancel
	}
	return nil
}
