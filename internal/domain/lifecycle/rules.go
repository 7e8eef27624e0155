package lifecycle

import (
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

// ===============================
// Working hours
// ===============================

// ValidateHours checks both times parse and that the shop opens strictly
// before it closes. It returns the normalized "HH:mm" strings.
func ValidateHours(start, finish string) (string, string, error) {
	open, ok := validators.ParseTimeOfDay(start)
	if !ok {
		return "", "", httperr.Invalid("invalid_start_hour", "StartHour", "Opening hour must be a time of day like 09:00.")
	}

	closing, ok := validators.ParseTimeOfDay(finish)
	if !ok {
		return "", "", httperr.Invalid("invalid_finish_hour", "FinishHour", "Closing hour must be a time of day like 18:00.")
	}

	if open >= closing {
		return "", "", httperr.Invalid("hours_out_of_order", "StartHour", "Opening hour must be before closing hour.")
	}

	return validators.FormatTimeOfDay(open), validators.FormatTimeOfDay(closing), nil
}

// ===============================
// Natural keys
// ===============================

// ShopKey is the human-meaningful identity of a barbershop.
type ShopKey struct {
	Name       string
	CityID     uint
	DistrictID uint
	Street     string
}

func NewShopKey(name string, cityID, districtID uint, street string) ShopKey {
	return ShopKey{
		Name:       validators.CompactKey(name),
		CityID:     cityID,
		DistrictID: districtID,
		Street:     validators.NormalizeStreet(street),
	}
}

func KeyOf(shop models.Barbershop) ShopKey {
	return NewShopKey(shop.Name, shop.CityID, shop.DistrictID, shop.Street)
}

// MatchShop returns the active and the soft-deleted shop matching key, if any.
// exceptID skips one shop (the one being edited).
func MatchShop(candidates []models.Barbershop, key ShopKey, exceptID uint) (active, deleted *models.Barbershop) {
	for i := range candidates {
		s := &candidates[i]
		if s.ID == exceptID || KeyOf(*s) != key {
			continue
		}
		if s.IsDeleted {
			if deleted == nil {
				deleted = s
			}
			continue
		}
		if active == nil {
			active = s
		}
	}
	return active, deleted
}

// MatchService finds a service by compacted name among services of one
// category, deleted ones included.
func MatchService(services []models.Service, name string) *models.Service {
	key := validators.CompactKey(name)
	for i := range services {
		if validators.CompactKey(services[i].Name) == key {
			return &services[i]
		}
	}
	return nil
}

// ===============================
// Membership invariant
// ===============================

func Owners(ms []models.Membership) []models.Membership {
	var out []models.Membership
	for _, m := range ms {
		if m.IsOwner {
			out = append(out, m)
		}
	}
	return out
}

func FindMembership(ms []models.Membership, barberID uint) *models.Membership {
	for i := range ms {
		if ms[i].BarberID == barberID {
			return &ms[i]
		}
	}
	return nil
}

// EnsureOwnerInvariant fails when a shop has members but no owner.
func EnsureOwnerInvariant(ms []models.Membership) error {
	if len(ms) > 0 && len(Owners(ms)) == 0 {
		return ErrLastOwner
	}
	return nil
}

// IsSoleOwner reports whether barberID is the only owner among ms.
func IsSoleOwner(ms []models.Membership, barberID uint) bool {
	owners := Owners(ms)
	return len(owners) == 1 && owners[0].BarberID == barberID
}
