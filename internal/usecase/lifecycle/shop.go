package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

// ======================================================
// INPUT
// ======================================================

type ShopForm struct {
	Name       string `json:"name" validate:"required,max=100"`
	City       string `json:"city" validate:"required,max=60"`
	District   string `json:"district" validate:"required,max=60"`
	Street     string `json:"street" validate:"required,max=100"`
	StartHour  string `json:"start_hour" validate:"required"`
	FinishHour string `json:"finish_hour" validate:"required"`
	IsPublic   bool   `json:"is_public"`
}

// resolvedShop is a validated form with its lookup rows in place.
type resolvedShop struct {
	form     ShopForm
	start    string
	finish   string
	city     *models.City
	district *models.District
}

func (r resolvedShop) key() domain.ShopKey {
	return domain.NewShopKey(r.form.Name, r.city.ID, r.district.ID, r.form.Street)
}

func (r resolvedShop) applyTo(shop *models.Barbershop) {
	shop.Name = strings.TrimSpace(r.form.Name)
	shop.CityID = r.city.ID
	shop.City = *r.city
	shop.DistrictID = r.district.ID
	shop.District = *r.district
	shop.Street = strings.TrimSpace(r.form.Street)
	shop.StartHour = r.start
	shop.FinishHour = r.finish
	shop.IsPublic = r.form.IsPublic
}

func validateShopForm(form ShopForm) (resolvedShop, error) {
	if err := validators.Struct(form); err != nil {
		return resolvedShop{}, err
	}

	start, finish, err := domain.ValidateHours(form.StartHour, form.FinishHour)
	if err != nil {
		return resolvedShop{}, err
	}

	if validators.NormalizeLookupName(form.City) == "" {
		return resolvedShop{}, domain.ErrInvalidCity
	}
	if validators.NormalizeLookupName(form.District) == "" {
		return resolvedShop{}, domain.ErrInvalidDistrict
	}

	return resolvedShop{form: form, start: start, finish: finish}, nil
}

// resolveArea finds or creates the city and district of the form.
func resolveArea(ctx context.Context, tx domain.Repository, r *resolvedShop) error {
	city, err := tx.FindOrCreateCity(ctx, r.form.City)
	if err != nil {
		return err
	}
	district, err := tx.FindOrCreateDistrict(ctx, r.form.District)
	if err != nil {
		return err
	}
	r.city = city
	r.district = district
	return nil
}

// ======================================================
// CREATE
// ======================================================

type CreateShopInput struct {
	Form         ShopForm
	CallerUserID uint
}

type CreateShop struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewCreateShop(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CreateShop {
	return &CreateShop{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

// Execute creates the shop, or restores a deleted one with the same natural
// key. The caller's barber becomes its only owner.
func (uc *CreateShop) Execute(
	ctx context.Context,
	in CreateShopInput,
) (shop *models.Barbershop, err error) {

	ctx, span := startSpan(ctx, "CreateShop")
	defer func() { endSpan(span, err) }()

	resolved, err := validateShopForm(in.Form)
	if err != nil {
		return nil, err
	}

	if _, err := activeUser(ctx, uc.repo, in.CallerUserID); err != nil {
		return nil, err
	}

	barber, err := barberOfUser(ctx, uc.repo, in.CallerUserID)
	if err != nil {
		return nil, err
	}
	if barber == nil {
		return nil, domain.ErrNotABarber
	}

	restored := false

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		if err := resolveArea(ctx, tx, &resolved); err != nil {
			return err
		}

		candidates, err := tx.ListBarbershopsInArea(ctx, resolved.city.ID, resolved.district.ID)
		if err != nil {
			return err
		}

		active, deleted := domain.MatchShop(candidates, resolved.key(), 0)
		if active != nil {
			return domain.ErrShopExists
		}

		// -------- restore or insert --------
		if deleted != nil {
			shop, err = tx.LockBarbershop(ctx, deleted.ID)
			if err != nil {
				return err
			}
			if shop == nil {
				return domain.ErrBarbershopNotFound
			}
			if !shop.IsDeleted {
				return domain.ErrShopExists
			}
			resolved.applyTo(shop)
			shop.Restore()
			if err := tx.SaveBarbershop(ctx, shop); err != nil {
				return err
			}
			if err := tx.DeleteMembershipsForShop(ctx, shop.ID); err != nil {
				return err
			}
			restored = true
		} else {
			shop = &models.Barbershop{}
			resolved.applyTo(shop)
			if err := tx.CreateBarbershop(ctx, shop); err != nil {
				return err
			}
		}

		// -------- sole owner --------
		return withMembershipMutation(ctx, tx, shop.ID, []models.Barber{*barber}, func() error {
			return tx.CreateMembership(ctx, &models.Membership{
				BarberID:     barber.ID,
				BarbershopID: shop.ID,
				IsOwner:      true,
				IsAvailable:  true,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	action := audit.ActionShopCreated
	if restored {
		action = audit.ActionShopRestored
	}
	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(shop.ID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       action,
		Entity:       "barbershop",
		EntityID:     audit.ID(shop.ID),
	})

	return shop, nil
}

// ======================================================
// EDIT
// ======================================================

type EditShopInput struct {
	ShopID       uint
	Form         ShopForm
	CallerUserID uint
	IsAdmin      bool
}

type EditShop struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewEditShop(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *EditShop {
	return &EditShop{
		repo:  repo,
		audit: audit,
	}
}

func (uc *EditShop) Execute(
	ctx context.Context,
	in EditShopInput,
) (shop *models.Barbershop, err error) {

	ctx, span := startSpan(ctx, "EditShop")
	defer func() { endSpan(span, err) }()

	resolved, err := validateShopForm(in.Form)
	if err != nil {
		return nil, err
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		shop, err = lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}

		if !in.IsAdmin {
			if _, _, err := ownerCaller(ctx, tx, shop.ID, in.CallerUserID); err != nil {
				return err
			}
		}

		if err := resolveArea(ctx, tx, &resolved); err != nil {
			return err
		}

		candidates, err := tx.ListBarbershopsInArea(ctx, resolved.city.ID, resolved.district.ID)
		if err != nil {
			return err
		}
		if active, _ := domain.MatchShop(candidates, resolved.key(), shop.ID); active != nil {
			return domain.ErrShopExists
		}

		oldCity, oldDistrict := shop.CityID, shop.DistrictID
		resolved.applyTo(shop)
		if err := tx.SaveBarbershop(ctx, shop); err != nil {
			return err
		}

		// -------- lookup garbage collection --------
		if oldCity != shop.CityID {
			if err := tx.DeleteCityIfOrphaned(ctx, oldCity); err != nil {
				return err
			}
		}
		if oldDistrict != shop.DistrictID {
			if err := tx.DeleteDistrictIfOrphaned(ctx, oldDistrict); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(shop.ID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionShopEdited,
		Entity:       "barbershop",
		EntityID:     audit.ID(shop.ID),
		Metadata:     map[string]bool{"admin": in.IsAdmin},
	})

	return shop, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteShopInput struct {
	ShopID       uint
	CallerUserID uint
	IsAdmin      bool
}

type DeleteShop struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewDeleteShop(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *DeleteShop {
	return &DeleteShop{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

// Execute lets an administrator delete any shop; anyone else must be its
// only owner.
func (uc *DeleteShop) Execute(
	ctx context.Context,
	in DeleteShopInput,
) (err error) {

	ctx, span := startSpan(ctx, "DeleteShop")
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		shop, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}

		if !in.IsAdmin {
			_, ms, err := ownerCaller(ctx, tx, shop.ID, in.CallerUserID)
			if err != nil {
				return err
			}
			if len(domain.Owners(ms)) > 1 {
				return domain.ErrNotOnlyOwner
			}
		}

		return deleteShopTx(ctx, tx, shop, uc.now())
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(in.ShopID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionShopDeleted,
		Entity:       "barbershop",
		EntityID:     audit.ID(in.ShopID),
		Metadata:     map[string]bool{"admin": in.IsAdmin},
	})

	return nil
}

// deleteShopTx soft-deletes the shop with its orders, clears memberships and
// offerings, retires services nobody offers anymore and fixes the Owner role
// of former members.
func deleteShopTx(
	ctx context.Context,
	tx domain.Repository,
	shop *models.Barbershop,
	now time.Time,
) error {

	if _, err := tx.SoftDeleteOrders(ctx, domain.OrderFilter{BarbershopID: shop.ID}, now); err != nil {
		return err
	}

	// -------- memberships --------
	members, err := tx.ListMemberships(ctx, shop.ID)
	if err != nil {
		return err
	}
	if err := tx.DeleteMembershipsForShop(ctx, shop.ID); err != nil {
		return err
	}

	// -------- offerings --------
	offerings, err := tx.ListOfferings(ctx, shop.ID)
	if err != nil {
		return err
	}
	for _, o := range offerings {
		if err := tx.DeleteOffering(ctx, shop.ID, o.ServiceID); err != nil {
			return err
		}
		if err := retireServiceIfUnused(ctx, tx, &o.Service, now); err != nil {
			return err
		}
	}

	// -------- shop --------
	shop.IsPublic = false
	shop.MarkDeleted(now)
	if err := tx.SaveBarbershop(ctx, shop); err != nil {
		return err
	}

	for _, m := range members {
		if err := reconcileOwnerRole(ctx, tx, &m.Barber); err != nil {
			return err
		}
	}
	return nil
}

// retireServiceIfUnused marks the service deleted once no shop offers it.
func retireServiceIfUnused(
	ctx context.Context,
	tx domain.Repository,
	svc *models.Service,
	now time.Time,
) error {

	n, err := tx.CountOfferings(ctx, svc.ID)
	if err != nil {
		return err
	}
	if n > 0 || svc.IsDeleted {
		return nil
	}

	svc.MarkDeleted(now)
	return tx.SaveService(ctx, svc)
}
