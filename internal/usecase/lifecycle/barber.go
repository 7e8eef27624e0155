package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

const scrubbedName = "Deleted"

// ======================================================
// CREATE
// ======================================================

type CreateBarber struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateBarber(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateBarber {
	return &CreateBarber{
		repo:  repo,
		audit: audit,
	}
}

// Execute gives the caller a barber profile copied from their account. A
// deleted profile is restored rather than duplicated.
func (uc *CreateBarber) Execute(
	ctx context.Context,
	callerUserID uint,
) (barber *models.Barber, err error) {

	ctx, span := startSpan(ctx, "CreateBarber")
	defer func() { endSpan(span, err) }()

	restored := false

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		user, err := activeUser(ctx, tx, callerUserID)
		if err != nil {
			return err
		}

		barber, err = tx.GetBarberByUserID(ctx, user.ID)
		if err != nil {
			return err
		}
		if barber != nil && barber.Active() {
			return domain.ErrAlreadyBarber
		}

		if barber == nil {
			barber = &models.Barber{UserID: user.ID}
		} else {
			barber.Restore()
			restored = true
		}
		barber.FirstName = user.FirstName
		barber.LastName = user.LastName
		barber.Email = user.Email
		barber.PhoneNumber = user.PhoneNumber

		if restored {
			err = tx.SaveBarber(ctx, barber)
		} else {
			err = tx.CreateBarber(ctx, barber)
		}
		if err != nil {
			return err
		}

		dir := tx.Directory()
		if err := dir.AddRole(ctx, user.ID, models.RoleBarber); err != nil {
			return err
		}
		return dir.RefreshSession(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(callerUserID),
		Action:   audit.ActionBarberCreated,
		Entity:   "barber",
		EntityID: audit.ID(barber.ID),
		Metadata: map[string]bool{"restored": restored},
	})

	return barber, nil
}

// ======================================================
// DELETE
// ======================================================

type DeleteBarberInput struct {
	CallerUserID uint
	// Scrub blanks the personal data copied from the account.
	Scrub bool
}

type DeleteBarber struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewDeleteBarber(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *DeleteBarber {
	return &DeleteBarber{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

func (uc *DeleteBarber) Execute(
	ctx context.Context,
	in DeleteBarberInput,
) (err error) {

	ctx, span := startSpan(ctx, "DeleteBarber")
	defer func() { endSpan(span, err) }()

	var (
		barberID     uint
		deletedShops []uint
	)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		barber, err := barberOfUser(ctx, tx, in.CallerUserID)
		if err != nil {
			return err
		}
		if barber == nil {
			return domain.ErrNotABarber
		}
		barberID = barber.ID

		deletedShops, err = deleteBarberTx(ctx, tx, barber, in.Scrub, uc.now())
		return err
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(in.CallerUserID),
		Action:   audit.ActionBarberDeleted,
		Entity:   "barber",
		EntityID: audit.ID(barberID),
		Metadata: map[string]any{"deleted_shops": deletedShops, "scrubbed": in.Scrub},
	})

	return nil
}

// deleteBarberTx cancels the barber's orders, deletes every shop they solely
// own, leaves every other shop, drops the Barber role and marks the profile
// deleted. It returns the ids of the deleted shops.
func deleteBarberTx(
	ctx context.Context,
	tx domain.Repository,
	barber *models.Barber,
	scrub bool,
	now time.Time,
) ([]uint, error) {

	if _, err := tx.SoftDeleteOrders(ctx, domain.OrderFilter{BarberID: barber.ID}, now); err != nil {
		return nil, err
	}

	memberships, err := tx.ListMembershipsForBarber(ctx, barber.ID)
	if err != nil {
		return nil, err
	}

	var deletedShops []uint
	// memberships come ordered by shop id, so shop locks are always taken in
	// the same order
	for _, m := range memberships {
		shop, err := tx.LockBarbershop(ctx, m.BarbershopID)
		if err != nil {
			return nil, err
		}

		ms, err := tx.ListMemberships(ctx, m.BarbershopID)
		if err != nil {
			return nil, err
		}

		if shop != nil && !shop.IsDeleted && domain.IsSoleOwner(ms, barber.ID) {
			if err := deleteShopTx(ctx, tx, shop, now); err != nil {
				return nil, err
			}
			deletedShops = append(deletedShops, shop.ID)
			continue
		}

		if err := withMembershipMutation(ctx, tx, m.BarbershopID, nil, func() error {
			return tx.DeleteMembership(ctx, m.BarbershopID, barber.ID)
		}); err != nil {
			return nil, err
		}
	}

	// -------- roles --------
	dir := tx.Directory()
	if err := dir.RemoveRole(ctx, barber.UserID, models.RoleBarber); err != nil {
		return nil, err
	}
	if err := reconcileOwnerRole(ctx, tx, barber); err != nil {
		return nil, err
	}

	// -------- profile --------
	if scrub {
		barber.FirstName = scrubbedName
		barber.LastName = ""
		barber.Email = ""
		barber.PhoneNumber = ""
	}
	barber.MarkDeleted(now)
	if err := tx.SaveBarber(ctx, barber); err != nil {
		return nil, err
	}

	return deletedShops, dir.RefreshSession(ctx, barber.UserID)
}

// ======================================================
// DELETE ACCOUNT
// ======================================================

type DeleteAccount struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewDeleteAccount(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *DeleteAccount {
	return &DeleteAccount{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

// Execute deletes the barber profile with scrubbing, cancels the customer's
// upcoming orders, strips every role and scrubs the account itself.
func (uc *DeleteAccount) Execute(
	ctx context.Context,
	callerUserID uint,
) (err error) {

	ctx, span := startSpan(ctx, "DeleteAccount")
	defer func() { endSpan(span, err) }()

	now := uc.now()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		user, err := activeUser(ctx, tx, callerUserID)
		if err != nil {
			return err
		}

		barber, err := barberOfUser(ctx, tx, user.ID)
		if err != nil {
			return err
		}
		if barber != nil {
			if _, err := deleteBarberTx(ctx, tx, barber, true, now); err != nil {
				return err
			}
		}

		if _, err := tx.SoftDeleteOrders(ctx, domain.OrderFilter{UserID: user.ID, After: &now}, now); err != nil {
			return err
		}

		dir := tx.Directory()
		roles, err := dir.Roles(ctx, user.ID)
		if err != nil {
			return err
		}
		for _, role := range roles {
			if err := dir.RemoveRole(ctx, user.ID, role); err != nil {
				return err
			}
		}

		user.FirstName = scrubbedName
		user.LastName = ""
		user.Email = fmt.Sprintf("deleted-%d@deleted.invalid", user.ID)
		user.PhoneNumber = ""
		user.PasswordHash = "-"
		user.MarkDeleted(now)
		if err := dir.SaveUser(ctx, user); err != nil {
			return err
		}
		return dir.RefreshSession(ctx, user.ID)
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   audit.Ptr(callerUserID),
		Action:   audit.ActionAccountDeleted,
		Entity:   "user",
		EntityID: audit.ID(callerUserID),
	})

	return nil
}
