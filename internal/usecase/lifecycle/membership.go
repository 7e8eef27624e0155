package lifecycle

import (
	"context"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

// MembershipInput addresses one barber of one shop on behalf of the caller.
type MembershipInput struct {
	ShopID       uint
	BarberID     uint
	CallerUserID uint
}

// memberTarget is the resolved state every owner-driven membership change
// starts from.
type memberTarget struct {
	shop    *models.Barbershop
	caller  *models.Barber
	target  *models.Barber
	members []models.Membership
	current *models.Membership
}

// resolveOwnerAction checks the shop, the caller's ownership and that the
// target barber is an active member.
func resolveOwnerAction(ctx context.Context, tx domain.Repository, in MembershipInput) (*memberTarget, error) {
	shop, err := lockedShop(ctx, tx, in.ShopID)
	if err != nil {
		return nil, err
	}

	caller, ms, err := ownerCaller(ctx, tx, shop.ID, in.CallerUserID)
	if err != nil {
		return nil, err
	}

	target, err := activeBarber(ctx, tx, in.BarberID)
	if err != nil {
		return nil, err
	}

	m := domain.FindMembership(ms, target.ID)
	if m == nil {
		return nil, domain.ErrNotMember
	}

	return &memberTarget{
		shop:    shop,
		caller:  caller,
		target:  target,
		members: ms,
		current: m,
	}, nil
}

func membershipEvent(action audit.Action, in MembershipInput, meta any) audit.Event {
	return audit.Event{
		BarbershopID: audit.Ptr(in.ShopID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       action,
		Entity:       "barber",
		EntityID:     audit.ID(in.BarberID),
		Metadata:     meta,
	}
}

// ======================================================
// ASSIGN
// ======================================================

type AssignBarberInput struct {
	ShopID       uint
	CallerUserID uint
}

type AssignBarber struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAssignBarber(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AssignBarber {
	return &AssignBarber{
		repo:  repo,
		audit: audit,
	}
}

// Execute adds the caller to the shop as an unavailable employee. An owner
// makes them available before they receive bookings.
func (uc *AssignBarber) Execute(
	ctx context.Context,
	in AssignBarberInput,
) (err error) {

	ctx, span := startSpan(ctx, "AssignBarber")
	defer func() { endSpan(span, err) }()

	var barberID uint

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		shop, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}

		barber, err := barberOfUser(ctx, tx, in.CallerUserID)
		if err != nil {
			return err
		}
		if barber == nil {
			return domain.ErrNotABarber
		}
		barberID = barber.ID

		existing, err := tx.GetMembership(ctx, shop.ID, barber.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyMember
		}

		return withMembershipMutation(ctx, tx, shop.ID, []models.Barber{*barber}, func() error {
			return tx.CreateMembership(ctx, &models.Membership{
				BarberID:     barber.ID,
				BarbershopID: shop.ID,
			})
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(membershipEvent(audit.ActionBarberAssigned, MembershipInput{
		ShopID:       in.ShopID,
		BarberID:     barberID,
		CallerUserID: in.CallerUserID,
	}, nil))

	return nil
}

// ======================================================
// UNASSIGN / RESIGN
// ======================================================

type UnassignBarber struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewUnassignBarber(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *UnassignBarber {
	return &UnassignBarber{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

// Execute removes a member from the shop. An owner may remove anyone; any
// member may remove themself. The sole owner can never leave. The barber's
// live orders at this shop are cancelled.
func (uc *UnassignBarber) Execute(
	ctx context.Context,
	in MembershipInput,
) (err error) {

	ctx, span := startSpan(ctx, "UnassignBarber")
	defer func() { endSpan(span, err) }()

	var cancelled int64

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		shop, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}

		caller, err := barberOfUser(ctx, tx, in.CallerUserID)
		if err != nil {
			return err
		}
		if caller == nil {
			return domain.ErrNotOwner
		}

		ms, err := tx.ListMemberships(ctx, shop.ID)
		if err != nil {
			return err
		}

		self := caller.ID == in.BarberID
		if !self {
			if m := domain.FindMembership(ms, caller.ID); m == nil || !m.IsOwner {
				return domain.ErrNotOwner
			}
		}

		target, err := activeBarber(ctx, tx, in.BarberID)
		if err != nil {
			return err
		}
		if domain.FindMembership(ms, target.ID) == nil {
			return domain.ErrNotMember
		}
		if domain.IsSoleOwner(ms, target.ID) {
			return domain.ErrLastOwner
		}

		return withMembershipMutation(ctx, tx, shop.ID, []models.Barber{*target}, func() error {
			if err := tx.DeleteMembership(ctx, shop.ID, target.ID); err != nil {
				return err
			}
			cancelled, err = tx.SoftDeleteOrders(ctx, domain.OrderFilter{
				BarbershopID: shop.ID,
				BarberID:     target.ID,
			}, uc.now())
			return err
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(membershipEvent(audit.ActionBarberUnassigned, in, map[string]int64{
		"orders_cancelled": cancelled,
	}))

	return nil
}

// ======================================================
// PROMOTE / DEMOTE
// ======================================================

type PromoteOwner struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPromoteOwner(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *PromoteOwner {
	return &PromoteOwner{
		repo:  repo,
		audit: audit,
	}
}

func (uc *PromoteOwner) Execute(
	ctx context.Context,
	in MembershipInput,
) (err error) {

	ctx, span := startSpan(ctx, "PromoteOwner")
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		t, err := resolveOwnerAction(ctx, tx, in)
		if err != nil {
			return err
		}
		if t.current.IsOwner {
			return domain.ErrAlreadyOwner
		}

		return withMembershipMutation(ctx, tx, t.shop.ID, []models.Barber{*t.target}, func() error {
			t.current.IsOwner = true
			return tx.UpdateMembership(ctx, t.current)
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(membershipEvent(audit.ActionOwnerPromoted, in, nil))
	return nil
}

type DemoteOwner struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDemoteOwner(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DemoteOwner {
	return &DemoteOwner{
		repo:  repo,
		audit: audit,
	}
}

// Execute demotes another owner to employee. Owners step down from their own
// shop by resigning instead.
func (uc *DemoteOwner) Execute(
	ctx context.Context,
	in MembershipInput,
) (err error) {

	ctx, span := startSpan(ctx, "DemoteOwner")
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		t, err := resolveOwnerAction(ctx, tx, in)
		if err != nil {
			return err
		}
		if t.target.ID == t.caller.ID {
			return domain.ErrUseResign
		}
		if !t.current.IsOwner {
			return domain.ErrNotAnOwner
		}
		if domain.IsSoleOwner(t.members, t.target.ID) {
			return domain.ErrLastOwner
		}

		return withMembershipMutation(ctx, tx, t.shop.ID, []models.Barber{*t.target}, func() error {
			t.current.IsOwner = false
			return tx.UpdateMembership(ctx, t.current)
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(membershipEvent(audit.ActionOwnerDemoted, in, nil))
	return nil
}

// ======================================================
// AVAILABILITY
// ======================================================

type SetAvailabilityInput struct {
	MembershipInput
	Available bool
}

type SetAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetAvailability(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SetAvailability {
	return &SetAvailability{
		repo:  repo,
		audit: audit,
	}
}

func (uc *SetAvailability) Execute(
	ctx context.Context,
	in SetAvailabilityInput,
) (err error) {

	ctx, span := startSpan(ctx, "SetAvailability")
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		t, err := resolveOwnerAction(ctx, tx, in.MembershipInput)
		if err != nil {
			return err
		}

		switch {
		case in.Available && t.current.IsAvailable:
			return domain.ErrAlreadyAvailable
		case !in.Available && !t.current.IsAvailable:
			return domain.ErrAlreadyUnavailable
		}

		return withMembershipMutation(ctx, tx, t.shop.ID, nil, func() error {
			t.current.IsAvailable = in.Available
			return tx.UpdateMembership(ctx, t.current)
		})
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(membershipEvent(audit.ActionAvailabilityChanged, in.MembershipInput, map[string]bool{
		"available": in.Available,
	}))
	return nil
}
