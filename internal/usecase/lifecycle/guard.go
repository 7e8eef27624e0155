// Package lifecycle holds the shop, barber, membership and service use cases.
package lifecycle

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

var tracer = otel.Tracer("github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle")

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "lifecycle."+name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ======================================================
// LOOKUPS
// ======================================================

// activeShop loads a shop that exists and is not deleted.
func activeShop(ctx context.Context, repo domain.Repository, id uint) (*models.Barbershop, error) {
	shop, err := repo.GetBarbershop(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil || shop.IsDeleted {
		return nil, domain.ErrBarbershopNotFound
	}
	return shop, nil
}

// lockedShop is activeShop for use inside a transaction: the shop row stays
// locked until commit, so membership reads and checks that follow cannot
// interleave with another change to the same shop.
func lockedShop(ctx context.Context, tx domain.Repository, id uint) (*models.Barbershop, error) {
	shop, err := tx.LockBarbershop(ctx, id)
	if err != nil {
		return nil, err
	}
	if shop == nil || shop.IsDeleted {
		return nil, domain.ErrBarbershopNotFound
	}
	return shop, nil
}

func activeBarber(ctx context.Context, repo domain.Repository, id uint) (*models.Barber, error) {
	b, err := repo.GetBarber(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil || b.IsDeleted {
		return nil, domain.ErrNotABarber
	}
	return b, nil
}

// barberOfUser returns the user's active barber profile or nil.
func barberOfUser(ctx context.Context, repo domain.Repository, userID uint) (*models.Barber, error) {
	b, err := repo.GetBarberByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if b == nil || b.IsDeleted {
		return nil, nil
	}
	return b, nil
}

// activeUser resolves a user that exists and is not deleted.
func activeUser(ctx context.Context, repo domain.Repository, userID uint) (*models.User, error) {
	user, err := repo.Directory().FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// ownerCaller resolves the caller's barber profile and checks it owns the
// shop. It returns the shop's memberships for further checks.
func ownerCaller(
	ctx context.Context,
	repo domain.Repository,
	shopID uint,
	callerUserID uint,
) (*models.Barber, []models.Membership, error) {

	caller, err := barberOfUser(ctx, repo, callerUserID)
	if err != nil {
		return nil, nil, err
	}
	if caller == nil {
		return nil, nil, domain.ErrNotOwner
	}

	ms, err := repo.ListMemberships(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}

	m := domain.FindMembership(ms, caller.ID)
	if m == nil || !m.IsOwner {
		return nil, nil, domain.ErrNotOwner
	}
	return caller, ms, nil
}

// isShopOwner reports whether the user holds an owner membership of the shop.
func isShopOwner(ctx context.Context, repo domain.Repository, shopID, userID uint) (bool, error) {
	_, _, err := ownerCaller(ctx, repo, shopID, userID)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotOwner) {
		return false, nil
	}
	return false, err
}

// ======================================================
// MEMBERSHIP GUARD
// ======================================================

// withMembershipMutation runs fn and then checks that the shop still has an
// owner whenever it has members. The Owner role of every affected barber is
// then recomputed from their memberships across all shops. Run it inside a
// transaction so a failed check rolls fn back.
func withMembershipMutation(
	ctx context.Context,
	tx domain.Repository,
	shopID uint,
	affected []models.Barber,
	fn func() error,
) error {

	if err := fn(); err != nil {
		return err
	}

	ms, err := tx.ListMemberships(ctx, shopID)
	if err != nil {
		return err
	}
	if err := domain.EnsureOwnerInvariant(ms); err != nil {
		return err
	}

	for i := range affected {
		if err := reconcileOwnerRole(ctx, tx, &affected[i]); err != nil {
			return err
		}
	}
	return nil
}

// reconcileOwnerRole grants or revokes the Owner role so it matches whether
// the barber owns at least one live shop.
func reconcileOwnerRole(ctx context.Context, tx domain.Repository, b *models.Barber) error {
	owned, err := tx.CountOwnedShops(ctx, b.ID)
	if err != nil {
		return err
	}

	dir := tx.Directory()
	has, err := dir.HasRole(ctx, b.UserID, models.RoleOwner)
	if err != nil {
		return err
	}

	switch {
	case owned > 0 && !has:
		if err := dir.AddRole(ctx, b.UserID, models.RoleOwner); err != nil {
			return err
		}
	case owned == 0 && has:
		if err := dir.RemoveRole(ctx, b.UserID, models.RoleOwner); err != nil {
			return err
		}
	default:
		return nil
	}

	return dir.RefreshSession(ctx, b.UserID)
}
