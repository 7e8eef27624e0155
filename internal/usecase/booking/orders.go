package booking

import (
	"context"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

type ListCustomerOrders struct {
	repo domain.Repository
}

func NewListCustomerOrders(repo domain.Repository) *ListCustomerOrders {
	return &ListCustomerOrders{repo: repo}
}

func (uc *ListCustomerOrders) Execute(ctx context.Context, userID uint) ([]models.Order, error) {
	return uc.repo.ListOrdersForUser(ctx, userID)
}

// ListBarberOrders lists the live orders assigned to the caller's barber
// profile.
type ListBarberOrders struct {
	repo domain.Repository
}

func NewListBarberOrders(repo domain.Repository) *ListBarberOrders {
	return &ListBarberOrders{repo: repo}
}

func (uc *ListBarberOrders) Execute(ctx context.Context, callerUserID uint) ([]models.Order, error) {
	barber, err := uc.repo.GetBarberByUserID(ctx, callerUserID)
	if err != nil {
		return nil, err
	}
	if barber == nil || barber.IsDeleted {
		return nil, domain.ErrNotABarber
	}
	return uc.repo.ListOrdersForBarber(ctx, barber.ID)
}
