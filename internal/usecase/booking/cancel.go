package booking

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

// ======================================================
// CUSTOMER
// ======================================================

type CancelAsCustomer struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewCancelAsCustomer(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CancelAsCustomer {
	return &CancelAsCustomer{repo: repo, audit: audit, now: now}
}

// Execute soft-deletes the caller's order while it is still more than
// CustomerCancelWindow away.
func (uc *CancelAsCustomer) Execute(
	ctx context.Context,
	orderID string,
	userID uint,
) (order *models.Order, err error) {

	ctx, span := tracer.Start(ctx, "booking.CancelAsCustomer", trace.WithAttributes(
		attribute.String("order.id", orderID),
	))
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		o, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}

		now := uc.now()
		if err := domain.CanCancelAsCustomer(o, userID, now); err != nil {
			return err
		}

		o.MarkDeleted(now)
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(order.BarbershopID),
		UserID:       audit.Ptr(userID),
		Action:       audit.ActionOrderCancelled,
		Entity:       "order",
		EntityID:     order.ID,
	})

	return order, nil
}

// ======================================================
// BARBER
// ======================================================

type CancelAsBarber struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewCancelAsBarber(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CancelAsBarber {
	return &CancelAsBarber{repo: repo, audit: audit, now: now}
}

type CancelAsBarberInput struct {
	OrderID      string
	BarberID     uint
	CallerUserID uint
}

// Execute soft-deletes an order assigned to the caller's barber profile up to
// its scheduled instant. The returned order has User loaded so the customer
// can be notified.
func (uc *CancelAsBarber) Execute(
	ctx context.Context,
	in CancelAsBarberInput,
) (order *models.Order, err error) {

	ctx, span := tracer.Start(ctx, "booking.CancelAsBarber", trace.WithAttributes(
		attribute.String("order.id", in.OrderID),
		attribute.Int64("barber.id", int64(in.BarberID)),
	))
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		caller, err := tx.GetBarberByUserID(ctx, in.CallerUserID)
		if err != nil {
			return err
		}
		if caller == nil || caller.IsDeleted {
			return domain.ErrNotABarber
		}
		if caller.ID != in.BarberID {
			return domain.ErrNotAssignedBarber
		}

		o, err := tx.GetOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}

		now := uc.now()
		if err := domain.CanCancelAsBarber(o, caller.ID, now); err != nil {
			return err
		}

		o.MarkDeleted(now)
		if err := tx.SaveOrder(ctx, o); err != nil {
			return err
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(order.BarbershopID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionOrderCancelledBarber,
		Entity:       "order",
		EntityID:     order.ID,
		Metadata:     map[string]any{"customer_id": order.UserID},
	})

	return order, nil
}
