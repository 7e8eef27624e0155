// Package booking turns carts into orders and cancels them.
package booking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/booking"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
)

var tracer = otel.Tracer("github.com/lilpaf/Super-Barber-sub000/internal/usecase/booking")

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// ======================================================
// INPUT
// ======================================================

type BookCartInput struct {
	Date           string
	Time           string
	Lines          cart.Cart
	CustomerUserID uint
}

// ======================================================
// USE CASE
// ======================================================

type BookCart struct {
	repo   domain.Repository
	locker domain.SlotLocker
	audit  *audit.Dispatcher
	now    timezone.Clock
	loc    *time.Location
}

func NewBookCart(
	repo domain.Repository,
	locker domain.SlotLocker,
	audit *audit.Dispatcher,
	now timezone.Clock,
	loc *time.Location,
) *BookCart {
	return &BookCart{
		repo:   repo,
		locker: locker,
		audit:  audit,
		now:    now,
		loc:    loc,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute books every cart line at the same instant, in order, committing
// each line on its own. On failure it returns the orders already booked and a
// business error whose Remaining holds the failed line and every line after
// it.
func (uc *BookCart) Execute(
	ctx context.Context,
	in BookCartInput,
) (orders []models.Order, err error) {

	ctx, span := tracer.Start(ctx, "booking.BookCart", trace.WithAttributes(
		attribute.Int("cart.lines", len(in.Lines)),
	))
	defer func() { endSpan(span, err) }()

	if len(in.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// --------------------------------------------------
	// Customer
	// --------------------------------------------------
	user, err := uc.repo.Directory().FindUser(ctx, in.CustomerUserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted {
		return nil, domain.ErrUserNotFound
	}

	// --------------------------------------------------
	// Date / time
	// --------------------------------------------------
	slot, err := domain.ParseSlot(in.Date, in.Time, uc.loc)
	if err != nil {
		return nil, withRemaining(err, in.Lines)
	}

	for i, line := range in.Lines {
		order, err := uc.bookLine(ctx, line, slot, user.ID)
		if err != nil {
			return orders, withRemaining(err, in.Lines.From(i))
		}
		orders = append(orders, *order)

		uc.audit.Dispatch(audit.Event{
			BarbershopID: audit.Ptr(order.BarbershopID),
			UserID:       audit.Ptr(user.ID),
			Action:       audit.ActionOrderBooked,
			Entity:       "order",
			EntityID:     order.ID,
			Metadata: map[string]any{
				"barber_id":    order.BarberID,
				"service_id":   order.ServiceID,
				"scheduled_at": order.ScheduledAt,
				"price":        order.Price,
			},
		})
	}

	return orders, nil
}

// bookLine validates one line and persists its order in its own transaction.
func (uc *BookCart) bookLine(
	ctx context.Context,
	line cart.Line,
	slot domain.Slot,
	userID uint,
) (*models.Order, error) {

	var (
		order   *models.Order
		unlocks []func()
		names   = domain.NamesOf(line)
	)
	defer func() {
		for _, unlock := range unlocks {
			unlock()
		}
	}()

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		// -------- shop open at that time --------
		shop, err := tx.GetBarbershop(ctx, line.BarbershopID)
		if err != nil {
			return err
		}
		if shop != nil {
			names.Shop = shop.Name
		}
		if !domain.Bookable(shop) || !domain.WithinHours(*shop, slot.Minutes) {
			return domain.OutsideWorkingHours(names)
		}

		// -------- service still offered --------
		offering, err := tx.GetOffering(ctx, shop.ID, line.ServiceID)
		if err != nil {
			return err
		}
		if offering != nil {
			names.Service = offering.Service.Name
		}
		if offering == nil || offering.Service.IsDeleted {
			return domain.ServiceNotOffered(names)
		}

		// -------- lead time --------
		if err := domain.CheckLeadTime(slot.At, uc.now(), uc.loc); err != nil {
			return err
		}

		// -------- barber --------
		ms, err := tx.ListMemberships(ctx, shop.ID)
		if err != nil {
			return err
		}

		chosen, err := domain.SelectBarber(domain.Candidates(ms), func(m models.Membership) (bool, error) {
			unlock, ok, err := uc.locker.TryLock(ctx, m.BarberID, slot.At)
			if err != nil || !ok {
				return false, err
			}

			busy, err := tx.HasOrderAt(ctx, m.BarberID, slot.At)
			if err != nil || busy {
				unlock()
				return false, err
			}

			unlocks = append(unlocks, unlock)
			return true, nil
		})
		if err != nil {
			return err
		}
		if chosen == nil {
			return domain.NoBarberAvailable(names)
		}

		// -------- order --------
		order = &models.Order{
			UserID:       userID,
			BarberID:     chosen.BarberID,
			BarbershopID: shop.ID,
			ServiceID:    line.ServiceID,
			ScheduledAt:  slot.At,
			Price:        line.Price,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}

		order.Barber = chosen.Barber
		order.Barbershop = *shop
		order.Service = offering.Service
		return nil
	})
	if err != nil {
		if httperr.IsUniqueConflict(err) {
			zap.L().Info("slot taken concurrently",
				zap.Uint("barbershop_id", line.BarbershopID),
				zap.Time("at", slot.At),
			)
			return nil, domain.NoBarberAvailable(names)
		}
		return nil, err
	}

	return order, nil
}

// withRemaining attaches the unprocessed cart to business errors. System
// faults pass through untouched.
func withRemaining(err error, remaining cart.Cart) error {
	if be, ok := httperr.AsBusiness(err); ok {
		return be.WithRemaining(remaining)
	}
	return err
}
