package booking

import (
	"fmt"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

var (
	ErrInvalidDate = httperr.Invalid("invalid_date", "Date", "Date must look like 2006-01-02.")
	ErrInvalidTime = httperr.Invalid("invalid_time", "Time", "Time must be a time of day like 14:30.")
	ErrEmptyCart   = httperr.Invalid("empty_cart", "Cart", "The cart is empty.")

	ErrUserNotFound  = httperr.NotFound("user_not_found", "User does not exist.")
	ErrNotABarber    = httperr.NotFound("barber_not_found", "Barber does not exist.")
	ErrOrderNotFound = httperr.NotFound("order_not_found", "Order does not exist.")

	ErrNotOrderOwner     = httperr.Forbidden("not_order_owner", "This order belongs to another customer.")
	ErrNotAssignedBarber = httperr.Forbidden("not_assigned_barber", "This order is assigned to another barber.")

	ErrCannotCancel = httperr.Temporal("order_not_cancellable", "", "This order can no longer be cancelled.")
)

// LineNames is how a failed cart line is named in error messages: the stored
// shop and service names once loaded, the cart's copies until then.
type LineNames struct {
	Shop    string
	Service string
}

func NamesOf(l cart.Line) LineNames {
	return LineNames{Shop: l.BarbershopName, Service: l.ServiceName}
}

// OutsideWorkingHours is returned when the line's shop is not bookable at the
// requested time of day (closed, private or removed).
func OutsideWorkingHours(n LineNames) httperr.BusinessError {
	return httperr.Unavailable(
		"outside_working_hours",
		fmt.Sprintf("The requested time is outside the working hours of %s for %s.", n.Shop, n.Service),
	)
}

func ServiceNotOffered(n LineNames) httperr.BusinessError {
	return httperr.Unavailable(
		"service_not_offered",
		fmt.Sprintf("%s no longer offers %s.", n.Shop, n.Service),
	)
}

func NoBarberAvailable(n LineNames) httperr.BusinessError {
	return httperr.Unavailable(
		"no_barber_available",
		fmt.Sprintf("No barber at %s is free for %s at the requested time.", n.Shop, n.Service),
	)
}

// TooSoon reports the earliest instant that can still be booked, in loc.
func TooSoon(earliest time.Time, loc *time.Location) httperr.BusinessError {
	local := earliest.In(loc)
	return httperr.Temporal(
		"too_soon",
		"Time",
		fmt.Sprintf("The earliest bookable time is %s %s.", local.Format(validators.DateLayout), local.Format(validators.TimeLayout)),
	)
}
