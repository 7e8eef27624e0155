package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

const stamp = "2006-01-02 15:04"

// BookingConfirmed lists every order booked by one cart.
func BookingConfirmed(to models.User, orders []models.Order, loc *time.Location) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hello %s,</p><p>Your booking is confirmed:</p><ul>", html.EscapeString(to.FirstName))
	for _, o := range orders {
		fmt.Fprintf(&b, "<li>%s at %s with %s on %s (%.2f)</li>",
			html.EscapeString(o.Service.Name),
			html.EscapeString(o.Barbershop.Name),
			html.EscapeString(o.Barber.FullName()),
			o.ScheduledAt.In(loc).Format(stamp),
			o.Price,
		)
	}
	b.WriteString("</ul>")

	return Email{
		To:      to.Email,
		Subject: "Your booking is confirmed",
		Body:    b.String(),
	}
}

// OrderCancelledByBarber tells the customer their barber cancelled.
func OrderCancelledByBarber(o models.Order, loc *time.Location) Email {
	body := fmt.Sprintf(
		"<p>Hello %s,</p><p>%s cancelled your %s appointment at %s on %s. Please book another time.</p>",
		html.EscapeString(o.User.FirstName),
		html.EscapeString(o.Barber.FullName()),
		html.EscapeString(o.Service.Name),
		html.EscapeString(o.Barbershop.Name),
		o.ScheduledAt.In(loc).Format(stamp),
	)

	return Email{
		To:      o.User.Email,
		Subject: "Your appointment was cancelled",
		Body:    body,
	}
}
