package dto

import (
	"time"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

type OrderListDTO struct {
	ID             string    `json:"id"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	BarbershopID   uint      `json:"barbershop_id"`
	BarbershopName string    `json:"barbershop_name"`
	ServiceName    string    `json:"service_name"`
	BarberID       uint      `json:"barber_id"`
	BarberName     string    `json:"barber_name"`
	ClientName     string    `json:"client_name,omitempty"`
	Price          float64   `json:"price"`
}

// Orders maps orders for display in loc. The client name is only filled for
// barber listings.
func Orders(orders []models.Order, loc *time.Location, withClient bool) []OrderListDTO {
	out := make([]OrderListDTO, 0, len(orders))
	for _, o := range orders {
		local := o.ScheduledAt.In(loc)
		item := OrderListDTO{
			ID:             o.ID,
			ScheduledAt:    o.ScheduledAt,
			Date:           local.Format("2006-01-02"),
			Time:           local.Format("15:04"),
			BarbershopID:   o.BarbershopID,
			BarbershopName: o.Barbershop.Name,
			ServiceName:    o.Service.Name,
			BarberID:       o.BarberID,
			BarberName:     o.Barber.FullName(),
			Price:          o.Price,
		}
		if withClient {
			item.ClientName = o.User.FullName()
		}
		out = append(out, item)
	}
	return out
}
