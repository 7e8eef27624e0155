package dto

import (
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

type BarbershopDTO struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	District   string `json:"district"`
	Street     string `json:"street"`
	StartHour  string `json:"start_hour"`
	FinishHour string `json:"finish_hour"`
	IsPublic   bool   `json:"is_public"`
	ImageName  string `json:"image_name,omitempty"`
}

type OfferingDTO struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
}

type MemberDTO struct {
	BarberID    uint   `json:"barber_id"`
	Name        string `json:"name"`
	IsOwner     bool   `json:"is_owner"`
	IsAvailable bool   `json:"is_available"`
}

type BarbershopDetailsDTO struct {
	BarbershopDTO
	Services []OfferingDTO `json:"services"`
	Barbers  []MemberDTO   `json:"barbers"`
}

func Barbershop(s models.Barbershop) BarbershopDTO {
	return BarbershopDTO{
		ID:         s.ID,
		Name:       s.Name,
		City:       s.City.Name,
		District:   s.District.Name,
		Street:     s.Street,
		StartHour:  s.StartHour,
		FinishHour: s.FinishHour,
		IsPublic:   s.IsPublic,
		ImageName:  s.ImageName,
	}
}

func Barbershops(shops []models.Barbershop) []BarbershopDTO {
	out := make([]BarbershopDTO, 0, len(shops))
	for _, s := range shops {
		out = append(out, Barbershop(s))
	}
	return out
}

func BarbershopDetails(d *ucLifecycle.ShopDetails) BarbershopDetailsDTO {
	out := BarbershopDetailsDTO{
		BarbershopDTO: Barbershop(d.Shop),
		Services:      make([]OfferingDTO, 0, len(d.Offerings)),
		Barbers:       make([]MemberDTO, 0, len(d.Members)),
	}
	for _, o := range d.Offerings {
		out.Services = append(out.Services, OfferingDTO{
			ServiceID: o.ServiceID,
			Name:      o.Service.Name,
			Category:  o.Service.Category.Name,
			Price:     o.Price,
		})
	}
	for _, m := range d.Members {
		out.Barbers = append(out.Barbers, MemberDTO{
			BarberID:    m.BarberID,
			Name:        m.Barber.FullName(),
			IsOwner:     m.IsOwner,
			IsAvailable: m.IsAvailable,
		})
	}
	return out
}
