package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is one booked service. Price is copied at booking time and never
// re-read. A barber holds at most one live order per instant.
type Order struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	BarberID uint   `gorm:"not null;uniqueIndex:idx_orders_barber_slot,where:is_deleted = false" json:"barber_id"`
	Barber   Barber `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber"`

	BarbershopID uint       `gorm:"index;not null" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barbershop"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	// ScheduledAt is always stored in UTC.
	ScheduledAt time.Time `gorm:"not null;uniqueIndex:idx_orders_barber_slot,where:is_deleted = false" json:"scheduled_at"`
	Price       float64   `gorm:"not null" json:"price"`

	SoftDelete

	CreatedAt time.Time `json:"created_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
