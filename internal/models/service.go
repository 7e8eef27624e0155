package models

import "time"

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

// Service is shared across shops and exists while at least one shop offers it.
type Service struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	Name       string   `gorm:"size:50;not null" json:"name"`
	CategoryID uint     `gorm:"index;not null" json:"category_id"`
	Category   Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`

	SoftDelete

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Offering is a service sold by a shop at a shop-specific price.
type Offering struct {
	ServiceID    uint       `gorm:"primaryKey;autoIncrement:false" json:"service_id"`
	Service      Service    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service"`
	BarbershopID uint       `gorm:"primaryKey;autoIncrement:false" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Price float64 `gorm:"not null" json:"price"`

	CreatedAt time.Time `json:"created_at"`
}
