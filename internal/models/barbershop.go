package models

import "time"

type City struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:60;not null" json:"name"`
}

type District struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:60;not null" json:"name"`
}

type Barbershop struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`

	CityID     uint     `gorm:"index;not null" json:"city_id"`
	City       City     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"city"`
	DistrictID uint     `gorm:"index;not null" json:"district_id"`
	District   District `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"district"`
	Street     string   `gorm:"size:100;not null" json:"street"`

	// Opening and closing time of day, "15:04".
	StartHour  string `gorm:"size:5;not null" json:"start_hour"`
	FinishHour string `gorm:"size:5;not null" json:"finish_hour"`

	IsPublic  bool   `gorm:"not null;default:false" json:"is_public"`
	ImageName string `gorm:"size:255" json:"image_name"`

	SoftDelete

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership links a barber to a shop. At most one row per (barber, shop).
type Membership struct {
	BarberID     uint       `gorm:"primaryKey;autoIncrement:false" json:"barber_id"`
	Barber       Barber     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"barber"`
	BarbershopID uint       `gorm:"primaryKey;autoIncrement:false" json:"barbershop_id"`
	Barbershop   Barbershop `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	IsOwner     bool `gorm:"not null;default:false" json:"is_owner"`
	IsAvailable bool `gorm:"not null;default:false" json:"is_available"`

	CreatedAt time.Time `json:"created_at"`
}
