package models

import "time"

// Barber is the professional profile of a user. It is kept apart from User so
// order history survives account deletion.
type Barber struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	UserID      uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName   string `gorm:"size:50;not null" json:"first_name"`
	LastName    string `gorm:"size:50;not null" json:"last_name"`
	Email       string `gorm:"size:100" json:"email"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`

	SoftDelete

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b Barber) FullName() string {
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}
