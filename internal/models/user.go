package models

import "time"

type Role string

const (
	RoleBarber        Role = "Barber"
	RoleOwner         Role = "Owner"
	RoleAdministrator Role = "Administrator"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"size:50;not null" json:"first_name"`
	LastName     string `gorm:"size:50;not null" json:"last_name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PhoneNumber  string `gorm:"size:20" json:"phone_number"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// SessionVersion is bumped whenever the user's roles change so tokens
	// minted before the change stop being accepted.
	SessionVersion int `gorm:"not null;default:1" json:"-"`

	SoftDelete

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type UserRole struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Role   Role `gorm:"primaryKey;size:20" json:"role"`
}
