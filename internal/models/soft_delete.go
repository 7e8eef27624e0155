package models

import "time"

// SoftDelete is embedded in every soft-deletable model. Rows are never
// hard-deleted; they are marked and may be restored by a matching create.
type SoftDelete struct {
	IsDeleted bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (s SoftDelete) Active() bool {
	return !s.IsDeleted
}

func (s *SoftDelete) MarkDeleted(at time.Time) {
	at = at.UTC()
	s.IsDeleted = true
	s.DeletedAt = &at
}

func (s *SoftDelete) Restore() {
	s.IsDeleted = false
	s.DeletedAt = nil
}
