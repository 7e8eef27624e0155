package repository

import (
	"errors"

	"gorm.io/gorm"
)

// first loads one row into dest, mapping "no row" to found=false.
func first(q *gorm.DB, dest any) (bool, error) {
	if err := q.First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
