package identity

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// GormDirectory keeps accounts in the users table and roles in user_roles.
type GormDirectory struct {
	db *gorm.DB
}

var _ domain.Directory = (*GormDirectory)(nil)

func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

func (d *GormDirectory) FindUser(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var user models.User
	if err := d.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindUserByEmail is used by sign-in; it is not part of the core contract.
func (d *GormDirectory) FindUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := d.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", email).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (d *GormDirectory) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return d.db.WithContext(ctx).Create(user).Error
}

// SaveUser never writes the session version; only RefreshSession moves it.
func (d *GormDirectory) SaveUser(
	ctx context.Context,
	user *models.User,
) error {
	return d.db.WithContext(ctx).Omit("session_version").Save(user).Error
}

// --------------------------------------------------
// Roles
// --------------------------------------------------

func (d *GormDirectory) HasRole(
	ctx context.Context,
	userID uint,
	role models.Role,
) (bool, error) {

	var count int64
	if err := d.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (d *GormDirectory) Roles(
	ctx context.Context,
	userID uint,
) ([]models.Role, error) {

	var roles []models.Role
	if err := d.db.WithContext(ctx).
		Model(&models.UserRole{}).
		Where("user_id = ?", userID).
		Order("role ASC").
		Pluck("role", &roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (d *GormDirectory) AddRole(
	ctx context.Context,
	userID uint,
	role models.Role,
) error {
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.UserRole{UserID: userID, Role: role}).Error
}

func (d *GormDirectory) RemoveRole(
	ctx context.Context,
	userID uint,
	role models.Role,
) error {
	return d.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&models.UserRole{}).Error
}

// RefreshSession bumps the session version; tokens carrying an older version
// are rejected by the auth middleware.
func (d *GormDirectory) RefreshSession(
	ctx context.Context,
	userID uint,
) error {
	return d.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("session_version", gorm.Expr("session_version + 1")).Error
}

// SessionVersion returns the current version, or 0 when the user is missing
// or deleted.
func (d *GormDirectory) SessionVersion(
	ctx context.Context,
	userID uint,
) (int, error) {

	var user models.User
	if err := d.db.WithContext(ctx).
		Select("id", "session_version").
		Where("id = ? AND is_deleted = ?", userID, false).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return user.SessionVersion, nil
}
