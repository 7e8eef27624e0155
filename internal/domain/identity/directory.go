package identity

import (
	"context"

	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// Directory is the user account gateway. Lookups return (nil, nil) when the
// user does not exist. AddRole and RemoveRole are idempotent.
type Directory interface {
	FindUser(ctx context.Context, id uint) (*models.User, error)
	HasRole(ctx context.Context, userID uint, role models.Role) (bool, error)
	Roles(ctx context.Context, userID uint) ([]models.Role, error)
	AddRole(ctx context.Context, userID uint, role models.Role) error
	RemoveRole(ctx context.Context, userID uint, role models.Role) error
	// RefreshSession invalidates tokens minted before the call.
	RefreshSession(ctx context.Context, userID uint) error
	SaveUser(ctx context.Context, user *models.User) error
}
