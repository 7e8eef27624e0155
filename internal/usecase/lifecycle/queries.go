package lifecycle

import (
	"context"

	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

// ShopDetails is a shop with what a customer needs to book it.
type ShopDetails struct {
	Shop      models.Barbershop
	Offerings []models.Offering
	Members   []models.Membership
}

type ListPublicShops struct {
	repo domain.Repository
}

func NewListPublicShops(repo domain.Repository) *ListPublicShops {
	return &ListPublicShops{repo: repo}
}

func (uc *ListPublicShops) Execute(ctx context.Context, city string) ([]models.Barbershop, error) {
	return uc.repo.ListPublicBarbershops(ctx, city)
}

type GetShopDetails struct {
	repo domain.Repository
}

func NewGetShopDetails(repo domain.Repository) *GetShopDetails {
	return &GetShopDetails{repo: repo}
}

// Execute returns a live shop. Private shops are only visible to their
// members; callerUserID is 0 for anonymous requests.
func (uc *GetShopDetails) Execute(
	ctx context.Context,
	shopID uint,
	callerUserID uint,
) (*ShopDetails, error) {

	shop, err := activeShop(ctx, uc.repo, shopID)
	if err != nil {
		return nil, err
	}

	ms, err := uc.repo.ListMemberships(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	if !shop.IsPublic {
		visible := false
		if callerUserID != 0 {
			b, err := barberOfUser(ctx, uc.repo, callerUserID)
			if err != nil {
				return nil, err
			}
			visible = b != nil && domain.FindMembership(ms, b.ID) != nil
		}
		if !visible {
			return nil, domain.ErrBarbershopNotFound
		}
	}

	offerings, err := uc.repo.ListOfferings(ctx, shop.ID)
	if err != nil {
		return nil, err
	}

	details := &ShopDetails{Shop: *shop}
	for _, o := range offerings {
		if o.Service.Active() {
			details.Offerings = append(details.Offerings, o)
		}
	}
	for _, m := range ms {
		if m.Barber.Active() {
			details.Members = append(details.Members, m)
		}
	}
	return details, nil
}

// ShopOwnerCheck answers whether a user owns a live shop. Owner-only reads
// such as the audit trail go through it.
type ShopOwnerCheck struct {
	repo domain.Repository
}

func NewShopOwnerCheck(repo domain.Repository) *ShopOwnerCheck {
	return &ShopOwnerCheck{repo: repo}
}

func (uc *ShopOwnerCheck) Execute(ctx context.Context, shopID, userID uint) (bool, error) {
	if _, err := activeShop(ctx, uc.repo, shopID); err != nil {
		return false, err
	}
	return isShopOwner(ctx, uc.repo, shopID, userID)
}
