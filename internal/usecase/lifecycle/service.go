package lifecycle

import (
	"context"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
	"github.com/lilpaf/Super-Barber-sub000/internal/timezone"
	"github.com/lilpaf/Super-Barber-sub000/internal/validators"
)

type ServiceForm struct {
	Name       string  `json:"name" validate:"required,max=50"`
	CategoryID uint    `json:"category_id" validate:"required"`
	Price      float64 `json:"price" validate:"gte=0"`
}

// ======================================================
// ADD
// ======================================================

type AddServiceInput struct {
	ShopID       uint
	Form         ServiceForm
	CallerUserID uint
}

type AddService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewAddService(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *AddService {
	return &AddService{
		repo:  repo,
		audit: audit,
	}
}

// Execute offers a service at the shop. A service with the same name in the
// same category is reused, restoring it when it was deleted.
func (uc *AddService) Execute(
	ctx context.Context,
	in AddServiceInput,
) (offering *models.Offering, err error) {

	ctx, span := startSpan(ctx, "AddService")
	defer func() { endSpan(span, err) }()

	if err := validators.Struct(in.Form); err != nil {
		return nil, err
	}
	name := validators.NormalizeLookupName(in.Form.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		category, err := tx.GetCategory(ctx, in.Form.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrCategoryNotFound
		}

		shop, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}
		if _, _, err := ownerCaller(ctx, tx, shop.ID, in.CallerUserID); err != nil {
			return err
		}

		services, err := tx.ListServicesInCategory(ctx, category.ID)
		if err != nil {
			return err
		}

		svc := domain.MatchService(services, name)
		switch {
		case svc == nil:
			svc = &models.Service{Name: name, CategoryID: category.ID}
			if err := tx.CreateService(ctx, svc); err != nil {
				return err
			}

		case svc.IsDeleted:
			svc.Restore()
			if err := tx.SaveService(ctx, svc); err != nil {
				return err
			}

		default:
			existing, err := tx.GetOffering(ctx, shop.ID, svc.ID)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.ErrServiceExists
			}
		}

		offering = &models.Offering{
			ServiceID:    svc.ID,
			BarbershopID: shop.ID,
			Price:        in.Form.Price,
		}
		if err := tx.CreateOffering(ctx, offering); err != nil {
			return err
		}
		offering.Service = *svc
		offering.Service.Category = *category
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(in.ShopID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionServiceAdded,
		Entity:       "service",
		EntityID:     audit.ID(offering.ServiceID),
		Metadata:     map[string]float64{"price": offering.Price},
	})

	return offering, nil
}

// ======================================================
// REMOVE
// ======================================================

type RemoveServiceInput struct {
	ShopID       uint
	ServiceID    uint
	CallerUserID uint
	IsAdmin      bool
}

type RemoveService struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   timezone.Clock
}

func NewRemoveService(
	repo domain.Repository,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *RemoveService {
	return &RemoveService{
		repo:  repo,
		audit: audit,
		now:   now,
	}
}

// Execute stops offering the service at the shop. Removing an offering that
// does not exist fails.
func (uc *RemoveService) Execute(
	ctx context.Context,
	in RemoveServiceInput,
) (err error) {

	ctx, span := startSpan(ctx, "RemoveService")
	defer func() { endSpan(span, err) }()

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		shop, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}

		if !in.IsAdmin {
			if _, _, err := ownerCaller(ctx, tx, shop.ID, in.CallerUserID); err != nil {
				return err
			}
		}

		offering, err := tx.GetOffering(ctx, shop.ID, in.ServiceID)
		if err != nil {
			return err
		}
		if offering == nil {
			return domain.ErrServiceNotOffered
		}

		if err := tx.DeleteOffering(ctx, shop.ID, in.ServiceID); err != nil {
			return err
		}
		return retireServiceIfUnused(ctx, tx, &offering.Service, uc.now())
	})
	if err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(in.ShopID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionServiceRemoved,
		Entity:       "service",
		EntityID:     audit.ID(in.ServiceID),
	})

	return nil
}
