package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domain "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/storage"
	"github.com/lilpaf/Super-Barber-sub000/internal/models"
)

var ErrInvalidImage = httperr.Invalid("invalid_image", "Image", "Upload a JPEG, PNG or WebP image.")

type UploadShopImageInput struct {
	ShopID       uint
	CallerUserID uint
	IsAdmin      bool
	Image        io.Reader
}

type UploadShopImage struct {
	repo   domain.Repository
	images storage.ImageStore
	audit  *audit.Dispatcher
}

func NewUploadShopImage(
	repo domain.Repository,
	images storage.ImageStore,
	audit *audit.Dispatcher,
) *UploadShopImage {
	return &UploadShopImage{
		repo:   repo,
		images: images,
		audit:  audit,
	}
}

// Execute stores the image as WebP and points the shop at it. The previous
// image is removed on a best-effort basis, and so is the new one when the shop
// cannot be updated.
func (uc *UploadShopImage) Execute(
	ctx context.Context,
	in UploadShopImageInput,
) (shop *models.Barbershop, err error) {

	ctx, span := startSpan(ctx, "UploadShopImage")
	defer func() { endSpan(span, err) }()

	shop, err = activeShop(ctx, uc.repo, in.ShopID)
	if err != nil {
		return nil, err
	}
	if !in.IsAdmin {
		if _, _, err := ownerCaller(ctx, uc.repo, shop.ID, in.CallerUserID); err != nil {
			return nil, err
		}
	}

	data, err := storage.EncodeWebP(in.Image)
	if err != nil {
		if errors.Is(err, storage.ErrNotAnImage) {
			return nil, ErrInvalidImage
		}
		return nil, err
	}

	name := fmt.Sprintf("barbershops/%d/%s.webp", shop.ID, uuid.NewString())
	if err := uc.images.Put(ctx, name, data); err != nil {
		return nil, err
	}

	var old string
	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		current, err := lockedShop(ctx, tx, in.ShopID)
		if err != nil {
			return err
		}
		old = current.ImageName
		current.ImageName = name
		if err := tx.SaveBarbershop(ctx, current); err != nil {
			return err
		}
		shop = current
		return nil
	})
	if err != nil {
		if delErr := uc.images.Delete(ctx, name); delErr != nil {
			zap.L().Warn("orphaned shop image not removed", zap.String("name", name), zap.Error(delErr))
		}
		return nil, err
	}

	if old != "" {
		if err := uc.images.Delete(ctx, old); err != nil {
			zap.L().Warn("old shop image not removed", zap.String("name", old), zap.Error(err))
		}
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: audit.Ptr(shop.ID),
		UserID:       audit.Ptr(in.CallerUserID),
		Action:       audit.ActionShopImageUploaded,
		Entity:       "barbershop",
		EntityID:     audit.ID(shop.ID),
		Metadata:     map[string]string{"image": name},
	})

	return shop, nil
}
