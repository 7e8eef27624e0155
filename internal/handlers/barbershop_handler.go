package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/dto"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/httpresp"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/storage"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

// ======================================================
// HANDLER
// ======================================================

type BarbershopHandler struct {
	list        *ucLifecycle.ListPublicShops
	details     *ucLifecycle.GetShopDetails
	create      *ucLifecycle.CreateShop
	edit        *ucLifecycle.EditShop
	delete      *ucLifecycle.DeleteShop
	uploadImage *ucLifecycle.UploadShopImage
}

func NewBarbershopHandler(
	list *ucLifecycle.ListPublicShops,
	details *ucLifecycle.GetShopDetails,
	create *ucLifecycle.CreateShop,
	edit *ucLifecycle.EditShop,
	delete *ucLifecycle.DeleteShop,
	uploadImage *ucLifecycle.UploadShopImage,
) *BarbershopHandler {
	return &BarbershopHandler{
		list:        list,
		details:     details,
		create:      create,
		edit:        edit,
		delete:      delete,
		uploadImage: uploadImage,
	}
}

// ======================================================
// QUERIES
// ======================================================

// GET /api/barbershops?city=
func (h *BarbershopHandler) List(c *gin.Context) {
	shops, err := h.list.Execute(c.Request.Context(), c.Query("city"))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, dto.Barbershops(shops))
}

// GET /api/barbershops/:id
func (h *BarbershopHandler) Get(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	details, err := h.details.Execute(c.Request.Context(), shopID, middleware.UserID(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, dto.BarbershopDetails(details))
}

// ======================================================
// COMMANDS
// ======================================================

func (h *BarbershopHandler) Create(c *gin.Context) {
	var form ucLifecycle.ShopForm
	if !bindJSON(c, &form) {
		return
	}

	shop, err := h.create.Execute(c.Request.Context(), ucLifecycle.CreateShopInput{
		Form:         form,
		CallerUserID: middleware.UserID(c),
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.Barbershop(*shop))
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var form ucLifecycle.ShopForm
	if !bindJSON(c, &form) {
		return
	}

	shop, err := h.edit.Execute(c.Request.Context(), ucLifecycle.EditShopInput{
		ShopID:       shopID,
		Form:         form,
		CallerUserID: middleware.UserID(c),
		IsAdmin:      middleware.IsAdmin(c),
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, dto.Barbershop(*shop))
}

func (h *BarbershopHandler) Delete(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), ucLifecycle.DeleteShopInput{
		ShopID:       shopID,
		CallerUserID: middleware.UserID(c),
		IsAdmin:      middleware.IsAdmin(c),
	}); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PUT /api/barbershops/:id/image (multipart, field "image")
func (h *BarbershopHandler) UploadImage(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, storage.MaxUploadBytes)

	header, err := c.FormFile("image")
	if err != nil {
		httperr.WriteError(c, ucLifecycle.ErrInvalidImage)
		return
	}

	file, err := header.Open()
	if err != nil {
		httperr.WriteError(c, ucLifecycle.ErrInvalidImage)
		return
	}
	defer file.Close()

	shop, err := h.uploadImage.Execute(c.Request.Context(), ucLifecycle.UploadShopImageInput{
		ShopID:       shopID,
		CallerUserID: middleware.UserID(c),
		IsAdmin:      middleware.IsAdmin(c),
		Image:        file,
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.OK(c, dto.Barbershop(*shop))
}
