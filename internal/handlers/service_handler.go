package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/dto"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

type ServiceHandler struct {
	add    *ucLifecycle.AddService
	remove *ucLifecycle.RemoveService
}

func NewServiceHandler(
	add *ucLifecycle.AddService,
	remove *ucLifecycle.RemoveService,
) *ServiceHandler {
	return &ServiceHandler{add: add, remove: remove}
}

// POST /api/barbershops/:id/services
func (h *ServiceHandler) Add(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var form ucLifecycle.ServiceForm
	if !bindJSON(c, &form) {
		return
	}

	offering, err := h.add.Execute(c.Request.Context(), ucLifecycle.AddServiceInput{
		ShopID:       shopID,
		Form:         form,
		CallerUserID: middleware.UserID(c),
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OfferingDTO{
		ServiceID: offering.ServiceID,
		Name:      offering.Service.Name,
		Category:  offering.Service.Category.Name,
		Price:     offering.Price,
	})
}

// DELETE /api/barbershops/:id/services/:serviceId
func (h *ServiceHandler) Remove(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := uintParam(c, "serviceId")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), ucLifecycle.RemoveServiceInput{
		ShopID:       shopID,
		ServiceID:    serviceID,
		CallerUserID: middleware.UserID(c),
		IsAdmin:      middleware.IsAdmin(c),
	}); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
