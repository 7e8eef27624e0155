package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

type MembershipHandler struct {
	assign          *ucLifecycle.AssignBarber
	unassign        *ucLifecycle.UnassignBarber
	promote         *ucLifecycle.PromoteOwner
	demote          *ucLifecycle.DemoteOwner
	setAvailability *ucLifecycle.SetAvailability
}

func NewMembershipHandler(
	assign *ucLifecycle.AssignBarber,
	unassign *ucLifecycle.UnassignBarber,
	promote *ucLifecycle.PromoteOwner,
	demote *ucLifecycle.DemoteOwner,
	setAvailability *ucLifecycle.SetAvailability,
) *MembershipHandler {
	return &MembershipHandler{
		assign:          assign,
		unassign:        unassign,
		promote:         promote,
		demote:          demote,
		setAvailability: setAvailability,
	}
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

func membershipInput(c *gin.Context) (ucLifecycle.MembershipInput, bool) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return ucLifecycle.MembershipInput{}, false
	}
	barberID, ok := uintParam(c, "barberId")
	if !ok {
		return ucLifecycle.MembershipInput{}, false
	}
	return ucLifecycle.MembershipInput{
		ShopID:       shopID,
		BarberID:     barberID,
		CallerUserID: middleware.UserID(c),
	}, true
}

// POST /api/barbershops/:id/barbers
func (h *MembershipHandler) Assign(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := h.assign.Execute(c.Request.Context(), ucLifecycle.AssignBarberInput{
		ShopID:       shopID,
		CallerUserID: middleware.UserID(c),
	}); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /api/barbershops/:id/barbers/:barberId
func (h *MembershipHandler) Unassign(c *gin.Context) {
	in, ok := membershipInput(c)
	if !ok {
		return
	}

	if err := h.unassign.Execute(c.Request.Context(), in); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /api/barbershops/:id/owners/:barberId
func (h *MembershipHandler) Promote(c *gin.Context) {
	in, ok := membershipInput(c)
	if !ok {
		return
	}

	if err := h.promote.Execute(c.Request.Context(), in); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// DELETE /api/barbershops/:id/owners/:barberId
func (h *MembershipHandler) Demote(c *gin.Context) {
	in, ok := membershipInput(c)
	if !ok {
		return
	}

	if err := h.demote.Execute(c.Request.Context(), in); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PUT /api/barbershops/:id/barbers/:barberId/availability
func (h *MembershipHandler) SetAvailability(c *gin.Context) {
	in, ok := membershipInput(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.setAvailability.Execute(c.Request.Context(), ucLifecycle.SetAvailabilityInput{
		MembershipInput: in,
		Available:       *req.Available,
	}); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
