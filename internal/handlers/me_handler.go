package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

// MeHandler serves the caller's own account and barber profile.
type MeHandler struct {
	users         *identity.GormDirectory
	createBarber  *ucLifecycle.CreateBarber
	deleteBarber  *ucLifecycle.DeleteBarber
	deleteAccount *ucLifecycle.DeleteAccount
}

func NewMeHandler(
	users *identity.GormDirectory,
	createBarber *ucLifecycle.CreateBarber,
	deleteBarber *ucLifecycle.DeleteBarber,
	deleteAccount *ucLifecycle.DeleteAccount,
) *MeHandler {
	return &MeHandler{
		users:         users,
		createBarber:  createBarber,
		deleteBarber:  deleteBarber,
		deleteAccount: deleteAccount,
	}
}

// GET /api/me
func (h *MeHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	user, err := h.users.FindUser(ctx, userID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}
	if user == nil || user.IsDeleted {
		httperr.NotFoundJSON(c, "user_not_found", "User does not exist.")
		return
	}

	roles, err := h.users.Roles(ctx, userID)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user, roles))
}

// DELETE /api/me
func (h *MeHandler) DeleteAccount(c *gin.Context) {
	if err := h.deleteAccount.Execute(c.Request.Context(), middleware.UserID(c)); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /api/barbers
func (h *MeHandler) BecomeBarber(c *gin.Context) {
	barber, err := h.createBarber.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, barber)
}

// DELETE /api/barbers/me
func (h *MeHandler) DeleteBarber(c *gin.Context) {
	if err := h.deleteBarber.Execute(c.Request.Context(), ucLifecycle.DeleteBarberInput{
		CallerUserID: middleware.UserID(c),
	}); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
