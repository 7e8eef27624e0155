package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
	"github.com/lilpaf/Super-Barber-sub000/internal/dto"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/httpresp"
	"github.com/lilpaf/Super-Barber-sub000/internal/infra/identity"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	"github.com/lilpaf/Super-Barber-sub000/internal/notify"
	ucBooking "github.com/lilpaf/Super-Barber-sub000/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type OrderHandler struct {
	book             *ucBooking.BookCart
	cancelAsCustomer *ucBooking.CancelAsCustomer
	cancelAsBarber   *ucBooking.CancelAsBarber
	listMine         *ucBooking.ListCustomerOrders
	listForBarber    *ucBooking.ListBarberOrders

	users *identity.GormDirectory
	mail  *notify.Dispatcher
	loc   *time.Location
}

func NewOrderHandler(
	book *ucBooking.BookCart,
	cancelAsCustomer *ucBooking.CancelAsCustomer,
	cancelAsBarber *ucBooking.CancelAsBarber,
	listMine *ucBooking.ListCustomerOrders,
	listForBarber *ucBooking.ListBarberOrders,
	users *identity.GormDirectory,
	mail *notify.Dispatcher,
	loc *time.Location,
) *OrderHandler {
	return &OrderHandler{
		book:             book,
		cancelAsCustomer: cancelAsCustomer,
		cancelAsBarber:   cancelAsBarber,
		listMine:         listMine,
		listForBarber:    listForBarber,
		users:            users,
		mail:             mail,
		loc:              loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookCartRequest struct {
	Date string    `json:"date" binding:"required"`
	Time string    `json:"time" binding:"required"`
	Cart cart.Cart `json:"cart" binding:"dive"`
}

// ======================================================
// BOOK
// ======================================================

// POST /api/orders
//
// Lines booked before a failure stay booked: the error body carries the
// remaining cart and the customer is still sent a confirmation for what went
// through.
func (h *OrderHandler) Book(c *gin.Context) {
	var req BookCartRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	orders, err := h.book.Execute(ctx, ucBooking.BookCartInput{
		Date:           req.Date,
		Time:           req.Time,
		Lines:          req.Cart,
		CustomerUserID: userID,
	})

	if len(orders) > 0 {
		if user, lookupErr := h.users.FindUser(ctx, userID); lookupErr != nil {
			zap.L().Warn("booking confirmation skipped", zap.Uint("user_id", userID), zap.Error(lookupErr))
		} else if user != nil {
			h.mail.Send(notify.BookingConfirmed(*user, orders, h.loc))
		}
	}

	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":  dto.Orders(orders, h.loc, false),
		"total": len(orders),
	})
}

// ======================================================
// LIST
// ======================================================

// GET /api/orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.listMine.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, dto.Orders(orders, h.loc, false))
}

// GET /api/barbers/me/orders
func (h *OrderHandler) ListForBarber(c *gin.Context) {
	orders, err := h.listForBarber.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	httpresp.List(c, dto.Orders(orders, h.loc, true))
}

// ======================================================
// CANCEL
// ======================================================

// PATCH /api/orders/:id/cancel
func (h *OrderHandler) CancelAsCustomer(c *gin.Context) {
	if _, err := h.cancelAsCustomer.Execute(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PATCH /api/barbers/:barberId/orders/:id/cancel
func (h *OrderHandler) CancelAsBarber(c *gin.Context) {
	barberID, ok := uintParam(c, "barberId")
	if !ok {
		return
	}

	order, err := h.cancelAsBarber.Execute(c.Request.Context(), ucBooking.CancelAsBarberInput{
		OrderID:      c.Param("id"),
		BarberID:     barberID,
		CallerUserID: middleware.UserID(c),
	})
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	h.mail.Send(notify.OrderCancelledByBarber(*order, h.loc))

	c.Status(http.StatusNoContent)
}
