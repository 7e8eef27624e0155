package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lilpaf/Super-Barber-sub000/internal/audit"
	domainLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/domain/lifecycle"
	"github.com/lilpaf/Super-Barber-sub000/internal/httperr"
	"github.com/lilpaf/Super-Barber-sub000/internal/middleware"
	ucLifecycle "github.com/lilpaf/Super-Barber-sub000/internal/usecase/lifecycle"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs   *audit.Logger
	owners *ucLifecycle.ShopOwnerCheck
}

func NewAuditLogsHandler(logs *audit.Logger, owners *ucLifecycle.ShopOwnerCheck) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, owners: owners}
}

// GET /api/barbershops/:id/audit-logs?action=&entity=&from=&to=&page=&limit=
func (h *AuditLogsHandler) List(c *gin.Context) {
	shopID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()

	if !middleware.IsAdmin(c) {
		owner, err := h.owners.Execute(ctx, shopID, middleware.UserID(c))
		if err != nil {
			httperr.WriteError(c, err)
			return
		}
		if !owner {
			httperr.WriteError(c, domainLifecycle.ErrNotOwner)
			return
		}
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	filter := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Page:   page,
		Limit:  limit,
	}
	filter.Normalize()

	// --------------------------------------------------
	// Optional date range, inclusive of the "to" day
	// --------------------------------------------------

	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		end := to.Add(24 * time.Hour)
		filter.To = &end
	}

	logs, total, err := h.logs.List(ctx, shopID, filter)
	if err != nil {
		httperr.WriteError(c, err)
		return
	}

	c.JSON(200, gin.H{
		"page":  filter.Page,
		"limit": filter.Limit,
		"total": total,
		"logs":  logs,
	})
}
