package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/lilpaf/Super-Barber-sub000/internal/cart"
)

const uniqueViolationCode = "23505"

type HTTPError struct {
	Code          string    `json:"error_code"`
	Key           string    `json:"key,omitempty"`
	Message       string    `json:"message"`
	RemainingCart cart.Cart `json:"remaining_cart,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundJSON(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// Status maps a business kind to its HTTP status.
func Status(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusForbidden
	case KindConflict, KindUnavailable:
		return http.StatusConflict
	case KindTemporal:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// WriteError writes a business error as-is and treats anything else as a
// system fault.
func WriteError(c *gin.Context, err error) {
	if be, ok := AsBusiness(err); ok {
		c.JSON(Status(be.Kind), HTTPError{
			Code:          be.Code,
			Key:           be.Key,
			Message:       be.Message,
			RemainingCart: be.Remaining,
		})
		return
	}

	if IsUniqueConflict(err) {
		Write(c, http.StatusConflict, "concurrent_conflict", "The resource was changed by another request. Try again.")
		return
	}

	zap.L().Error("request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	Internal(c, "system_fault", "Something went wrong.")
}

// IsUniqueConflict reports a unique constraint violation from gorm's
// translated errors or straight from postgres.
func IsUniqueConflict(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
