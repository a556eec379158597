package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"site-catalog/internal/domain"
)

const invalidDataMessage = "The given data was invalid."

// writeError maps catalog errors onto the wire. Anything unrecognized is an
// internal fault and surfaces its raw message.
func writeError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": invalidDataMessage, "errors": vErr.Fields})
	case errors.Is(err, domain.ErrDuplicateName):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": invalidDataMessage,
			"errors":  map[string]string{"name": domain.MsgNameTaken},
		})
	case errors.Is(err, domain.ErrInvalidReference):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"message": invalidDataMessage,
			"errors":  map[string]string{"category_id": domain.MsgInvalidCategory},
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Resource not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Category cannot be deleted because it still has sites"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateName):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
