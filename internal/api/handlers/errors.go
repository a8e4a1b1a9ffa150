package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/procurement/internal/service"
)

// respondError maps a workflow error to an HTTP response. Classified errors
// carry their own message; anything unclassified is a server fault and only a
// generic message leaves the process.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.JSON(statusForKind(svcErr.Kind), gin.H{"error": svcErr.Message})
		return
	}

	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAuthorization:
		return http.StatusForbidden
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
