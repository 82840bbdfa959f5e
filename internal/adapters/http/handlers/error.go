package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lsampaio/product-api/internal/core/logger"
	"github.com/lsampaio/product-api/internal/core/serviceerrors"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError maps service errors to HTTP responses. Unclassified errors are
// infrastructure failures: the cause is logged here and the response stays
// opaque.
func HandleError(c *gin.Context, err error) {
	var svcErr *serviceerrors.ServiceError
	if errors.As(err, &svcErr) {
		c.JSON(mapKindToHTTP(svcErr.Kind), ErrorResponse{Error: svcErr.Message})
		return
	}

	logger.Error(c.Request.Context(), "request failed", err, map[string]any{
		"http.method": c.Request.Method,
		"http.route":  c.FullPath(),
	})
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func mapKindToHTTP(kind serviceerrors.ErrorKind) int {
	switch kind {
	case serviceerrors.KindNotFound:
		return http.StatusNotFound
	case serviceerrors.KindUnauthorized:
		return http.StatusForbidden
	case serviceerrors.KindUnauthenticated:
		return http.StatusUnauthorized
	case serviceerrors.KindConflict:
		return http.StatusConflict
	case serviceerrors.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
