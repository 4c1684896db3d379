package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialchat/internal/authz"
	"socialchat/internal/middleware"
	"socialchat/internal/pagination"
	"socialchat/internal/repositories"
	"socialchat/internal/services"
)

// errorStatus maps service errors onto HTTP codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, authz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict), errors.Is(err, repositories.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"error": ...}; internal failures are logged and
// never leak their text.
func writeError(c *gin.Context, log *zap.Logger, op string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error(op, zap.Error(err))
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// getUserID reads the caller set by middleware.AuthMiddleware.
func getUserID(c *gin.Context) uint {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// paramID parses a positive numeric path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(n), true
}

func pageParams(c *gin.Context) pagination.Params {
	return pagination.FromQuery(c.Query("page"), c.Query("perpage"))
}
