package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/microservices/http-api/middleware"
	"foodgram/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const requestTimeout = 5 * time.Second

// respondError translates a service error into the HTTP response. Storage
// faults are logged here and never leak their cause to the client.
func respondError(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		se = &service.Error{Kind: service.KindStorage, Message: "internal error", Err: err}
	}

	switch se.Kind {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, gin.H{se.Field: []string{se.Message}})
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"detail": se.Message})
	case service.KindConflict:
		c.JSON(http.StatusBadRequest, gin.H{"errors": se.Message})
	case service.KindEmptyCart:
		c.JSON(http.StatusBadRequest, gin.H{"errors": se.Message})
	case service.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"detail": se.Message})
	case service.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"detail": se.Message})
	default:
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.ContextRequestID),
			"op", se.Message,
			"error", se.Err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}

// pathID reads a numeric path parameter. A malformed id answers 404, the
// same as an id that does not exist.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "not found"})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter, falling back to def.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{name: []string{"a valid integer is required"}})
		return 0, false
	}
	return v, true
}

// queryFlag treats "1" and "true" as set.
func queryFlag(c *gin.Context, name string) bool {
	switch c.Query(name) {
	case "1", "true", "True":
		return true
	}
	return false
}

func requireUser(c *gin.Context) (int64, bool) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "authentication credentials were not provided"})
		return 0, false
	}
	return userID, true
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed request body: " + err.Error()})
}
