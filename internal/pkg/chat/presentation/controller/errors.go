package controller

import (
	"errors"
	"net/http"

	"github.com/Raees-J/DockIt/internal/pkg/chat/application/session"

	"github.com/gin-gonic/gin"
)

// respondError maps the session error taxonomy onto HTTP statuses. Every
// rejected operation yields exactly one error response to its originator.
func respondError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, session.ErrAuthorization):
		status = http.StatusForbidden
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrPersistence):
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
