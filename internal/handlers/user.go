package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlemos/roombook/internal/database"
)

type UserHandler struct {
	db *database.Database
}

func NewUserHandler(db *database.Database) *UserHandler {
	return &UserHandler{db: db}
}

// ListUsers returns active users as safe projections, used by the meeting
// form to pick participants.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.db.GetActiveUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	c.JSON(http.StatusOK, formatSafeUsers(users))
}
