package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rlemos/roombook/internal/database"
	"github.com/rlemos/roombook/internal/handlers/dto"
	"github.com/rlemos/roombook/internal/models"
)

type RoomHandler struct {
	db *database.Database
}

func NewRoomHandler(db *database.Database) *RoomHandler {
	return &RoomHandler{db: db}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.db.GetActiveRooms()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list rooms"})
		return
	}

	out := make([]gin.H, len(rooms))
	for i := range rooms {
		out[i] = formatRoom(&rooms[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room name is required"})
		return
	}

	if _, err := h.db.FindRoomByName(req.Name); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "a room with this name already exists"})
		return
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 10
	}

	room := &models.Room{
		Name:     req.Name,
		Capacity: capacity,
		Active:   true,
	}
	if err := h.db.CreateRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "room created",
		"sala":    formatRoom(room),
	})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.db.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, formatRoom(room))
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	room, err := h.db.GetRoom(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Name != nil {
		if existing, err := h.db.FindRoomByName(*req.Name); err == nil && existing.ID != room.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "a room with this name already exists"})
			return
		}
		room.Name = *req.Name
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Active != nil {
		room.Active = *req.Active
	}

	if err := h.db.UpdateRoom(room); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "room updated",
		"sala":    formatRoom(room),
	})
}

// DeleteRoom is a soft delete. Meetings already booked keep their room
// reference.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	if _, err := h.db.GetRoom(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	if err := h.db.DeactivateRoom(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate room"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "room deactivated"})
}
