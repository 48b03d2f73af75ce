package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rlemos/roombook/internal/models"
	"github.com/rlemos/roombook/internal/services"
)

// respondError translates service errors into the API's status codes and
// payload shapes. Conflicts carry their structured detail.
func respondError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	var roomErr *services.RoomConflictError
	var partErr *services.ParticipantConflictError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
	case errors.As(err, &roomErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "room is already booked for this time (10 minute buffer applies)",
			"conflitos": formatConflicts(roomErr.Conflicts),
		})
	case errors.As(err, &partErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":                       "some participants are not available at the requested time",
			"participantes_indisponiveis": formatSafeUsers(partErr.Unavailable),
		})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the meeting organizer may do this"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func formatSafeUser(u *models.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
	}
}

func formatSafeUsers(users []models.User) []gin.H {
	out := make([]gin.H, len(users))
	for i := range users {
		out[i] = formatSafeUser(&users[i])
	}
	return out
}

func formatConflicts(meetings []models.Meeting) []gin.H {
	out := make([]gin.H, len(meetings))
	for i, m := range meetings {
		out[i] = gin.H{
			"titulo":      m.Title,
			"data_inicio": m.StartsAt.Format(time.RFC3339),
			"data_fim":    m.EndsAt.Format(time.RFC3339),
		}
	}
	return out
}

func formatRoom(r *models.Room) gin.H {
	return gin.H{
		"id":         r.ID,
		"nome":       r.Name,
		"capacidade": r.Capacity,
		"ativa":      r.Active,
	}
}

func formatMeeting(m *models.Meeting) gin.H {
	return gin.H{
		"id":            m.ID,
		"titulo":        m.Title,
		"descricao":     m.Description,
		"data_inicio":   m.StartsAt.Format(time.RFC3339),
		"data_fim":      m.EndsAt.Format(time.RFC3339),
		"criado_em":     m.CreatedAt.Format(time.RFC3339),
		"ativa":         m.Active,
		"sala_id":       m.RoomID,
		"sala_nome":     m.Room.Name,
		"criador_id":    m.OrganizerID,
		"criador_nome":  m.Organizer.Username,
		"participantes": formatSafeUsers(m.Participants),
	}
}
