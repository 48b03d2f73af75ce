package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rlemos/roombook/internal/handlers/dto"
	"github.com/rlemos/roombook/internal/middleware"
	"github.com/rlemos/roombook/internal/services"
)

type MeetingHandler struct {
	bookings *services.BookingService
}

func NewMeetingHandler(bookings *services.BookingService) *MeetingHandler {
	return &MeetingHandler{bookings: bookings}
}

func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	meetings, err := h.bookings.List(services.ListMeetingsInput{
		From:   c.Query("data_inicio"),
		To:     c.Query("data_fim"),
		RoomID: c.Query("sala_id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, len(meetings))
	for i := range meetings {
		out[i] = formatMeeting(&meetings[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title, start, end and room are required"})
		return
	}

	meeting, err := h.bookings.Create(userID, services.CreateMeetingInput{
		Title:          req.Title,
		Description:    req.Description,
		Start:          req.Start,
		End:            req.End,
		RoomID:         req.RoomID,
		ParticipantIDs: req.Participants,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "meeting scheduled",
		"reuniao": formatMeeting(meeting),
	})
}

func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	meeting, err := h.bookings.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, formatMeeting(meeting))
}

func (h *MeetingHandler) UpdateMeeting(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.bookings.Update(userID, c.Param("id"), services.UpdateMeetingInput{
		Title:          req.Title,
		Description:    req.Description,
		Start:          req.Start,
		End:            req.End,
		ParticipantIDs: req.Participants,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "meeting updated",
		"reuniao": formatMeeting(meeting),
	})
}

// CancelMeeting soft-deletes; the row stays behind for history.
func (h *MeetingHandler) CancelMeeting(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	if err := h.bookings.Cancel(userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "meeting cancelled"})
}

func (h *MeetingHandler) Calendar(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("ano"))
	month, _ := strconv.Atoi(c.Query("mes"))

	events, err := h.bookings.Calendar(year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// CheckConflict probes a candidate booking without mutating anything.
func (h *MeetingHandler) CheckConflict(c *gin.Context) {
	var req dto.ProbeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room, start and end are required"})
		return
	}

	result, err := h.bookings.Probe(services.ProbeInput{
		RoomID:         req.RoomID,
		Start:          req.Start,
		End:            req.End,
		MeetingID:      req.MeetingID,
		ParticipantIDs: req.Participants,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conflitos_sala":              formatConflicts(result.RoomConflicts),
		"participantes_indisponiveis": formatSafeUsers(result.Unavailable),
		"tem_conflito":                result.HasConflict,
	})
}
