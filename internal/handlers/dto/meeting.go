package dto

type CreateMeetingRequest struct {
	Title        string   `json:"titulo" binding:"required"`
	Description  string   `json:"descricao"`
	Start        string   `json:"data_inicio" binding:"required"`
	End          string   `json:"data_fim" binding:"required"`
	RoomID       string   `json:"sala_id" binding:"required"`
	Participants []string `json:"participantes"`
}

// Pointer fields distinguish "not sent" from "sent empty": omitting
// participantes keeps the current set, sending [] clears it.
type UpdateMeetingRequest struct {
	Title        *string   `json:"titulo"`
	Description  *string   `json:"descricao"`
	Start        *string   `json:"data_inicio"`
	End          *string   `json:"data_fim"`
	Participants *[]string `json:"participantes"`
}

type ProbeRequest struct {
	RoomID       string   `json:"sala_id" binding:"required"`
	Start        string   `json:"data_inicio" binding:"required"`
	End          string   `json:"data_fim" binding:"required"`
	MeetingID    string   `json:"reuniao_id"`
	Participants []string `json:"participantes"`
}
