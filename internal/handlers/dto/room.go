package dto

type CreateRoomRequest struct {
	Name     string `json:"nome" binding:"required"`
	Capacity int    `json:"capacidade"`
}

type UpdateRoomRequest struct {
	Name     *string `json:"nome"`
	Capacity *int    `json:"capacidade"`
	Active   *bool   `json:"ativa"`
}
