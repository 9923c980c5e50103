package reservations

type CreateReservationRequest struct {
	SpaceID     string `json:"space_id" binding:"required,uuid"`
	ClientID    string `json:"client_id" binding:"omitempty,uuid"`
	DateStart   string `json:"date_start" binding:"required,datetime=2006-01-02"`
	DateEnd     string `json:"date_end" binding:"required,datetime=2006-01-02"`
	TimeStart   string `json:"time_start" binding:"omitempty,hhmm"`
	TimeEnd     string `json:"time_end" binding:"omitempty,hhmm"`
	Description string `json:"description" binding:"max=1000"`
}

type ReservationListQueryParams struct {
	SpaceID  string `form:"space_id" binding:"omitempty,uuid"`
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=ativa convertida liberada expirada cancelado"`
	Kind     string `form:"tipo" binding:"omitempty,oneof=temporaria confirmada"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
