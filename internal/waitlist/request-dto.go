package waitlist

type JoinRequest struct {
	ClientID      string  `json:"client_id" binding:"required,uuid"`
	SpaceID       string  `json:"space_id" binding:"required,uuid"`
	DesiredDate   string  `json:"date_desejada" binding:"required,datetime=2006-01-02"`
	PreferredTime string  `json:"horario_preferencial" binding:"omitempty,hhmm"`
	Priority      int     `json:"priority" binding:"omitempty,min=1,max=10"`
	DealValue     float64 `json:"valor_estimado_proposta" binding:"omitempty,gte=0"`
	Source        string  `json:"origem" binding:"omitempty,max=50"`
	Notes         string  `json:"observacoes" binding:"omitempty,max=2000"`
}

type UpdatePriorityRequest struct {
	Priority int `json:"priority" binding:"required,min=1,max=10"`
}

type NotifyRequest struct {
	Channel string `json:"channel" binding:"required,oneof=email whatsapp telefone"`
}

type AttendRequest struct {
	AlternativeSpaceID string `json:"alternative_space_id" binding:"omitempty,uuid"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type ListQueryParams struct {
	SpaceID string `form:"space_id" binding:"required,uuid"`
	Status  string `form:"status" binding:"omitempty,oneof=ativo notificado atendido cancelado"`
}
