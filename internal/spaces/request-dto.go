package spaces

type CreateSpaceRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=1000"`
	Capacity    int    `json:"capacity" binding:"required,min=1,max=100000"`
}

type UpdateSpaceRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Capacity    *int    `json:"capacity" binding:"omitempty,min=1,max=100000"`
	Active      *bool   `json:"active"`
}

type CreateBlackoutRequest struct {
	SpaceID   string `json:"space_id" binding:"required,uuid"`
	DateStart string `json:"date_start" binding:"required,datetime=2006-01-02"`
	DateEnd   string `json:"date_end" binding:"required,datetime=2006-01-02"`
	TimeStart string `json:"time_start" binding:"omitempty,hhmm"`
	TimeEnd   string `json:"time_end" binding:"omitempty,hhmm"`
	Reason    string `json:"reason" binding:"required,min=3,max=500"`
}
