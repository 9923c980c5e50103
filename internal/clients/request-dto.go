package clients

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Company string `json:"company" binding:"omitempty,max=255"`
	Source  string `json:"origem" binding:"omitempty,max=50"`
	Notes   string `json:"observacoes" binding:"omitempty,max=2000"`
}

type UpdateClientRequest struct {
	Name    string `json:"name" binding:"omitempty,min=2,max=255"`
	Phone   string `json:"phone" binding:"omitempty,max=30"`
	Company string `json:"company" binding:"omitempty,max=255"`
	Source  string `json:"origem" binding:"omitempty,max=50"`
	Notes   string `json:"observacoes" binding:"omitempty,max=2000"`
}

type ClientListQueryParams struct {
	Search string `form:"search" binding:"omitempty,max=255"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
}
