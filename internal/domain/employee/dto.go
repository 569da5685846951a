package employee

import "time"

type EmployeeFilter struct {
	Group string
}

type EmployeeResponse struct {
	TokenNo   string    `json:"token_no"`
	Name      string    `json:"name"`
	Group     *string   `json:"group"`
	Desig     *string   `json:"desig"`
	Role      *string   `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		TokenNo:   e.TokenNo,
		Name:      e.Name,
		Group:     e.Group,
		Desig:     e.Desig,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
	}
}
