package response

import "reservation-bot/internal/data/entity"

type ServiceResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	DurationMin int     `json:"duration_min"`
}

func ServiceToResponse(s *entity.Service) ServiceResponse {
	return ServiceResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Price:       s.Price,
		DurationMin: s.DurationMin,
	}
}
