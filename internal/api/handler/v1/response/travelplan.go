package response

import (
	"github.com/rapirent/smart-campus/internal/domain"
)

type TravelPlan struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	// StationIDs lists the route in visiting order.
	StationIDs []uint `json:"station_ids"`
}

func BuildTravelPlan(p domain.TravelPlan, imageURL func(path string) string) TravelPlan {
	out := TravelPlan{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StationIDs:  p.StationIDs,
	}
	if p.ImagePath != "" {
		out.ImageURL = imageURL(p.ImagePath)
	}
	if out.StationIDs == nil {
		out.StationIDs = []uint{}
	}

	return out
}

func BuildTravelPlans(plans []domain.TravelPlan, imageURL func(path string) string) []TravelPlan {
	out := make([]TravelPlan, len(plans))
	for i, p := range plans {
		out[i] = BuildTravelPlan(p, imageURL)
	}

	return out
}
