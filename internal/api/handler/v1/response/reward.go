package response

import (
	"github.com/rapirent/smart-campus/internal/domain"
)

type Reward struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ImageURL         string `json:"image_url"`
	RelatedStationID *uint  `json:"related_station_id,omitempty"`
}

func BuildReward(r domain.Reward, imageURL func(path string) string) Reward {
	out := Reward{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		RelatedStationID: r.RelatedStationID,
	}
	if r.ImagePath != "" {
		out.ImageURL = imageURL(r.ImagePath)
	}

	return out
}

func BuildRewards(rewards []domain.Reward, imageURL func(path string) string) []Reward {
	out := make([]Reward, len(rewards))
	for i, r := range rewards {
		out[i] = BuildReward(r, imageURL)
	}

	return out
}
