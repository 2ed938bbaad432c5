package domain

type Reward struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	ImagePath        string `json:"image_path"`
	Description      string `json:"description"`
	RelatedStationID *uint  `json:"related_station_id,omitempty"`
}
