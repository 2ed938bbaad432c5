package domain

type TravelPlan struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImagePath   string `json:"image_path"`
	// StationIDs is the plan's route in visiting order.
	StationIDs []uint `json:"station_ids"`
}
