package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaveTravelPlanRequest is bound from the console's multipart form.
// StationIDs is the route in visiting order; duplicates are rejected.
type SaveTravelPlanRequest struct {
	Name        string `form:"name"`
	Description string `form:"description"`
	StationIDs  []uint `form:"station_ids"`
}

func (req *SaveTravelPlanRequest) Validate() error {
	if err := validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	); err != nil {
		return err
	}

	seen := make(map[uint]bool, len(req.StationIDs))
	for _, id := range req.StationIDs {
		if seen[id] {
			return validation.NewError("validation_duplicate_station", "station ids must not repeat")
		}
		seen[id] = true
	}

	return nil
}
