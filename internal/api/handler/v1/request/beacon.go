package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type CreateBeaconRequest struct {
	BeaconID     string  `json:"beacon_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	OwnerGroupID *uint   `json:"owner_group_id"`
	StationIDs   []uint  `json:"station_ids"`
}

func (req *CreateBeaconRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BeaconID, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Lng, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type UpdateBeaconRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	StationIDs  []uint  `json:"station_ids"`
}

func (req *UpdateBeaconRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Lng, validation.Min(-180.0), validation.Max(180.0)),
	)
}
