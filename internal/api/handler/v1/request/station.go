package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateStationRequest is bound from the console's multipart form; the
// image files themselves are read from the form parts.
type CreateStationRequest struct {
	Name           string   `form:"name"`
	Content        string   `form:"content"`
	CategoryID     *uint    `form:"category_id"`
	Lat            float64  `form:"lat"`
	Lng            float64  `form:"lng"`
	OwnerGroupID   *uint    `form:"owner_group_id"`
	BeaconIDs      []string `form:"beacon_ids"`
	MainImageIndex int      `form:"main_image_index"`
}

func (req *CreateStationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Lng, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.MainImageIndex, validation.Min(0)),
	)
}

type UpdateStationRequest struct {
	Name       string   `form:"name"`
	Content    string   `form:"content"`
	CategoryID *uint    `form:"category_id"`
	Lat        float64  `form:"lat"`
	Lng        float64  `form:"lng"`
	BeaconIDs  []string `form:"beacon_ids"`
}

func (req *UpdateStationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Lat, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Lng, validation.Min(-180.0), validation.Max(180.0)),
	)
}

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (req *CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
	)
}
