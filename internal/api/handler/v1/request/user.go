package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type UpdateCoinsRequest struct {
	Email string `json:"email"`
	Coins int    `json:"coins"`
}

func (req *UpdateCoinsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Coins, validation.Min(0)),
	)
}

type UpdateExperiencePointRequest struct {
	Email           string `json:"email"`
	ExperiencePoint int    `json:"experience_point"`
}

func (req *UpdateExperiencePointRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.ExperiencePoint, validation.Min(0)),
	)
}

type GrantRewardRequest struct {
	Email    string `json:"email"`
	RewardID uint   `json:"reward_id"`
}

func (req *GrantRewardRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.RewardID, validation.Required),
	)
}

type FavoriteStationRequest struct {
	Email     string `json:"email"`
	StationID uint   `json:"station_id"`
}

func (req *FavoriteStationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.StationID, validation.Required),
	)
}

type LinkedStationsRequest struct {
	Email    string `json:"email"`
	BeaconID string `json:"beacon_id"`
}

func (req *LinkedStationsRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.BeaconID, validation.Required),
	)
}

type AnsweredQuestionRequest struct {
	Email      string `json:"email"`
	QuestionID uint   `json:"question_id"`
}

func (req *AnsweredQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.QuestionID, validation.Required),
	)
}
