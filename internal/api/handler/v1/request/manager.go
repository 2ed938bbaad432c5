package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type CreateManagerRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Nickname        string `json:"nickname"`
	RoleID          uint   `json:"role_id"`
	GroupID         *uint  `json:"group_id"`
}

func (req *CreateManagerRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.EmailFormat),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required),
		validation.Field(&req.Nickname, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.RoleID, validation.Required),
	)
	if err != nil {
		return err
	}

	return validatePassword(req.Password, req.ConfirmPassword)
}

type UpdateManagerRequest struct {
	Nickname string `json:"nickname"`
	RoleID   uint   `json:"role_id"`
	GroupID  *uint  `json:"group_id"`
}

func (req *UpdateManagerRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Nickname, validation.Required, validation.Length(1, 30)),
		validation.Field(&req.RoleID, validation.Required),
	)
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

func (req *CreateGroupRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 50)),
	)
}
