package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := SignupRequest{
		Email:           "visitor@campus.test",
		Password:        "pass1234",
		ConfirmPassword: "pass1234",
		Nickname:        "visitor",
	}

	tests := []struct {
		name   string
		mutate func(*SignupRequest)
		wantOK bool
	}{
		{"Valid", func(r *SignupRequest) {}, true},
		{"MissingEmail", func(r *SignupRequest) { r.Email = "" }, false},
		{"BadEmail", func(r *SignupRequest) { r.Email = "not-an-email" }, false},
		{"MissingNickname", func(r *SignupRequest) { r.Nickname = "" }, false},
		{"PasswordTooShort", func(r *SignupRequest) { r.Password = "aa1"; r.ConfirmPassword = "aa1" }, false},
		{"PasswordNoDigit", func(r *SignupRequest) { r.Password = "passwords"; r.ConfirmPassword = "passwords" }, false},
		{"PasswordNoLetter", func(r *SignupRequest) { r.Password = "12345678"; r.ConfirmPassword = "12345678" }, false},
		{"ConfirmMismatch", func(r *SignupRequest) { r.ConfirmPassword = "pass12345" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfirmResetPasswordRequest_Validate(t *testing.T) {
	valid := ConfirmResetPasswordRequest{
		UID:             7,
		Token:           "tok",
		Password:        "newpass12",
		ConfirmPassword: "newpass12",
	}

	assert.NoError(t, valid.Validate())

	t.Run("MissingUID", func(t *testing.T) {
		req := valid
		req.UID = 0
		assert.Error(t, req.Validate())
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := valid
		req.Token = ""
		assert.Error(t, req.Validate())
	})

	t.Run("WeakPassword", func(t *testing.T) {
		req := valid
		req.Password = "short1"
		req.ConfirmPassword = "short1"
		assert.Error(t, req.Validate())
	})
}

func TestCreateStationRequest_Validate(t *testing.T) {
	valid := CreateStationRequest{
		Name: "Library",
		Lat:  25.017,
		Lng:  121.539,
	}

	assert.NoError(t, valid.Validate())

	t.Run("MissingName", func(t *testing.T) {
		req := valid
		req.Name = ""
		assert.Error(t, req.Validate())
	})

	t.Run("LatOutOfRange", func(t *testing.T) {
		req := valid
		req.Lat = 91
		assert.Error(t, req.Validate())
	})

	t.Run("LngOutOfRange", func(t *testing.T) {
		req := valid
		req.Lng = -181
		assert.Error(t, req.Validate())
	})

	t.Run("NegativeMainImageIndex", func(t *testing.T) {
		req := valid
		req.MainImageIndex = -1
		assert.Error(t, req.Validate())
	})
}

func TestSaveQuestionRequest_Validate(t *testing.T) {
	valid := SaveQuestionRequest{
		Content:     "Which building is the oldest?",
		Type:        2,
		Choices:     []string{"Main hall", "Library"},
		AnswerIndex: 1,
	}

	assert.NoError(t, valid.Validate())

	t.Run("UnknownType", func(t *testing.T) {
		req := valid
		req.Type = 3
		assert.Error(t, req.Validate())
	})

	t.Run("TooFewChoices", func(t *testing.T) {
		req := valid
		req.Choices = []string{"only one"}
		assert.Error(t, req.Validate())
	})

	t.Run("TooManyChoices", func(t *testing.T) {
		req := valid
		req.Choices = []string{"a", "b", "c", "d", "e", "f", "g"}
		assert.Error(t, req.Validate())
	})

	t.Run("NegativeAnswerIndex", func(t *testing.T) {
		req := valid
		req.AnswerIndex = -1
		assert.Error(t, req.Validate())
	})
}

func TestSaveTravelPlanRequest_Validate(t *testing.T) {
	valid := SaveTravelPlanRequest{
		Name:       "Historic loop",
		StationIDs: []uint{3, 1, 7},
	}

	assert.NoError(t, valid.Validate())

	t.Run("DuplicateStation", func(t *testing.T) {
		req := valid
		req.StationIDs = []uint{3, 1, 3}
		assert.Error(t, req.Validate())
	})

	t.Run("MissingName", func(t *testing.T) {
		req := valid
		req.Name = ""
		assert.Error(t, req.Validate())
	})

	t.Run("EmptyRouteAllowed", func(t *testing.T) {
		req := valid
		req.StationIDs = nil
		assert.NoError(t, req.Validate())
	})
}
