package request

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// SaveQuestionRequest covers both create and update. AnswerIndex is the
// 0-based position of the correct choice in Choices.
type SaveQuestionRequest struct {
	Content         string   `json:"content"`
	Type            int      `json:"type"`
	LinkedStationID *uint    `json:"linked_station_id"`
	Choices         []string `json:"choices"`
	AnswerIndex     int      `json:"answer_index"`
}

func (req *SaveQuestionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Type, validation.Required, validation.In(1, 2)),
		validation.Field(&req.Choices, validation.Required, validation.Length(2, 6)),
		validation.Field(&req.AnswerIndex, validation.Min(0)),
	)
}
