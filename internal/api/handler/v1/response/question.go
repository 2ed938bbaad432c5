package response

import (
	"github.com/rapirent/smart-campus/internal/domain"
)

// AdminQuestion includes the answer index, which the app-facing quiz
// payload never exposes directly.
type AdminQuestion struct {
	ID              uint     `json:"id"`
	Content         string   `json:"content"`
	Type            int      `json:"type"`
	LinkedStationID *uint    `json:"linked_station_id,omitempty"`
	Choices         []string `json:"choices"`
	AnswerIndex     int      `json:"answer_index"`
}

func BuildAdminQuestion(q domain.Question) AdminQuestion {
	choices := make([]string, len(q.Choices))
	for i, c := range q.Choices {
		choices[i] = c.Content
	}

	return AdminQuestion{
		ID:              q.ID,
		Content:         q.Content,
		Type:            int(q.Type),
		LinkedStationID: q.LinkedStationID,
		Choices:         choices,
		AnswerIndex:     q.AnswerIndex(),
	}
}

func BuildAdminQuestions(questions []domain.Question) []AdminQuestion {
	out := make([]AdminQuestion, len(questions))
	for i, q := range questions {
		out[i] = BuildAdminQuestion(q)
	}

	return out
}
