package domain

type QuestionType int

const (
	QuestionTypeBinary         QuestionType = 1
	QuestionTypeMultipleChoice QuestionType = 2
)

type Question struct {
	ID              uint         `json:"id"`
	Content         string       `json:"content"`
	Type            QuestionType `json:"type"`
	LinkedStationID *uint        `json:"linked_station_id,omitempty"`
	Choices         []Choice     `json:"choices"`
}

// AnswerIndex returns the 1-based position of the choice flagged as the
// answer, or 0 if the question has none.
func (q Question) AnswerIndex() int {
	for i, c := range q.Choices {
		if c.IsAnswer {
			return i + 1
		}
	}

	return 0
}

type Choice struct {
	ID       uint   `json:"id"`
	Content  string `json:"content"`
	IsAnswer bool   `json:"is_answer"`
}
