package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrQuestionNotFound = dao.ErrQuestionNotFound
)

type QuestionDAO interface {
	Insert(ctx context.Context, question dao.Question, choices []dao.Choice, answerIndex int) (dao.Question, error)
	FindByID(ctx context.Context, id uint) (dao.Question, error)
	FindByStationID(ctx context.Context, stationID uint) ([]dao.Question, error)
	FindPage(ctx context.Context, stationID *uint, offset, limit int) ([]dao.Question, int64, error)
	Update(ctx context.Context, question dao.Question, choices []dao.Choice, answerIndex int) (dao.Question, error)
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository struct {
	dao QuestionDAO
}

func NewQuestionRepository(dao QuestionDAO) *QuestionRepository {
	return &QuestionRepository{
		dao: dao,
	}
}

// Create persists the question with its choices; answerIndex is the
// 0-based position of the correct choice.
func (r *QuestionRepository) Create(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error) {
	choices := make([]dao.Choice, len(question.Choices))
	for i, c := range question.Choices {
		choices[i] = dao.Choice{Content: c.Content}
	}

	created, err := r.dao.Insert(ctx, r.domainToDao(question), choices, answerIndex)
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id uint) (domain.Question, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *QuestionRepository) FindByStationID(ctx context.Context, stationID uint) ([]domain.Question, error) {
	found, err := r.dao.FindByStationID(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStationID -> %w", err)
	}

	questions := make([]domain.Question, len(found))
	for i, q := range found {
		questions[i] = r.daoToDomain(q)
	}

	return questions, nil
}

func (r *QuestionRepository) FindPage(ctx context.Context, stationID *uint, offset, limit int) ([]domain.Question, int64, error) {
	found, total, err := r.dao.FindPage(ctx, stationID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	questions := make([]domain.Question, len(found))
	for i, q := range found {
		questions[i] = r.daoToDomain(q)
	}

	return questions, total, nil
}

func (r *QuestionRepository) Update(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error) {
	choices := make([]dao.Choice, len(question.Choices))
	for i, c := range question.Choices {
		choices[i] = dao.Choice{ID: c.ID, Content: c.Content}
	}

	updated, err := r.dao.Update(ctx, r.domainToDao(question), choices, answerIndex)
	if err != nil {
		return domain.Question{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *QuestionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *QuestionRepository) domainToDao(q domain.Question) dao.Question {
	return dao.Question{
		ID:              q.ID,
		Content:         q.Content,
		Type:            int(q.Type),
		LinkedStationID: q.LinkedStationID,
	}
}

func (r *QuestionRepository) daoToDomain(q dao.Question) domain.Question {
	question := domain.Question{
		ID:              q.ID,
		Content:         q.Content,
		Type:            domain.QuestionType(q.Type),
		LinkedStationID: q.LinkedStationID,
	}
	for _, link := range q.Choices {
		question.Choices = append(question.Choices, domain.Choice{
			ID:       link.ChoiceID,
			Content:  link.Choice.Content,
			IsAnswer: link.IsAnswer,
		})
	}

	return question
}
