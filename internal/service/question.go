package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrQuestionNotFound = repository.ErrQuestionNotFound
	ErrNoQuestionLeft   = errors.New("no question available")
	ErrAnswerOutOfRange = errors.New("answer index out of range")
)

type QuestionRepository interface {
	Create(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error)
	FindByID(ctx context.Context, id uint) (domain.Question, error)
	FindByStationID(ctx context.Context, stationID uint) ([]domain.Question, error)
	FindPage(ctx context.Context, stationID *uint, offset, limit int) ([]domain.Question, int64, error)
	Update(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error)
	Delete(ctx context.Context, id uint) error
}

type QuizUserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	AddAnsweredQuestion(ctx context.Context, userID, questionID uint) error
	FindAnsweredQuestionIDs(ctx context.Context, userID uint) ([]uint, error)
}

// Quiz is a question dressed for the app: choice texts in stored order
// and the answer's 1-based position. The question is not marked answered
// here; the client reports back through RecordAnswer.
type Quiz struct {
	QuestionID uint     `json:"question_id"`
	Content    string   `json:"content"`
	Type       int      `json:"type"`
	Choices    []string `json:"choices"`
	Answer     int      `json:"answer"`
}

type QuestionService struct {
	repo     QuestionRepository
	userRepo QuizUserRepository
	// intn is swapped out in tests for deterministic selection.
	intn func(n int) int
}

func NewQuestionService(repo QuestionRepository, userRepo QuizUserRepository) *QuestionService {
	return &QuestionService{
		repo:     repo,
		userRepo: userRepo,
		intn:     rand.Intn,
	}
}

// PickUnanswered computes the questions linked to the station minus the
// ones the user already answered, materializes the remainder, and picks
// one uniformly at random. ErrNoQuestionLeft when the pool is empty.
func (s *QuestionService) PickUnanswered(ctx context.Context, stationID uint, email string) (Quiz, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return Quiz{}, fmt.Errorf("s.userRepo.FindByEmail -> %w", err)
	}

	questions, err := s.repo.FindByStationID(ctx, stationID)
	if err != nil {
		return Quiz{}, fmt.Errorf("s.repo.FindByStationID -> %w", err)
	}

	answeredIDs, err := s.userRepo.FindAnsweredQuestionIDs(ctx, user.ID)
	if err != nil {
		return Quiz{}, fmt.Errorf("s.userRepo.FindAnsweredQuestionIDs -> %w", err)
	}

	answered := make(map[uint]bool, len(answeredIDs))
	for _, id := range answeredIDs {
		answered[id] = true
	}

	var remaining []domain.Question
	for _, q := range questions {
		if !answered[q.ID] {
			remaining = append(remaining, q)
		}
	}

	if len(remaining) == 0 {
		return Quiz{}, ErrNoQuestionLeft
	}

	question := remaining[s.intn(len(remaining))]

	choices := make([]string, len(question.Choices))
	for i, c := range question.Choices {
		choices[i] = c.Content
	}

	return Quiz{
		QuestionID: question.ID,
		Content:    question.Content,
		Type:       int(question.Type),
		Choices:    choices,
		Answer:     question.AnswerIndex(),
	}, nil
}

// RecordAnswer marks the question answered for the user. Recording the
// same question twice is harmless.
func (s *QuestionService) RecordAnswer(ctx context.Context, email string, questionID uint) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("s.userRepo.FindByEmail -> %w", err)
	}

	if _, err := s.repo.FindByID(ctx, questionID); err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err := s.userRepo.AddAnsweredQuestion(ctx, user.ID, questionID); err != nil {
		return fmt.Errorf("s.userRepo.AddAnsweredQuestion -> %w", err)
	}

	return nil
}

func (s *QuestionService) ListPage(ctx context.Context, actor domain.User, stationID *uint, offset, limit int) ([]domain.Question, int64, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return nil, 0, ErrForbidden
	}

	questions, total, err := s.repo.FindPage(ctx, stationID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindPage -> %w", err)
	}

	return questions, total, nil
}

func (s *QuestionService) Get(ctx context.Context, actor domain.User, id uint) (domain.Question, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return domain.Question{}, ErrForbidden
	}

	question, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return question, nil
}

// Create stores the question with its choices; answerIndex is 0-based
// into the submitted choice list.
func (s *QuestionService) Create(ctx context.Context, actor domain.User, question domain.Question, answerIndex int) (domain.Question, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Question{}, ErrForbidden
	}
	if answerIndex < 0 || answerIndex >= len(question.Choices) {
		return domain.Question{}, ErrAnswerOutOfRange
	}

	created, err := s.repo.Create(ctx, question, answerIndex)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *QuestionService) Update(ctx context.Context, actor domain.User, question domain.Question, answerIndex int) (domain.Question, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Question{}, ErrForbidden
	}
	if answerIndex < 0 || answerIndex >= len(question.Choices) {
		return domain.Question{}, ErrAnswerOutOfRange
	}

	if _, err := s.repo.FindByID(ctx, question.ID); err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	updated, err := s.repo.Update(ctx, question, answerIndex)
	if err != nil {
		return domain.Question{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *QuestionService) Delete(ctx context.Context, actor domain.User, id uint) error {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
