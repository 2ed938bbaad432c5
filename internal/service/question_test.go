package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

func (r *fakeUserRepo) AddAnsweredQuestion(ctx context.Context, userID, questionID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.answered[userID] {
		if id == questionID {
			return nil
		}
	}
	r.answered[userID] = append(r.answered[userID], questionID)

	return nil
}

func (r *fakeUserRepo) FindAnsweredQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]uint(nil), r.answered[userID]...), nil
}

type fakeQuestionRepo struct {
	nextID    uint
	questions map[uint]domain.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{
		nextID:    1,
		questions: make(map[uint]domain.Question),
	}
}

func (r *fakeQuestionRepo) applyAnswer(question domain.Question, answerIndex int) domain.Question {
	choices := make([]domain.Choice, len(question.Choices))
	for i, c := range question.Choices {
		c.IsAnswer = i == answerIndex
		choices[i] = c
	}
	question.Choices = choices

	return question
}

func (r *fakeQuestionRepo) Create(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error) {
	question.ID = r.nextID
	r.nextID++
	question = r.applyAnswer(question, answerIndex)
	r.questions[question.ID] = question

	return question, nil
}

func (r *fakeQuestionRepo) FindByID(ctx context.Context, id uint) (domain.Question, error) {
	question, ok := r.questions[id]
	if !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}

	return question, nil
}

func (r *fakeQuestionRepo) FindByStationID(ctx context.Context, stationID uint) ([]domain.Question, error) {
	var linked []domain.Question
	for id := uint(1); id < r.nextID; id++ {
		q, ok := r.questions[id]
		if ok && q.LinkedStationID != nil && *q.LinkedStationID == stationID {
			linked = append(linked, q)
		}
	}

	return linked, nil
}

func (r *fakeQuestionRepo) FindPage(ctx context.Context, stationID *uint, offset, limit int) ([]domain.Question, int64, error) {
	var all []domain.Question
	for id := uint(1); id < r.nextID; id++ {
		q, ok := r.questions[id]
		if !ok {
			continue
		}
		if stationID != nil && (q.LinkedStationID == nil || *q.LinkedStationID != *stationID) {
			continue
		}
		all = append(all, q)
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}

func (r *fakeQuestionRepo) Update(ctx context.Context, question domain.Question, answerIndex int) (domain.Question, error) {
	if _, ok := r.questions[question.ID]; !ok {
		return domain.Question{}, repository.ErrQuestionNotFound
	}
	question = r.applyAnswer(question, answerIndex)
	r.questions[question.ID] = question

	return question, nil
}

func (r *fakeQuestionRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.questions[id]; !ok {
		return repository.ErrQuestionNotFound
	}
	delete(r.questions, id)

	return nil
}

func seedQuestion(t *testing.T, repo *fakeQuestionRepo, stationID uint, content string, answerIndex int) domain.Question {
	t.Helper()

	created, err := repo.Create(context.Background(), domain.Question{
		Content:         content,
		Type:            domain.QuestionTypeMultipleChoice,
		LinkedStationID: &stationID,
		Choices: []domain.Choice{
			{Content: "a"},
			{Content: "b"},
			{Content: "c"},
		},
	}, answerIndex)
	require.NoError(t, err)

	return created
}

func TestQuestionService_PickUnanswered(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, userRepo)
	svc.intn = func(n int) int { return 0 }

	user := seedUser(t, userRepo, "visitor@campus.test")

	first := seedQuestion(t, repo, 3, "first", 1)
	second := seedQuestion(t, repo, 3, "second", 0)
	seedQuestion(t, repo, 9, "other station", 0)

	t.Run("PicksFromLinkedPool", func(t *testing.T) {
		quiz, err := svc.PickUnanswered(ctx, 3, user.Email)
		require.NoError(t, err)
		assert.Equal(t, first.ID, quiz.QuestionID)
		assert.Equal(t, "first", quiz.Content)
		assert.Equal(t, []string{"a", "b", "c"}, quiz.Choices)
		assert.Equal(t, 2, quiz.Answer)
	})

	t.Run("SkipsAnswered", func(t *testing.T) {
		require.NoError(t, svc.RecordAnswer(ctx, user.Email, first.ID))

		quiz, err := svc.PickUnanswered(ctx, 3, user.Email)
		require.NoError(t, err)
		assert.Equal(t, second.ID, quiz.QuestionID)
	})

	t.Run("PoolExhausted", func(t *testing.T) {
		require.NoError(t, svc.RecordAnswer(ctx, user.Email, second.ID))

		_, err := svc.PickUnanswered(ctx, 3, user.Email)
		assert.ErrorIs(t, err, ErrNoQuestionLeft)
	})

	t.Run("StationWithoutQuestions", func(t *testing.T) {
		_, err := svc.PickUnanswered(ctx, 42, user.Email)
		assert.ErrorIs(t, err, ErrNoQuestionLeft)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.PickUnanswered(ctx, 3, "ghost@campus.test")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestQuestionService_RecordAnswer(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, userRepo)

	user := seedUser(t, userRepo, "visitor@campus.test")
	question := seedQuestion(t, repo, 3, "q", 0)

	t.Run("UnknownQuestion", func(t *testing.T) {
		err := svc.RecordAnswer(ctx, user.Email, 99)
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})

	t.Run("RecordsOnce", func(t *testing.T) {
		require.NoError(t, svc.RecordAnswer(ctx, user.Email, question.ID))

		ids, err := userRepo.FindAnsweredQuestionIDs(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{question.ID}, ids)
	})

	t.Run("RepeatIsIdempotent", func(t *testing.T) {
		require.NoError(t, svc.RecordAnswer(ctx, user.Email, question.ID))

		ids, err := userRepo.FindAnsweredQuestionIDs(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint{question.ID}, ids)
	})
}

func TestQuestionService_AdminCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newFakeQuestionRepo()
	svc := NewQuestionService(repo, newFakeUserRepo())

	admin := adminActor()
	viewer := viewerActor(nil)

	draft := domain.Question{
		Content: "Which building is the oldest?",
		Type:    domain.QuestionTypeMultipleChoice,
		Choices: []domain.Choice{
			{Content: "Main hall"},
			{Content: "Library"},
		},
	}

	t.Run("ViewerCannotCreate", func(t *testing.T) {
		_, err := svc.Create(ctx, viewer, draft, 0)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("AnswerIndexOutOfRange", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, draft, 2)
		assert.ErrorIs(t, err, ErrAnswerOutOfRange)

		_, err = svc.Create(ctx, admin, draft, -1)
		assert.ErrorIs(t, err, ErrAnswerOutOfRange)
	})

	t.Run("CreateMarksAnswer", func(t *testing.T) {
		created, err := svc.Create(ctx, admin, draft, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, created.AnswerIndex())
	})

	t.Run("UpdateMovesAnswer", func(t *testing.T) {
		created, err := svc.Create(ctx, admin, draft, 1)
		require.NoError(t, err)

		created.Content = "updated"
		updated, err := svc.Update(ctx, admin, created, 0)
		require.NoError(t, err)
		assert.Equal(t, "updated", updated.Content)
		assert.Equal(t, 1, updated.AnswerIndex())
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		err := svc.Delete(ctx, admin, 99)
		assert.ErrorIs(t, err, ErrQuestionNotFound)
	})
}
