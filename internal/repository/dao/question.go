package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
)

type Question struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"not null"`
	Type    int    `gorm:"not null;default:2"`

	LinkedStationID *uint
	LinkedStation   *Station `gorm:"foreignKey:LinkedStationID"`

	Choices []QuestionChoice `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

type Choice struct {
	ID      uint   `gorm:"primaryKey"`
	Content string `gorm:"not null"`
}

// QuestionChoice links a question to one of its choices. Exactly one row
// per question carries IsAnswer = true; Insert and Update maintain that.
type QuestionChoice struct {
	ID         uint `gorm:"primaryKey"`
	QuestionID uint `gorm:"not null;index"`
	ChoiceID   uint `gorm:"not null"`
	Choice     Choice
	IsAnswer   bool `gorm:"not null;default:false"`
}

type QuestionDAO struct {
	db *gorm.DB
}

func NewQuestionDAO(db *gorm.DB) *QuestionDAO {
	return &QuestionDAO{
		db: db,
	}
}

// Insert creates the question with its choices in one transaction,
// flagging the choice at answerIndex (0-based) as the answer.
func (d *QuestionDAO) Insert(ctx context.Context, question Question, choices []Choice, answerIndex int) (Question, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		for i := range choices {
			if err := tx.Create(&choices[i]).Error; err != nil {
				return err
			}

			link := QuestionChoice{
				QuestionID: question.ID,
				ChoiceID:   choices[i].ID,
				IsAnswer:   i == answerIndex,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Question{}, err
	}

	return d.FindByID(ctx, question.ID)
}

func (d *QuestionDAO) FindByID(ctx context.Context, id uint) (Question, error) {
	var question Question

	result := d.db.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("question_choices.id") }).
		Preload("Choices.Choice").
		First(&question, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Question{}, ErrQuestionNotFound
		}

		return Question{}, result.Error
	}

	return question, nil
}

func (d *QuestionDAO) FindByStationID(ctx context.Context, stationID uint) ([]Question, error) {
	var questions []Question

	result := d.db.WithContext(ctx).
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("question_choices.id") }).
		Preload("Choices.Choice").
		Where("linked_station_id = ?", stationID).
		Order("id").
		Find(&questions)
	if result.Error != nil {
		return nil, result.Error
	}

	return questions, nil
}

func (d *QuestionDAO) FindPage(ctx context.Context, stationID *uint, offset, limit int) ([]Question, int64, error) {
	query := d.db.WithContext(ctx).Model(&Question{})
	if stationID != nil {
		query = query.Where("linked_station_id = ?", *stationID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []Question
	result := query.
		Preload("Choices", func(db *gorm.DB) *gorm.DB { return db.Order("question_choices.id") }).
		Preload("Choices.Choice").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&questions)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return questions, total, nil
}

// Update rewrites the question row and replaces its choices, flagging
// the choice at answerIndex (0-based) as the answer. The clear-then-set
// runs inside the same transaction as the rewrite, and choice rows no
// link refers to anymore are removed with it.
func (d *QuestionDAO) Update(ctx context.Context, question Question, choices []Choice, answerIndex int) (Question, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		var oldChoiceIDs []uint
		err := tx.Model(&QuestionChoice{}).
			Where("question_id = ?", question.ID).
			Pluck("choice_id", &oldChoiceIDs).Error
		if err != nil {
			return err
		}

		err = tx.Where("question_id = ?", question.ID).Delete(&QuestionChoice{}).Error
		if err != nil {
			return err
		}

		kept := make(map[uint]bool, len(choices))
		for i := range choices {
			if choices[i].ID == 0 {
				if err := tx.Create(&choices[i]).Error; err != nil {
					return err
				}
			} else if err := tx.Save(&choices[i]).Error; err != nil {
				return err
			}
			kept[choices[i].ID] = true

			link := QuestionChoice{
				QuestionID: question.ID,
				ChoiceID:   choices[i].ID,
				IsAnswer:   i == answerIndex,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}

		var orphaned []uint
		for _, id := range oldChoiceIDs {
			if !kept[id] {
				orphaned = append(orphaned, id)
			}
		}
		if len(orphaned) > 0 {
			if err := tx.Delete(&Choice{}, orphaned).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Question{}, err
	}

	return d.FindByID(ctx, question.ID)
}

// Delete removes the question, its link rows, and the choice rows the
// links pointed at.
func (d *QuestionDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var choiceIDs []uint
		err := tx.Model(&QuestionChoice{}).
			Where("question_id = ?", id).
			Pluck("choice_id", &choiceIDs).Error
		if err != nil {
			return err
		}

		result := tx.Select("Choices").Delete(&Question{ID: id})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrQuestionNotFound
		}

		if len(choiceIDs) > 0 {
			if err := tx.Delete(&Choice{}, choiceIDs).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
