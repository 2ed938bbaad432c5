package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrRewardNotFound = errors.New("reward not found")
)

type Reward struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	ImagePath   string
	Description string

	RelatedStationID *uint
	RelatedStation   *Station `gorm:"foreignKey:RelatedStationID"`
}

// UserReward is the redemption ledger: append-only, one row per grant.
type UserReward struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	RewardID  uint      `gorm:"not null"`
	Timestamp time.Time `gorm:"not null;autoCreateTime"`
}

type RewardDAO struct {
	db *gorm.DB
}

func NewRewardDAO(db *gorm.DB) *RewardDAO {
	return &RewardDAO{
		db: db,
	}
}

func (d *RewardDAO) Insert(ctx context.Context, reward Reward) (Reward, error) {
	result := d.db.WithContext(ctx).Create(&reward)
	if result.Error != nil {
		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) FindByID(ctx context.Context, id uint) (Reward, error) {
	var reward Reward

	result := d.db.WithContext(ctx).First(&reward, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Reward{}, ErrRewardNotFound
		}

		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) FindAll(ctx context.Context) ([]Reward, error) {
	var rewards []Reward
	result := d.db.WithContext(ctx).Order("id").Find(&rewards)
	if result.Error != nil {
		return nil, result.Error
	}

	return rewards, nil
}

func (d *RewardDAO) FindPage(ctx context.Context, offset, limit int) ([]Reward, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&Reward{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rewards []Reward
	result := d.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&rewards)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return rewards, total, nil
}

func (d *RewardDAO) Update(ctx context.Context, reward Reward) (Reward, error) {
	result := d.db.WithContext(ctx).Save(&reward)
	if result.Error != nil {
		return Reward{}, result.Error
	}

	return reward, nil
}

func (d *RewardDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Reward{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}

	return nil
}

// InsertGrant appends a ledger row. Repeat grants of the same reward to
// the same user are allowed.
func (d *RewardDAO) InsertGrant(ctx context.Context, grant UserReward) (UserReward, error) {
	result := d.db.WithContext(ctx).Create(&grant)
	if result.Error != nil {
		return UserReward{}, result.Error
	}

	return grant, nil
}

func (d *RewardDAO) FindGrantsByUserID(ctx context.Context, userID uint) ([]UserReward, error) {
	var grants []UserReward
	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp").
		Find(&grants)
	if result.Error != nil {
		return nil, result.Error
	}

	return grants, nil
}
