package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrRewardNotFound = dao.ErrRewardNotFound
)

type RewardDAO interface {
	Insert(ctx context.Context, reward dao.Reward) (dao.Reward, error)
	FindByID(ctx context.Context, id uint) (dao.Reward, error)
	FindAll(ctx context.Context) ([]dao.Reward, error)
	FindPage(ctx context.Context, offset, limit int) ([]dao.Reward, int64, error)
	Update(ctx context.Context, reward dao.Reward) (dao.Reward, error)
	Delete(ctx context.Context, id uint) error
	InsertGrant(ctx context.Context, grant dao.UserReward) (dao.UserReward, error)
	FindGrantsByUserID(ctx context.Context, userID uint) ([]dao.UserReward, error)
}

type RewardRepository struct {
	dao RewardDAO
}

func NewRewardRepository(dao RewardDAO) *RewardRepository {
	return &RewardRepository{
		dao: dao,
	}
}

func (r *RewardRepository) Create(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(reward))
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *RewardRepository) FindByID(ctx context.Context, id uint) (domain.Reward, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *RewardRepository) FindAll(ctx context.Context) ([]domain.Reward, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	rewards := make([]domain.Reward, len(found))
	for i, rw := range found {
		rewards[i] = r.daoToDomain(rw)
	}

	return rewards, nil
}

func (r *RewardRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.Reward, int64, error) {
	found, total, err := r.dao.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	rewards := make([]domain.Reward, len(found))
	for i, rw := range found {
		rewards[i] = r.daoToDomain(rw)
	}

	return rewards, total, nil
}

func (r *RewardRepository) Update(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	existing, err := r.dao.FindByID(ctx, reward.ID)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Name = reward.Name
	existing.ImagePath = reward.ImagePath
	existing.Description = reward.Description
	existing.RelatedStationID = reward.RelatedStationID
	existing.RelatedStation = nil

	updated, err := r.dao.Update(ctx, existing)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *RewardRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *RewardRepository) Grant(ctx context.Context, userID, rewardID uint) (domain.UserReward, error) {
	created, err := r.dao.InsertGrant(ctx, dao.UserReward{
		UserID:   userID,
		RewardID: rewardID,
	})
	if err != nil {
		return domain.UserReward{}, fmt.Errorf("r.dao.InsertGrant -> %w", err)
	}

	return grantDaoToDomain(created), nil
}

func (r *RewardRepository) FindGrantsByUserID(ctx context.Context, userID uint) ([]domain.UserReward, error) {
	found, err := r.dao.FindGrantsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindGrantsByUserID -> %w", err)
	}

	grants := make([]domain.UserReward, len(found))
	for i, g := range found {
		grants[i] = grantDaoToDomain(g)
	}

	return grants, nil
}

func (r *RewardRepository) domainToDao(rw domain.Reward) dao.Reward {
	return dao.Reward{
		ID:               rw.ID,
		Name:             rw.Name,
		ImagePath:        rw.ImagePath,
		Description:      rw.Description,
		RelatedStationID: rw.RelatedStationID,
	}
}

func (r *RewardRepository) daoToDomain(rw dao.Reward) domain.Reward {
	return domain.Reward{
		ID:               rw.ID,
		Name:             rw.Name,
		ImagePath:        rw.ImagePath,
		Description:      rw.Description,
		RelatedStationID: rw.RelatedStationID,
	}
}

func grantDaoToDomain(g dao.UserReward) domain.UserReward {
	return domain.UserReward{
		ID:        g.ID,
		UserID:    g.UserID,
		RewardID:  g.RewardID,
		Timestamp: g.Timestamp,
	}
}
