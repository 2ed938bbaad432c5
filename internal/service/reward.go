package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rapirent/smart-campus/internal/domain"
)

type RewardRepository interface {
	Create(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	FindByID(ctx context.Context, id uint) (domain.Reward, error)
	FindAll(ctx context.Context) ([]domain.Reward, error)
	FindPage(ctx context.Context, offset, limit int) ([]domain.Reward, int64, error)
	Update(ctx context.Context, reward domain.Reward) (domain.Reward, error)
	Delete(ctx context.Context, id uint) error
}

type RewardService struct {
	repo  RewardRepository
	store ImageStore
}

func NewRewardService(repo RewardRepository, store ImageStore) *RewardService {
	return &RewardService{
		repo:  repo,
		store: store,
	}
}

func (s *RewardService) ListAll(ctx context.Context) ([]domain.Reward, error) {
	rewards, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return rewards, nil
}

func (s *RewardService) ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Reward, int64, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return nil, 0, ErrForbidden
	}

	rewards, total, err := s.repo.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindPage -> %w", err)
	}

	return rewards, total, nil
}

func (s *RewardService) Get(ctx context.Context, actor domain.User, id uint) (domain.Reward, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return domain.Reward{}, ErrForbidden
	}

	reward, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return reward, nil
}

func (s *RewardService) Create(ctx context.Context, actor domain.User, reward domain.Reward, image *multipart.FileHeader) (domain.Reward, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Reward{}, ErrForbidden
	}

	if image != nil {
		path, err := s.store.Save(image, "reward")
		if err != nil {
			return domain.Reward{}, fmt.Errorf("s.store.Save -> %w", err)
		}
		reward.ImagePath = path
	}

	created, err := s.repo.Create(ctx, reward)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *RewardService) Update(ctx context.Context, actor domain.User, reward domain.Reward, image *multipart.FileHeader) (domain.Reward, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Reward{}, ErrForbidden
	}

	existing, err := s.repo.FindByID(ctx, reward.ID)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	reward.ImagePath = existing.ImagePath
	if image != nil {
		path, err := s.store.Save(image, "reward")
		if err != nil {
			return domain.Reward{}, fmt.Errorf("s.store.Save -> %w", err)
		}
		reward.ImagePath = path
	}

	updated, err := s.repo.Update(ctx, reward)
	if err != nil {
		return domain.Reward{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *RewardService) Delete(ctx context.Context, actor domain.User, id uint) error {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *RewardService) ImageURL(path string) string {
	return s.store.URL(path)
}
