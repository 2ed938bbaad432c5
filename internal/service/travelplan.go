package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrTravelPlanNotFound = repository.ErrTravelPlanNotFound
)

type TravelPlanRepository interface {
	Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error)
	FindByID(ctx context.Context, id uint) (domain.TravelPlan, error)
	FindAll(ctx context.Context) ([]domain.TravelPlan, error)
	FindPage(ctx context.Context, offset, limit int) ([]domain.TravelPlan, int64, error)
	Update(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error)
	Delete(ctx context.Context, id uint) error
}

type TravelPlanService struct {
	repo  TravelPlanRepository
	store ImageStore
}

func NewTravelPlanService(repo TravelPlanRepository, store ImageStore) *TravelPlanService {
	return &TravelPlanService{
		repo:  repo,
		store: store,
	}
}

func (s *TravelPlanService) ListAll(ctx context.Context) ([]domain.TravelPlan, error) {
	plans, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return plans, nil
}

func (s *TravelPlanService) ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.TravelPlan, int64, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return nil, 0, ErrForbidden
	}

	plans, total, err := s.repo.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindPage -> %w", err)
	}

	return plans, total, nil
}

func (s *TravelPlanService) Get(ctx context.Context, actor domain.User, id uint) (domain.TravelPlan, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return domain.TravelPlan{}, ErrForbidden
	}

	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return plan, nil
}

func (s *TravelPlanService) Create(ctx context.Context, actor domain.User, plan domain.TravelPlan, image *multipart.FileHeader) (domain.TravelPlan, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.TravelPlan{}, ErrForbidden
	}

	if image != nil {
		path, err := s.store.Save(image, "travel_plan")
		if err != nil {
			return domain.TravelPlan{}, fmt.Errorf("s.store.Save -> %w", err)
		}
		plan.ImagePath = path
	}

	created, err := s.repo.Create(ctx, plan)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Update rewrites the plan and reconciles its station sequence with the
// submitted ordered list; resubmitting the same list is a no-op.
func (s *TravelPlanService) Update(ctx context.Context, actor domain.User, plan domain.TravelPlan, image *multipart.FileHeader) (domain.TravelPlan, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.TravelPlan{}, ErrForbidden
	}

	existing, err := s.repo.FindByID(ctx, plan.ID)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	plan.ImagePath = existing.ImagePath
	if image != nil {
		path, err := s.store.Save(image, "travel_plan")
		if err != nil {
			return domain.TravelPlan{}, fmt.Errorf("s.store.Save -> %w", err)
		}
		plan.ImagePath = path
	}

	updated, err := s.repo.Update(ctx, plan)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *TravelPlanService) Delete(ctx context.Context, actor domain.User, id uint) error {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *TravelPlanService) ImageURL(path string) string {
	return s.store.URL(path)
}
