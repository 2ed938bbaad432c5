package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrTravelPlanNotFound = dao.ErrTravelPlanNotFound
)

type TravelPlanDAO interface {
	Insert(ctx context.Context, plan dao.TravelPlan) (dao.TravelPlan, error)
	FindByID(ctx context.Context, id uint) (dao.TravelPlan, error)
	FindAll(ctx context.Context) ([]dao.TravelPlan, error)
	FindPage(ctx context.Context, offset, limit int) ([]dao.TravelPlan, int64, error)
	Update(ctx context.Context, plan dao.TravelPlan) (dao.TravelPlan, error)
	ReconcileStations(ctx context.Context, planID uint, stationIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type TravelPlanRepository struct {
	dao TravelPlanDAO
}

func NewTravelPlanRepository(dao TravelPlanDAO) *TravelPlanRepository {
	return &TravelPlanRepository{
		dao: dao,
	}
}

func (r *TravelPlanRepository) Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	created, err := r.dao.Insert(ctx, dao.TravelPlan{
		Name:        plan.Name,
		Description: plan.Description,
		ImagePath:   plan.ImagePath,
	})
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	if len(plan.StationIDs) > 0 {
		if err := r.dao.ReconcileStations(ctx, created.ID, plan.StationIDs); err != nil {
			return domain.TravelPlan{}, fmt.Errorf("r.dao.ReconcileStations -> %w", err)
		}
	}

	return r.FindByID(ctx, created.ID)
}

func (r *TravelPlanRepository) FindByID(ctx context.Context, id uint) (domain.TravelPlan, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TravelPlanRepository) FindAll(ctx context.Context) ([]domain.TravelPlan, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	plans := make([]domain.TravelPlan, len(found))
	for i, p := range found {
		plans[i] = r.daoToDomain(p)
	}

	return plans, nil
}

func (r *TravelPlanRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.TravelPlan, int64, error) {
	found, total, err := r.dao.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	plans := make([]domain.TravelPlan, len(found))
	for i, p := range found {
		plans[i] = r.daoToDomain(p)
	}

	return plans, total, nil
}

// Update rewrites the plan's own fields and reconciles its station
// sequence with the submitted ordered list.
func (r *TravelPlanRepository) Update(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	existing, err := r.dao.FindByID(ctx, plan.ID)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Name = plan.Name
	existing.Description = plan.Description
	existing.ImagePath = plan.ImagePath
	existing.Stations = nil

	if _, err := r.dao.Update(ctx, existing); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	if err := r.dao.ReconcileStations(ctx, plan.ID, plan.StationIDs); err != nil {
		return domain.TravelPlan{}, fmt.Errorf("r.dao.ReconcileStations -> %w", err)
	}

	return r.FindByID(ctx, plan.ID)
}

func (r *TravelPlanRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TravelPlanRepository) daoToDomain(p dao.TravelPlan) domain.TravelPlan {
	plan := domain.TravelPlan{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImagePath:   p.ImagePath,
	}
	for _, row := range p.Stations {
		plan.StationIDs = append(plan.StationIDs, row.StationID)
	}

	return plan
}
