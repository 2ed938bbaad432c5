package service

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrBeaconExists   = repository.ErrBeaconExists
	ErrBeaconNotFound = repository.ErrBeaconNotFound
)

type BeaconRepository interface {
	Create(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error)
	FindByID(ctx context.Context, beaconID string) (domain.Beacon, error)
	FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]domain.Beacon, int64, error)
	Update(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error)
	Delete(ctx context.Context, beaconID string) error
}

type BeaconStationRepository interface {
	FindByBeaconID(ctx context.Context, beaconID string) ([]domain.Station, error)
}

type BeaconVisitRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	AddVisitedBeacon(ctx context.Context, userID uint, beaconID string) error
}

type BeaconService struct {
	repo        BeaconRepository
	stationRepo BeaconStationRepository
	userRepo    BeaconVisitRepository
}

func NewBeaconService(repo BeaconRepository, stationRepo BeaconStationRepository, userRepo BeaconVisitRepository) *BeaconService {
	return &BeaconService{
		repo:        repo,
		stationRepo: stationRepo,
		userRepo:    userRepo,
	}
}

// LinkedStations returns the stations a beacon advertises and records
// the lookup as a beacon visit for the user.
func (s *BeaconService) LinkedStations(ctx context.Context, beaconID, email string) ([]uint, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("s.userRepo.FindByEmail -> %w", err)
	}

	stations, err := s.stationRepo.FindByBeaconID(ctx, beaconID)
	if err != nil {
		return nil, fmt.Errorf("s.stationRepo.FindByBeaconID -> %w", err)
	}
	if len(stations) == 0 {
		return nil, ErrStationNotFound
	}

	if err := s.userRepo.AddVisitedBeacon(ctx, user.ID, beaconID); err != nil {
		return nil, fmt.Errorf("s.userRepo.AddVisitedBeacon -> %w", err)
	}

	ids := make([]uint, len(stations))
	for i, st := range stations {
		ids[i] = st.ID
	}

	return ids, nil
}

func (s *BeaconService) ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Beacon, int64, error) {
	if !actor.HasCapability(domain.CapabilityView) {
		return nil, 0, ErrForbidden
	}

	var groupID *uint
	if !actor.IsAdministrator() {
		if actor.Group == nil {
			return nil, 0, nil
		}
		groupID = &actor.Group.ID
	}

	beacons, total, err := s.repo.FindPage(ctx, groupID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindPage -> %w", err)
	}

	return beacons, total, nil
}

func (s *BeaconService) Get(ctx context.Context, actor domain.User, beaconID string) (domain.Beacon, error) {
	beacon, err := s.repo.FindByID(ctx, beaconID)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanView(beacon.OwnerGroupID) {
		return domain.Beacon{}, ErrForbidden
	}

	return beacon, nil
}

func (s *BeaconService) Create(ctx context.Context, actor domain.User, beacon domain.Beacon) (domain.Beacon, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Beacon{}, ErrForbidden
	}

	if !actor.IsAdministrator() || beacon.OwnerGroupID == nil {
		if actor.Group != nil {
			beacon.OwnerGroupID = &actor.Group.ID
		}
	}

	created, err := s.repo.Create(ctx, beacon)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *BeaconService) Update(ctx context.Context, actor domain.User, beacon domain.Beacon) (domain.Beacon, error) {
	existing, err := s.repo.FindByID(ctx, beacon.BeaconID)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(existing.OwnerGroupID) {
		return domain.Beacon{}, ErrForbidden
	}

	beacon.OwnerGroupID = existing.OwnerGroupID
	updated, err := s.repo.Update(ctx, beacon)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *BeaconService) Delete(ctx context.Context, actor domain.User, beaconID string) error {
	existing, err := s.repo.FindByID(ctx, beaconID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(existing.OwnerGroupID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, beaconID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
