package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrBeaconExists   = dao.ErrBeaconExists
	ErrBeaconNotFound = dao.ErrBeaconNotFound
)

type BeaconDAO interface {
	Insert(ctx context.Context, beacon dao.Beacon) (dao.Beacon, error)
	FindByID(ctx context.Context, beaconID string) (dao.Beacon, error)
	FindByName(ctx context.Context, name string) (dao.Beacon, error)
	FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]dao.Beacon, int64, error)
	Update(ctx context.Context, beacon dao.Beacon) (dao.Beacon, error)
	ReplaceStations(ctx context.Context, beacon dao.Beacon, stations []dao.Station) error
	Delete(ctx context.Context, beaconID string) error
}

type BeaconRepository struct {
	dao BeaconDAO
}

func NewBeaconRepository(dao BeaconDAO) *BeaconRepository {
	return &BeaconRepository{
		dao: dao,
	}
}

func (r *BeaconRepository) Create(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(beacon))
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	if len(beacon.StationIDs) > 0 {
		err = r.dao.ReplaceStations(ctx, dao.Beacon{BeaconID: created.BeaconID}, stationRefs(beacon.StationIDs))
		if err != nil {
			return domain.Beacon{}, fmt.Errorf("r.dao.ReplaceStations -> %w", err)
		}
	}

	return r.FindByID(ctx, created.BeaconID)
}

func (r *BeaconRepository) FindByID(ctx context.Context, beaconID string) (domain.Beacon, error) {
	found, err := r.dao.FindByID(ctx, beaconID)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BeaconRepository) FindByName(ctx context.Context, name string) (domain.Beacon, error) {
	found, err := r.dao.FindByName(ctx, name)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.FindByName -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *BeaconRepository) FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]domain.Beacon, int64, error) {
	found, total, err := r.dao.FindPage(ctx, groupID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	beacons := make([]domain.Beacon, len(found))
	for i, b := range found {
		beacons[i] = r.daoToDomain(b)
	}

	return beacons, total, nil
}

func (r *BeaconRepository) Update(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error) {
	existing, err := r.dao.FindByID(ctx, beacon.BeaconID)
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Name = beacon.Name
	existing.Description = beacon.Description
	existing.Lat = beacon.Lat
	existing.Lng = beacon.Lng
	existing.OwnerGroupID = beacon.OwnerGroupID
	// Station links are replaced as an association below, not via Save.
	existing.Stations = nil

	if _, err := r.dao.Update(ctx, existing); err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	err = r.dao.ReplaceStations(ctx, dao.Beacon{BeaconID: beacon.BeaconID}, stationRefs(beacon.StationIDs))
	if err != nil {
		return domain.Beacon{}, fmt.Errorf("r.dao.ReplaceStations -> %w", err)
	}

	return r.FindByID(ctx, beacon.BeaconID)
}

func stationRefs(ids []uint) []dao.Station {
	stations := make([]dao.Station, len(ids))
	for i, id := range ids {
		stations[i] = dao.Station{ID: id}
	}

	return stations
}

func (r *BeaconRepository) Delete(ctx context.Context, beaconID string) error {
	if err := r.dao.Delete(ctx, beaconID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *BeaconRepository) domainToDao(b domain.Beacon) dao.Beacon {
	return dao.Beacon{
		BeaconID:     b.BeaconID,
		Name:         b.Name,
		Description:  b.Description,
		Lat:          b.Lat,
		Lng:          b.Lng,
		OwnerGroupID: b.OwnerGroupID,
	}
}

func (r *BeaconRepository) daoToDomain(b dao.Beacon) domain.Beacon {
	beacon := domain.Beacon{
		BeaconID:     b.BeaconID,
		Name:         b.Name,
		Description:  b.Description,
		Lat:          b.Lat,
		Lng:          b.Lng,
		OwnerGroupID: b.OwnerGroupID,
	}
	for _, s := range b.Stations {
		beacon.StationIDs = append(beacon.StationIDs, s.ID)
	}

	return beacon
}
