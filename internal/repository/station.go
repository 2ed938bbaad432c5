package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrStationNameExists  = dao.ErrStationNameExists
	ErrStationNotFound    = dao.ErrStationNotFound
	ErrImageNotFound      = dao.ErrImageNotFound
	ErrImageIsPrimary     = dao.ErrImageIsPrimary
	ErrCategoryNameExists = dao.ErrCategoryNameExists
	ErrCategoryNotFound   = dao.ErrCategoryNotFound
)

type StationDAO interface {
	Insert(ctx context.Context, station dao.Station) (dao.Station, error)
	FindByID(ctx context.Context, id uint) (dao.Station, error)
	FindAll(ctx context.Context) ([]dao.Station, error)
	FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]dao.Station, int64, error)
	FindByBeaconID(ctx context.Context, beaconID string) ([]dao.Station, error)
	Update(ctx context.Context, station dao.Station) (dao.Station, error)
	ReplaceBeacons(ctx context.Context, station dao.Station, beacons []dao.Beacon) error
	Delete(ctx context.Context, id uint) error
	InsertImage(ctx context.Context, image dao.StationImage) (dao.StationImage, error)
	FindImageByID(ctx context.Context, id uint) (dao.StationImage, error)
	SetPrimaryImage(ctx context.Context, imageID uint) error
	DeleteImage(ctx context.Context, imageID uint) (string, error)
}

type CategoryDAO interface {
	Insert(ctx context.Context, category dao.StationCategory) (dao.StationCategory, error)
	FindByID(ctx context.Context, id uint) (dao.StationCategory, error)
	FindAll(ctx context.Context) ([]dao.StationCategory, error)
}

type StationRepository struct {
	dao         StationDAO
	categoryDAO CategoryDAO
}

func NewStationRepository(dao StationDAO, categoryDAO CategoryDAO) *StationRepository {
	return &StationRepository{
		dao:         dao,
		categoryDAO: categoryDAO,
	}
}

func (r *StationRepository) Create(ctx context.Context, station domain.Station) (domain.Station, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(station))
	if err != nil {
		return domain.Station{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StationRepository) FindByID(ctx context.Context, id uint) (domain.Station, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StationRepository) FindAll(ctx context.Context) ([]domain.Station, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *StationRepository) FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]domain.Station, int64, error) {
	found, total, err := r.dao.FindPage(ctx, groupID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindPage -> %w", err)
	}

	return r.daosToDomain(found), total, nil
}

func (r *StationRepository) FindByBeaconID(ctx context.Context, beaconID string) ([]domain.Station, error) {
	found, err := r.dao.FindByBeaconID(ctx, beaconID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByBeaconID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *StationRepository) Update(ctx context.Context, station domain.Station) (domain.Station, error) {
	existing, err := r.dao.FindByID(ctx, station.ID)
	if err != nil {
		return domain.Station{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Name = station.Name
	existing.Content = station.Content
	existing.Lat = station.Lat
	existing.Lng = station.Lng
	existing.Category = nil
	if station.Category != nil {
		existing.CategoryID = &station.Category.ID
	} else {
		existing.CategoryID = nil
	}
	existing.OwnerGroupID = station.OwnerGroupID
	existing.Images = nil
	existing.Beacons = nil

	updated, err := r.dao.Update(ctx, existing)
	if err != nil {
		return domain.Station{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *StationRepository) ReplaceBeacons(ctx context.Context, stationID uint, beaconIDs []string) error {
	beacons := make([]dao.Beacon, len(beaconIDs))
	for i, id := range beaconIDs {
		beacons[i] = dao.Beacon{BeaconID: id}
	}

	err := r.dao.ReplaceBeacons(ctx, dao.Station{ID: stationID}, beacons)
	if err != nil {
		return fmt.Errorf("r.dao.ReplaceBeacons -> %w", err)
	}

	return nil
}

func (r *StationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StationRepository) AddImage(ctx context.Context, image domain.StationImage) (domain.StationImage, error) {
	created, err := r.dao.InsertImage(ctx, dao.StationImage{
		StationID: image.StationID,
		Path:      image.Path,
		IsPrimary: image.IsPrimary,
	})
	if err != nil {
		return domain.StationImage{}, fmt.Errorf("r.dao.InsertImage -> %w", err)
	}

	return imageDaoToDomain(created), nil
}

func (r *StationRepository) FindImageByID(ctx context.Context, id uint) (domain.StationImage, error) {
	found, err := r.dao.FindImageByID(ctx, id)
	if err != nil {
		return domain.StationImage{}, fmt.Errorf("r.dao.FindImageByID -> %w", err)
	}

	return imageDaoToDomain(found), nil
}

func (r *StationRepository) SetPrimaryImage(ctx context.Context, imageID uint) error {
	if err := r.dao.SetPrimaryImage(ctx, imageID); err != nil {
		return fmt.Errorf("r.dao.SetPrimaryImage -> %w", err)
	}

	return nil
}

func (r *StationRepository) DeleteImage(ctx context.Context, imageID uint) (string, error) {
	path, err := r.dao.DeleteImage(ctx, imageID)
	if err != nil {
		return "", fmt.Errorf("r.dao.DeleteImage -> %w", err)
	}

	return path, nil
}

func (r *StationRepository) CreateCategory(ctx context.Context, category domain.StationCategory) (domain.StationCategory, error) {
	created, err := r.categoryDAO.Insert(ctx, dao.StationCategory{
		Name:        category.Name,
		Description: category.Description,
	})
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("r.categoryDAO.Insert -> %w", err)
	}

	return categoryDaoToDomain(created), nil
}

func (r *StationRepository) FindCategoryByID(ctx context.Context, id uint) (domain.StationCategory, error) {
	found, err := r.categoryDAO.FindByID(ctx, id)
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("r.categoryDAO.FindByID -> %w", err)
	}

	return categoryDaoToDomain(found), nil
}

func (r *StationRepository) FindAllCategories(ctx context.Context) ([]domain.StationCategory, error) {
	found, err := r.categoryDAO.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.categoryDAO.FindAll -> %w", err)
	}

	categories := make([]domain.StationCategory, len(found))
	for i, c := range found {
		categories[i] = categoryDaoToDomain(c)
	}

	return categories, nil
}

func (r *StationRepository) domainToDao(s domain.Station) dao.Station {
	daoStation := dao.Station{
		ID:           s.ID,
		Name:         s.Name,
		Content:      s.Content,
		Lat:          s.Lat,
		Lng:          s.Lng,
		OwnerGroupID: s.OwnerGroupID,
	}
	if s.Category != nil {
		daoStation.CategoryID = &s.Category.ID
	}

	return daoStation
}

func (r *StationRepository) daosToDomain(stations []dao.Station) []domain.Station {
	result := make([]domain.Station, len(stations))
	for i, s := range stations {
		result[i] = r.daoToDomain(s)
	}

	return result
}

func (r *StationRepository) daoToDomain(s dao.Station) domain.Station {
	station := domain.Station{
		ID:           s.ID,
		Name:         s.Name,
		Content:      s.Content,
		Lat:          s.Lat,
		Lng:          s.Lng,
		OwnerGroupID: s.OwnerGroupID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
	if s.Category != nil {
		category := categoryDaoToDomain(*s.Category)
		station.Category = &category
	}
	for _, img := range s.Images {
		station.Images = append(station.Images, imageDaoToDomain(img))
	}
	for _, b := range s.Beacons {
		station.BeaconIDs = append(station.BeaconIDs, b.BeaconID)
	}

	return station
}

func imageDaoToDomain(img dao.StationImage) domain.StationImage {
	return domain.StationImage{
		ID:        img.ID,
		StationID: img.StationID,
		Path:      img.Path,
		IsPrimary: img.IsPrimary,
	}
}

func categoryDaoToDomain(c dao.StationCategory) domain.StationCategory {
	return domain.StationCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
	}
}
