package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"go.uber.org/zap"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrForbidden          = errors.New("forbidden")
	ErrStationNameExists  = repository.ErrStationNameExists
	ErrStationNotFound    = repository.ErrStationNotFound
	ErrImageNotFound      = repository.ErrImageNotFound
	ErrImageIsPrimary     = repository.ErrImageIsPrimary
	ErrCategoryNameExists = repository.ErrCategoryNameExists
	ErrCategoryNotFound   = repository.ErrCategoryNotFound
	ErrTooManyImages      = errors.New("too many images for station")
)

type StationRepository interface {
	Create(ctx context.Context, station domain.Station) (domain.Station, error)
	FindByID(ctx context.Context, id uint) (domain.Station, error)
	FindAll(ctx context.Context) ([]domain.Station, error)
	FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]domain.Station, int64, error)
	Update(ctx context.Context, station domain.Station) (domain.Station, error)
	ReplaceBeacons(ctx context.Context, stationID uint, beaconIDs []string) error
	Delete(ctx context.Context, id uint) error
	AddImage(ctx context.Context, image domain.StationImage) (domain.StationImage, error)
	FindImageByID(ctx context.Context, id uint) (domain.StationImage, error)
	SetPrimaryImage(ctx context.Context, imageID uint) error
	DeleteImage(ctx context.Context, imageID uint) (string, error)
	CreateCategory(ctx context.Context, category domain.StationCategory) (domain.StationCategory, error)
	FindCategoryByID(ctx context.Context, id uint) (domain.StationCategory, error)
	FindAllCategories(ctx context.Context) ([]domain.StationCategory, error)
}

type ImageStore interface {
	Save(file *multipart.FileHeader, subdir string) (string, error)
	Remove(rel string) error
	URL(rel string) string
}

// CreateStationInput carries the admin console's station form. Images
// arrive as multipart uploads; MainImageIndex designates which slot
// (0-based) becomes the primary image.
type CreateStationInput struct {
	Name           string
	Content        string
	CategoryID     *uint
	Lat            float64
	Lng            float64
	OwnerGroupID   *uint
	BeaconIDs      []string
	Images         []*multipart.FileHeader
	MainImageIndex int
}

type UpdateStationInput struct {
	Name       string
	Content    string
	CategoryID *uint
	Lat        float64
	Lng        float64
	BeaconIDs  []string
	// NewImages are appended as non-primary; the existing primary is
	// untouched unless changed through SetPrimaryImage.
	NewImages []*multipart.FileHeader
}

type StationService struct {
	repo      StationRepository
	store     ImageStore
	maxImages int
}

func NewStationService(repo StationRepository, store ImageStore, maxImages int) *StationService {
	return &StationService{
		repo:      repo,
		store:     store,
		maxImages: maxImages,
	}
}

func (s *StationService) ListAll(ctx context.Context) ([]domain.Station, error) {
	stations, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return stations, nil
}

// ListPage returns one admin page. Administrators see every station;
// editors only their group's.
func (s *StationService) ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Station, int64, error) {
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

	stations, total, err := s.repo.FindPage(ctx, groupID, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindPage -> %w", err)
	}

	return stations, total, nil
}

// Get returns one station for the console. Reading only needs the view
// capability, scoped to the actor's group like ListPage.
func (s *StationService) Get(ctx context.Context, actor domain.User, id uint) (domain.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanView(station.OwnerGroupID) {
		return domain.Station{}, ErrForbidden
	}

	return station, nil
}

func (s *StationService) Create(ctx context.Context, actor domain.User, input CreateStationInput) (domain.Station, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.Station{}, ErrForbidden
	}
	if len(input.Images) > s.maxImages {
		return domain.Station{}, ErrTooManyImages
	}

	ownerGroupID := input.OwnerGroupID
	if !actor.IsAdministrator() || ownerGroupID == nil {
		if actor.Group != nil {
			ownerGroupID = &actor.Group.ID
		}
	}

	station := domain.Station{
		Name:         input.Name,
		Content:      input.Content,
		Lat:          input.Lat,
		Lng:          input.Lng,
		OwnerGroupID: ownerGroupID,
	}
	if input.CategoryID != nil {
		category, err := s.repo.FindCategoryByID(ctx, *input.CategoryID)
		if err != nil {
			return domain.Station{}, fmt.Errorf("s.repo.FindCategoryByID -> %w", err)
		}
		station.Category = &category
	}

	created, err := s.repo.Create(ctx, station)
	if err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if len(input.BeaconIDs) > 0 {
		if err := s.repo.ReplaceBeacons(ctx, created.ID, input.BeaconIDs); err != nil {
			return domain.Station{}, fmt.Errorf("s.repo.ReplaceBeacons -> %w", err)
		}
	}

	for i, file := range input.Images {
		if err := s.addImage(ctx, created.ID, file, i == input.MainImageIndex); err != nil {
			return domain.Station{}, err
		}
	}

	return s.repo.FindByID(ctx, created.ID)
}

func (s *StationService) Update(ctx context.Context, actor domain.User, id uint, input UpdateStationInput) (domain.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(station.OwnerGroupID) {
		return domain.Station{}, ErrForbidden
	}

	if len(station.Images)+len(input.NewImages) > s.maxImages {
		return domain.Station{}, ErrTooManyImages
	}

	station.Name = input.Name
	station.Content = input.Content
	station.Lat = input.Lat
	station.Lng = input.Lng
	station.Category = nil
	if input.CategoryID != nil {
		category, err := s.repo.FindCategoryByID(ctx, *input.CategoryID)
		if err != nil {
			return domain.Station{}, fmt.Errorf("s.repo.FindCategoryByID -> %w", err)
		}
		station.Category = &category
	}

	if _, err := s.repo.Update(ctx, station); err != nil {
		return domain.Station{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if input.BeaconIDs != nil {
		if err := s.repo.ReplaceBeacons(ctx, station.ID, input.BeaconIDs); err != nil {
			return domain.Station{}, fmt.Errorf("s.repo.ReplaceBeacons -> %w", err)
		}
	}

	for _, file := range input.NewImages {
		if err := s.addImage(ctx, station.ID, file, false); err != nil {
			return domain.Station{}, err
		}
	}

	return s.repo.FindByID(ctx, station.ID)
}

func (s *StationService) Delete(ctx context.Context, actor domain.User, id uint) error {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(station.OwnerGroupID) {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	// Records are gone; leftover files are only disk garbage.
	for _, img := range station.Images {
		if err := s.store.Remove(img.Path); err != nil {
			zap.L().Warn("failed to remove station image file",
				zap.String("path", img.Path),
				zap.Error(err))
		}
	}

	return nil
}

// SetPrimaryImage re-designates the station's cover image. The repo
// clears every sibling flag before setting the target inside one
// transaction, keeping the at-most-one-primary invariant.
func (s *StationService) SetPrimaryImage(ctx context.Context, actor domain.User, imageID uint) error {
	image, err := s.repo.FindImageByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("s.repo.FindImageByID -> %w", err)
	}

	station, err := s.repo.FindByID(ctx, image.StationID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(station.OwnerGroupID) {
		return ErrForbidden
	}

	if err := s.repo.SetPrimaryImage(ctx, imageID); err != nil {
		return fmt.Errorf("s.repo.SetPrimaryImage -> %w", err)
	}

	return nil
}

// DeleteImage removes a non-primary image record and its file. A file
// already missing on disk must not block the record deletion.
func (s *StationService) DeleteImage(ctx context.Context, actor domain.User, imageID uint) error {
	image, err := s.repo.FindImageByID(ctx, imageID)
	if err != nil {
		return fmt.Errorf("s.repo.FindImageByID -> %w", err)
	}

	station, err := s.repo.FindByID(ctx, image.StationID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !actor.CanManage(station.OwnerGroupID) {
		return ErrForbidden
	}

	path, err := s.repo.DeleteImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("s.repo.DeleteImage -> %w", err)
	}

	if err := s.store.Remove(path); err != nil {
		zap.L().Warn("failed to remove station image file",
			zap.String("path", path),
			zap.Error(err))
	}

	return nil
}

func (s *StationService) CreateCategory(ctx context.Context, actor domain.User, category domain.StationCategory) (domain.StationCategory, error) {
	if !actor.HasCapability(domain.CapabilityEdit) {
		return domain.StationCategory{}, ErrForbidden
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return domain.StationCategory{}, fmt.Errorf("s.repo.CreateCategory -> %w", err)
	}

	return created, nil
}

func (s *StationService) ListCategories(ctx context.Context) ([]domain.StationCategory, error) {
	categories, err := s.repo.FindAllCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllCategories -> %w", err)
	}

	return categories, nil
}

// ImageURL resolves a stored path to its public URL.
func (s *StationService) ImageURL(path string) string {
	return s.store.URL(path)
}

func (s *StationService) addImage(ctx context.Context, stationID uint, file *multipart.FileHeader, isPrimary bool) error {
	path, err := s.store.Save(file, "station")
	if err != nil {
		return fmt.Errorf("s.store.Save -> %w", err)
	}

	_, err = s.repo.AddImage(ctx, domain.StationImage{
		StationID: stationID,
		Path:      path,
		IsPrimary: isPrimary,
	})
	if err != nil {
		return fmt.Errorf("s.repo.AddImage -> %w", err)
	}

	return nil
}
