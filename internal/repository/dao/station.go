package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrStationNameExists  = errors.New("station already exists")
	ErrStationNotFound    = errors.New("station not found")
	ErrImageNotFound      = errors.New("station image not found")
	ErrImageIsPrimary     = errors.New("image is the primary image")
	ErrCategoryNameExists = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
)

type StationCategory struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"`
	Description string
}

type Station struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"unique;not null"`
	Content string

	CategoryID *uint
	Category   *StationCategory `gorm:"foreignKey:CategoryID"`

	Lat float64
	Lng float64

	OwnerGroupID *uint
	OwnerGroup   *UserGroup `gorm:"foreignKey:OwnerGroupID"`

	Images  []StationImage `gorm:"foreignKey:StationID;constraint:OnDelete:CASCADE"`
	Beacons []Beacon       `gorm:"many2many:station_beacons;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type StationImage struct {
	ID        uint   `gorm:"primaryKey"`
	StationID uint   `gorm:"not null;index"`
	Path      string `gorm:"not null"`
	IsPrimary bool   `gorm:"not null;default:false"`
}

type StationDAO struct {
	db *gorm.DB
}

func NewStationDAO(db *gorm.DB) *StationDAO {
	return &StationDAO{
		db: db,
	}
}

func (d *StationDAO) Insert(ctx context.Context, station Station) (Station, error) {
	result := d.db.WithContext(ctx).Create(&station)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Station{}, ErrStationNameExists
		}

		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) FindByID(ctx context.Context, id uint) (Station, error) {
	var station Station

	result := d.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("station_images.id") }).
		Preload("Beacons").
		First(&station, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Station{}, ErrStationNotFound
		}

		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) FindAll(ctx context.Context) ([]Station, error) {
	var stations []Station

	result := d.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("station_images.id") }).
		Order("id").
		Find(&stations)
	if result.Error != nil {
		return nil, result.Error
	}

	return stations, nil
}

// FindPage returns one page of stations, optionally scoped to an owner
// group. A nil groupID means no scoping (administrators).
func (d *StationDAO) FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]Station, int64, error) {
	query := d.db.WithContext(ctx).Model(&Station{})
	if groupID != nil {
		query = query.Where("owner_group_id = ?", *groupID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var stations []Station
	result := query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("station_images.id") }).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&stations)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return stations, total, nil
}

func (d *StationDAO) FindByBeaconID(ctx context.Context, beaconID string) ([]Station, error) {
	var stations []Station

	result := d.db.WithContext(ctx).
		Joins("JOIN station_beacons ON station_beacons.station_id = stations.id").
		Where("station_beacons.beacon_beacon_id = ?", beaconID).
		Order("stations.id").
		Find(&stations)
	if result.Error != nil {
		return nil, result.Error
	}

	return stations, nil
}

func (d *StationDAO) Update(ctx context.Context, station Station) (Station, error) {
	result := d.db.WithContext(ctx).Save(&station)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Station{}, ErrStationNameExists
		}

		return Station{}, result.Error
	}

	return station, nil
}

func (d *StationDAO) ReplaceBeacons(ctx context.Context, station Station, beacons []Beacon) error {
	return d.db.WithContext(ctx).Model(&station).Association("Beacons").Replace(beacons)
}

func (d *StationDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Select("Images").Delete(&Station{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

func (d *StationDAO) InsertImage(ctx context.Context, image StationImage) (StationImage, error) {
	result := d.db.WithContext(ctx).Create(&image)
	if result.Error != nil {
		return StationImage{}, result.Error
	}

	return image, nil
}

func (d *StationDAO) FindImageByID(ctx context.Context, id uint) (StationImage, error) {
	var image StationImage

	result := d.db.WithContext(ctx).First(&image, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StationImage{}, ErrImageNotFound
		}

		return StationImage{}, result.Error
	}

	return image, nil
}

// SetPrimaryImage clears the primary flag on every image of the image's
// station, then sets it on the target. Both steps run in one transaction
// so the at-most-one-primary invariant holds under concurrent calls.
func (d *StationDAO) SetPrimaryImage(ctx context.Context, imageID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image StationImage
		if err := tx.First(&image, imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}

			return err
		}

		err := tx.Model(&StationImage{}).
			Where("station_id = ?", image.StationID).
			Update("is_primary", false).Error
		if err != nil {
			return err
		}

		return tx.Model(&StationImage{}).
			Where("id = ?", imageID).
			Update("is_primary", true).Error
	})
}

// DeleteImage removes a non-primary image row and returns its stored
// path so the caller can remove the file. Deleting the current primary
// is refused.
func (d *StationDAO) DeleteImage(ctx context.Context, imageID uint) (string, error) {
	var path string

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var image StationImage
		if err := tx.First(&image, imageID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrImageNotFound
			}

			return err
		}

		if image.IsPrimary {
			return ErrImageIsPrimary
		}

		path = image.Path

		return tx.Delete(&StationImage{}, imageID).Error
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

type CategoryDAO struct {
	db *gorm.DB
}

func NewCategoryDAO(db *gorm.DB) *CategoryDAO {
	return &CategoryDAO{
		db: db,
	}
}

func (d *CategoryDAO) Insert(ctx context.Context, category StationCategory) (StationCategory, error) {
	result := d.db.WithContext(ctx).Create(&category)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return StationCategory{}, ErrCategoryNameExists
		}

		return StationCategory{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindByID(ctx context.Context, id uint) (StationCategory, error) {
	var category StationCategory

	result := d.db.WithContext(ctx).First(&category, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return StationCategory{}, ErrCategoryNotFound
		}

		return StationCategory{}, result.Error
	}

	return category, nil
}

func (d *CategoryDAO) FindAll(ctx context.Context) ([]StationCategory, error) {
	var categories []StationCategory
	result := d.db.WithContext(ctx).Order("id").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}
