package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrBeaconExists   = errors.New("beacon already exists")
	ErrBeaconNotFound = errors.New("beacon not found")
)

type Beacon struct {
	BeaconID    string `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"`
	Description string

	Lat float64
	Lng float64

	OwnerGroupID *uint
	OwnerGroup   *UserGroup `gorm:"foreignKey:OwnerGroupID"`

	Stations []Station `gorm:"many2many:station_beacons;"`
}

type BeaconDAO struct {
	db *gorm.DB
}

func NewBeaconDAO(db *gorm.DB) *BeaconDAO {
	return &BeaconDAO{
		db: db,
	}
}

func (d *BeaconDAO) Insert(ctx context.Context, beacon Beacon) (Beacon, error) {
	result := d.db.WithContext(ctx).Create(&beacon)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Beacon{}, ErrBeaconExists
		}

		return Beacon{}, result.Error
	}

	return beacon, nil
}

func (d *BeaconDAO) FindByID(ctx context.Context, beaconID string) (Beacon, error) {
	var beacon Beacon

	result := d.db.WithContext(ctx).
		Preload("Stations").
		First(&beacon, "beacon_id = ?", beaconID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Beacon{}, ErrBeaconNotFound
		}

		return Beacon{}, result.Error
	}

	return beacon, nil
}

func (d *BeaconDAO) FindByName(ctx context.Context, name string) (Beacon, error) {
	var beacon Beacon

	result := d.db.WithContext(ctx).First(&beacon, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Beacon{}, ErrBeaconNotFound
		}

		return Beacon{}, result.Error
	}

	return beacon, nil
}

// FindPage returns one page of beacons, optionally scoped to an owner
// group. A nil groupID means no scoping (administrators).
func (d *BeaconDAO) FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]Beacon, int64, error) {
	query := d.db.WithContext(ctx).Model(&Beacon{})
	if groupID != nil {
		query = query.Where("owner_group_id = ?", *groupID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var beacons []Beacon
	result := query.
		Preload("Stations").
		Order("beacon_id").
		Offset(offset).
		Limit(limit).
		Find(&beacons)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return beacons, total, nil
}

func (d *BeaconDAO) Update(ctx context.Context, beacon Beacon) (Beacon, error) {
	result := d.db.WithContext(ctx).Save(&beacon)
	if result.Error != nil {
		return Beacon{}, result.Error
	}

	return beacon, nil
}

// ReplaceStations swaps the beacon's station links for the given set.
func (d *BeaconDAO) ReplaceStations(ctx context.Context, beacon Beacon, stations []Station) error {
	return d.db.WithContext(ctx).Model(&beacon).Association("Stations").Replace(stations)
}

func (d *BeaconDAO) Delete(ctx context.Context, beaconID string) error {
	result := d.db.WithContext(ctx).Delete(&Beacon{BeaconID: beaconID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBeaconNotFound
	}

	return nil
}
