package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrTravelPlanNotFound = errors.New("travel plan not found")
)

type TravelPlan struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	ImagePath   string

	Stations []TravelPlanStation `gorm:"foreignKey:TravelPlanID;constraint:OnDelete:CASCADE"`
}

// TravelPlanStation carries the visiting order; a plain many-to-many
// would lose the sequence.
type TravelPlanStation struct {
	ID           uint `gorm:"primaryKey"`
	TravelPlanID uint `gorm:"not null;index"`
	StationID    uint `gorm:"not null"`
	Order        int  `gorm:"column:station_order;not null"`
}

type TravelPlanDAO struct {
	db *gorm.DB
}

func NewTravelPlanDAO(db *gorm.DB) *TravelPlanDAO {
	return &TravelPlanDAO{
		db: db,
	}
}

func (d *TravelPlanDAO) Insert(ctx context.Context, plan TravelPlan) (TravelPlan, error) {
	result := d.db.WithContext(ctx).Create(&plan)
	if result.Error != nil {
		return TravelPlan{}, result.Error
	}

	return plan, nil
}

func (d *TravelPlanDAO) FindByID(ctx context.Context, id uint) (TravelPlan, error) {
	var plan TravelPlan

	result := d.db.WithContext(ctx).
		Preload("Stations", func(db *gorm.DB) *gorm.DB {
			return db.Order("travel_plan_stations.station_order")
		}).
		First(&plan, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return TravelPlan{}, ErrTravelPlanNotFound
		}

		return TravelPlan{}, result.Error
	}

	return plan, nil
}

func (d *TravelPlanDAO) FindAll(ctx context.Context) ([]TravelPlan, error) {
	var plans []TravelPlan

	result := d.db.WithContext(ctx).
		Preload("Stations", func(db *gorm.DB) *gorm.DB {
			return db.Order("travel_plan_stations.station_order")
		}).
		Order("id").
		Find(&plans)
	if result.Error != nil {
		return nil, result.Error
	}

	return plans, nil
}

func (d *TravelPlanDAO) FindPage(ctx context.Context, offset, limit int) ([]TravelPlan, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&TravelPlan{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var plans []TravelPlan
	result := d.db.WithContext(ctx).
		Preload("Stations", func(db *gorm.DB) *gorm.DB {
			return db.Order("travel_plan_stations.station_order")
		}).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&plans)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return plans, total, nil
}

func (d *TravelPlanDAO) Update(ctx context.Context, plan TravelPlan) (TravelPlan, error) {
	result := d.db.WithContext(ctx).Omit("Stations").Save(&plan)
	if result.Error != nil {
		return TravelPlan{}, result.Error
	}

	return plan, nil
}

// ReconcileStations brings the plan's join rows in line with the desired
// ordered station list: existing rows are updated in place, missing ones
// inserted, and rows for stations no longer listed deleted. Runs in one
// transaction and is idempotent.
func (d *TravelPlanDAO) ReconcileStations(ctx context.Context, planID uint, stationIDs []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []TravelPlanStation
		err := tx.Where("travel_plan_id = ?", planID).Find(&existing).Error
		if err != nil {
			return err
		}

		byStation := make(map[uint]TravelPlanStation, len(existing))
		for _, row := range existing {
			byStation[row.StationID] = row
		}

		wanted := make(map[uint]bool, len(stationIDs))
		for order, stationID := range stationIDs {
			wanted[stationID] = true

			if row, ok := byStation[stationID]; ok {
				if row.Order == order {
					continue
				}

				err := tx.Model(&TravelPlanStation{}).
					Where("id = ?", row.ID).
					Update("station_order", order).Error
				if err != nil {
					return err
				}

				continue
			}

			row := TravelPlanStation{
				TravelPlanID: planID,
				StationID:    stationID,
				Order:        order,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for stationID, row := range byStation {
			if wanted[stationID] {
				continue
			}

			if err := tx.Delete(&TravelPlanStation{}, row.ID).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *TravelPlanDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Select("Stations").Delete(&TravelPlan{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTravelPlanNotFound
	}

	return nil
}
