package dao

import (
	"context"

	"gorm.io/gorm"
)

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Role{},
		&UserGroup{},
		&User{},
		&StationCategory{},
		&Station{},
		&StationImage{},
		&Beacon{},
		&Reward{},
		&UserReward{},
		&Question{},
		&Choice{},
		&QuestionChoice{},
		&TravelPlan{},
		&TravelPlanStation{},
	)
}

// SeedRoles inserts the three predefined roles, overwriting capabilities
// of any that already exist. Safe to run on every boot.
func SeedRoles(ctx context.Context, db *gorm.DB) error {
	roles := []Role{
		{Name: "User", Capabilities: "view"},
		{Name: "Moderator", Capabilities: "view,edit"},
		{Name: "Administrator", Capabilities: "admin"},
	}

	roleDAO := NewRoleDAO(db)
	for _, role := range roles {
		if _, err := roleDAO.Upsert(ctx, role); err != nil {
			return err
		}
	}

	return nil
}
