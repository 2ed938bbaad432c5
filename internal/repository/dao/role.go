package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrRoleNotFound    = errors.New("role not found")
	ErrGroupNameExists = errors.New("group already exists")
	ErrGroupNotFound   = errors.New("group not found")
)

type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
	// Capabilities is a comma-joined list, e.g. "view,edit".
	Capabilities string `gorm:"not null"`
}

type UserGroup struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"unique;not null"`
}

type RoleDAO struct {
	db *gorm.DB
}

func NewRoleDAO(db *gorm.DB) *RoleDAO {
	return &RoleDAO{
		db: db,
	}
}

func (d *RoleDAO) FindByID(ctx context.Context, id uint) (Role, error) {
	var role Role

	result := d.db.WithContext(ctx).First(&role, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, ErrRoleNotFound
		}

		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindByName(ctx context.Context, name string) (Role, error) {
	var role Role

	result := d.db.WithContext(ctx).First(&role, "name = ?", name)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, ErrRoleNotFound
		}

		return Role{}, result.Error
	}

	return role, nil
}

func (d *RoleDAO) FindAll(ctx context.Context) ([]Role, error) {
	var roles []Role
	result := d.db.WithContext(ctx).Order("id").Find(&roles)
	if result.Error != nil {
		return nil, result.Error
	}

	return roles, nil
}

// Upsert inserts the role or, when a role with the same name exists,
// overwrites its capabilities. Used by seeding.
func (d *RoleDAO) Upsert(ctx context.Context, role Role) (Role, error) {
	var existing Role

	result := d.db.WithContext(ctx).First(&existing, "name = ?", role.Name)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Role{}, result.Error
		}

		if err := d.db.WithContext(ctx).Create(&role).Error; err != nil {
			return Role{}, err
		}

		return role, nil
	}

	existing.Capabilities = role.Capabilities
	if err := d.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return Role{}, err
	}

	return existing, nil
}

type GroupDAO struct {
	db *gorm.DB
}

func NewGroupDAO(db *gorm.DB) *GroupDAO {
	return &GroupDAO{
		db: db,
	}
}

func (d *GroupDAO) Insert(ctx context.Context, group UserGroup) (UserGroup, error) {
	result := d.db.WithContext(ctx).Create(&group)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return UserGroup{}, ErrGroupNameExists
		}

		return UserGroup{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindByID(ctx context.Context, id uint) (UserGroup, error) {
	var group UserGroup

	result := d.db.WithContext(ctx).First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return UserGroup{}, ErrGroupNotFound
		}

		return UserGroup{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindAll(ctx context.Context, offset, limit int) ([]UserGroup, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&UserGroup{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []UserGroup
	result := d.db.WithContext(ctx).Order("id").Offset(offset).Limit(limit).Find(&groups)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return groups, total, nil
}

func (d *GroupDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&UserGroup{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}
