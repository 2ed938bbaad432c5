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
	ErrUserEmailExists = errors.New("user already exists")
	ErrUserNotFound    = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`
	Nickname string

	RoleID  *uint
	Role    *Role
	GroupID *uint
	Group   *UserGroup

	ExperiencePoint int  `gorm:"not null;default:0"`
	EarnedCoins     int  `gorm:"not null;default:0"`
	EmailConfirmed  bool `gorm:"not null;default:false"`
	LastLogin       *time.Time

	FavoriteStations  []Station  `gorm:"many2many:user_favorite_stations;"`
	VisitedBeacons    []Beacon   `gorm:"many2many:user_visited_beacons;"`
	AnsweredQuestions []Question `gorm:"many2many:user_answered_questions;"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		Preload("Role").
		Preload("Group").
		First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).
		Preload("Role").
		Preload("Group").
		First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context, offset, limit int) ([]User, int64, error) {
	var total int64
	if err := d.db.WithContext(ctx).Model(&User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []User
	result := d.db.WithContext(ctx).
		Preload("Role").
		Preload("Group").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&users)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return users, total, nil
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Save(&user)
	if result.Error != nil {
		return User{}, result.Error
	}

	return user, nil
}

// UpdateColumns updates only the named columns of the user row.
func (d *UserDAO) UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error {
	result := d.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (d *UserDAO) AddFavoriteStation(ctx context.Context, user User, station Station) error {
	return d.db.WithContext(ctx).Model(&user).Association("FavoriteStations").Append(&station)
}

func (d *UserDAO) RemoveFavoriteStation(ctx context.Context, user User, station Station) error {
	return d.db.WithContext(ctx).Model(&user).Association("FavoriteStations").Delete(&station)
}

func (d *UserDAO) FindFavoriteStationIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := d.db.WithContext(ctx).
		Table("user_favorite_stations").
		Where("user_id = ?", userID).
		Order("station_id").
		Pluck("station_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (d *UserDAO) AddVisitedBeacon(ctx context.Context, user User, beacon Beacon) error {
	return d.db.WithContext(ctx).Model(&user).Association("VisitedBeacons").Append(&beacon)
}

func (d *UserDAO) AddAnsweredQuestion(ctx context.Context, user User, question Question) error {
	return d.db.WithContext(ctx).Model(&user).Association("AnsweredQuestions").Append(&question)
}

func (d *UserDAO) FindAnsweredQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := d.db.WithContext(ctx).
		Table("user_answered_questions").
		Where("user_id = ?", userID).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}
