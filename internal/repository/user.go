package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindAll(ctx context.Context, offset, limit int) ([]dao.User, int64, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	UpdateColumns(ctx context.Context, id uint, values map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	AddFavoriteStation(ctx context.Context, user dao.User, station dao.Station) error
	RemoveFavoriteStation(ctx context.Context, user dao.User, station dao.Station) error
	FindFavoriteStationIDs(ctx context.Context, userID uint) ([]uint, error)
	AddVisitedBeacon(ctx context.Context, user dao.User, beacon dao.Beacon) error
	AddAnsweredQuestion(ctx context.Context, user dao.User, question dao.Question) error
	FindAnsweredQuestionIDs(ctx context.Context, userID uint) ([]uint, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindPage(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	found, total, err := r.dao.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = r.daoToDomain(u)
	}

	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	existing, err := r.dao.FindByID(ctx, user.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	existing.Email = domain.NormalizeEmail(user.Email)
	existing.Nickname = user.Nickname
	existing.Password = user.Password
	existing.ExperiencePoint = user.ExperiencePoint
	existing.EarnedCoins = user.EarnedCoins
	existing.EmailConfirmed = user.EmailConfirmed
	existing.LastLogin = user.LastLogin
	existing.Role = nil
	existing.Group = nil
	if user.Role != nil {
		existing.RoleID = &user.Role.ID
	} else {
		existing.RoleID = nil
	}
	if user.Group != nil {
		existing.GroupID = &user.Group.ID
	} else {
		existing.GroupID = nil
	}

	updated, err := r.dao.Update(ctx, existing)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) UpdateCoins(ctx context.Context, id uint, coins int) error {
	err := r.dao.UpdateColumns(ctx, id, map[string]interface{}{"earned_coins": coins})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

func (r *UserRepository) UpdateExperiencePoint(ctx context.Context, id uint, points int) error {
	err := r.dao.UpdateColumns(ctx, id, map[string]interface{}{"experience_point": points})
	if err != nil {
		return fmt.Errorf("r.dao.UpdateColumns -> %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) AddFavoriteStation(ctx context.Context, userID, stationID uint) error {
	err := r.dao.AddFavoriteStation(ctx, dao.User{ID: userID}, dao.Station{ID: stationID})
	if err != nil {
		return fmt.Errorf("r.dao.AddFavoriteStation -> %w", err)
	}

	return nil
}

func (r *UserRepository) RemoveFavoriteStation(ctx context.Context, userID, stationID uint) error {
	err := r.dao.RemoveFavoriteStation(ctx, dao.User{ID: userID}, dao.Station{ID: stationID})
	if err != nil {
		return fmt.Errorf("r.dao.RemoveFavoriteStation -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindFavoriteStationIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := r.dao.FindFavoriteStationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindFavoriteStationIDs -> %w", err)
	}

	return ids, nil
}

func (r *UserRepository) AddVisitedBeacon(ctx context.Context, userID uint, beaconID string) error {
	err := r.dao.AddVisitedBeacon(ctx, dao.User{ID: userID}, dao.Beacon{BeaconID: beaconID})
	if err != nil {
		return fmt.Errorf("r.dao.AddVisitedBeacon -> %w", err)
	}

	return nil
}

func (r *UserRepository) AddAnsweredQuestion(ctx context.Context, userID, questionID uint) error {
	err := r.dao.AddAnsweredQuestion(ctx, dao.User{ID: userID}, dao.Question{ID: questionID})
	if err != nil {
		return fmt.Errorf("r.dao.AddAnsweredQuestion -> %w", err)
	}

	return nil
}

func (r *UserRepository) FindAnsweredQuestionIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := r.dao.FindAnsweredQuestionIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAnsweredQuestionIDs -> %w", err)
	}

	return ids, nil
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	daoUser := dao.User{
		ID:              u.ID,
		Email:           domain.NormalizeEmail(u.Email),
		Password:        u.Password,
		Nickname:        u.Nickname,
		ExperiencePoint: u.ExperiencePoint,
		EarnedCoins:     u.EarnedCoins,
		EmailConfirmed:  u.EmailConfirmed,
		LastLogin:       u.LastLogin,
	}
	if u.Role != nil {
		daoUser.RoleID = &u.Role.ID
	}
	if u.Group != nil {
		daoUser.GroupID = &u.Group.ID
	}

	return daoUser
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	user := domain.User{
		ID:              u.ID,
		Email:           u.Email,
		Password:        u.Password,
		Nickname:        u.Nickname,
		ExperiencePoint: u.ExperiencePoint,
		EarnedCoins:     u.EarnedCoins,
		EmailConfirmed:  u.EmailConfirmed,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Role != nil {
		role := roleDaoToDomain(*u.Role)
		user.Role = &role
	}
	if u.Group != nil {
		user.Group = &domain.UserGroup{ID: u.Group.ID, Name: u.Group.Name}
	}

	return user
}

func roleDaoToDomain(role dao.Role) domain.Role {
	return domain.Role{
		ID:           role.ID,
		Name:         role.Name,
		Capabilities: parseCapabilities(role.Capabilities),
	}
}

func parseCapabilities(joined string) domain.CapabilitySet {
	set := domain.CapabilitySet{}
	for _, raw := range strings.Split(joined, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		set[domain.Capability(raw)] = true
	}

	return set
}