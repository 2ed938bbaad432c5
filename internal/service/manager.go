package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrRoleNotFound    = repository.ErrRoleNotFound
	ErrGroupNameExists = repository.ErrGroupNameExists
	ErrGroupNotFound   = repository.ErrGroupNotFound
)

type GroupRepository interface {
	FindRoleByID(ctx context.Context, id uint) (domain.Role, error)
	FindRoleByName(ctx context.Context, name string) (domain.Role, error)
	FindAllRoles(ctx context.Context) ([]domain.Role, error)
	CreateGroup(ctx context.Context, group domain.UserGroup) (domain.UserGroup, error)
	FindGroupByID(ctx context.Context, id uint) (domain.UserGroup, error)
	FindGroupPage(ctx context.Context, offset, limit int) ([]domain.UserGroup, int64, error)
	DeleteGroup(ctx context.Context, id uint) error
}

type CreateManagerInput struct {
	Email    string
	Password string
	Nickname string
	RoleID   uint
	GroupID  *uint
}

type UpdateManagerInput struct {
	ID       uint
	Nickname string
	RoleID   uint
	GroupID  *uint
}

// ManagerService handles the back-office accounts an administrator hands
// out to station keepers, plus the group and role catalogs behind them.
type ManagerService struct {
	userRepo  UserRepository
	groupRepo GroupRepository
}

func NewManagerService(userRepo UserRepository, groupRepo GroupRepository) *ManagerService {
	return &ManagerService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

func (s *ManagerService) ListManagers(ctx context.Context, actor domain.User, offset, limit int) ([]domain.User, int64, error) {
	if !actor.IsAdministrator() {
		return nil, 0, ErrForbidden
	}

	users, total, err := s.userRepo.FindPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.userRepo.FindPage -> %w", err)
	}

	return users, total, nil
}

func (s *ManagerService) GetManager(ctx context.Context, actor domain.User, id uint) (domain.User, error) {
	if !actor.IsAdministrator() {
		return domain.User{}, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	return user, nil
}

// CreateManager provisions a console account. Manager accounts skip the
// e-mail activation flow and come up confirmed.
func (s *ManagerService) CreateManager(ctx context.Context, actor domain.User, input CreateManagerInput) (domain.User, error) {
	if !actor.IsAdministrator() {
		return domain.User{}, ErrForbidden
	}

	role, err := s.groupRepo.FindRoleByID(ctx, input.RoleID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.groupRepo.FindRoleByID -> %w", err)
	}

	var group *domain.UserGroup
	if input.GroupID != nil {
		found, err := s.groupRepo.FindGroupByID(ctx, *input.GroupID)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.groupRepo.FindGroupByID -> %w", err)
		}
		group = &found
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	created, err := s.userRepo.Create(ctx, domain.User{
		Email:          input.Email,
		Password:       string(hashed),
		Nickname:       input.Nickname,
		Role:           &role,
		Group:          group,
		EmailConfirmed: true,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.userRepo.Create -> %w", err)
	}

	return created, nil
}

func (s *ManagerService) UpdateManager(ctx context.Context, actor domain.User, input UpdateManagerInput) (domain.User, error) {
	if !actor.IsAdministrator() {
		return domain.User{}, ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, input.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}

	role, err := s.groupRepo.FindRoleByID(ctx, input.RoleID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.groupRepo.FindRoleByID -> %w", err)
	}

	user.Nickname = input.Nickname
	user.Role = &role
	user.Group = nil
	if input.GroupID != nil {
		found, err := s.groupRepo.FindGroupByID(ctx, *input.GroupID)
		if err != nil {
			return domain.User{}, fmt.Errorf("s.groupRepo.FindGroupByID -> %w", err)
		}
		user.Group = &found
	}

	updated, err := s.userRepo.Update(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.userRepo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ManagerService) DeleteManager(ctx context.Context, actor domain.User, id uint) error {
	if !actor.IsAdministrator() {
		return ErrForbidden
	}
	if actor.ID == id {
		return ErrForbidden
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.userRepo.Delete -> %w", err)
	}

	return nil
}

func (s *ManagerService) ListRoles(ctx context.Context, actor domain.User) ([]domain.Role, error) {
	if !actor.IsAdministrator() {
		return nil, ErrForbidden
	}

	roles, err := s.groupRepo.FindAllRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.groupRepo.FindAllRoles -> %w", err)
	}

	return roles, nil
}

func (s *ManagerService) CreateGroup(ctx context.Context, actor domain.User, name string) (domain.UserGroup, error) {
	if !actor.IsAdministrator() {
		return domain.UserGroup{}, ErrForbidden
	}

	group, err := s.groupRepo.CreateGroup(ctx, domain.UserGroup{Name: name})
	if err != nil {
		return domain.UserGroup{}, fmt.Errorf("s.groupRepo.CreateGroup -> %w", err)
	}

	return group, nil
}

func (s *ManagerService) ListGroups(ctx context.Context, actor domain.User, offset, limit int) ([]domain.UserGroup, int64, error) {
	if !actor.IsAdministrator() {
		return nil, 0, ErrForbidden
	}

	groups, total, err := s.groupRepo.FindGroupPage(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("s.groupRepo.FindGroupPage -> %w", err)
	}

	return groups, total, nil
}

func (s *ManagerService) DeleteGroup(ctx context.Context, actor domain.User, id uint) error {
	if !actor.IsAdministrator() {
		return ErrForbidden
	}

	if err := s.groupRepo.DeleteGroup(ctx, id); err != nil {
		return fmt.Errorf("s.groupRepo.DeleteGroup -> %w", err)
	}

	return nil
}
