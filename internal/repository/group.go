package repository

import (
	"context"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository/dao"
)

var (
	ErrRoleNotFound    = dao.ErrRoleNotFound
	ErrGroupNameExists = dao.ErrGroupNameExists
	ErrGroupNotFound   = dao.ErrGroupNotFound
)

type RoleDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Role, error)
	FindByName(ctx context.Context, name string) (dao.Role, error)
	FindAll(ctx context.Context) ([]dao.Role, error)
}

type GroupDAO interface {
	Insert(ctx context.Context, group dao.UserGroup) (dao.UserGroup, error)
	FindByID(ctx context.Context, id uint) (dao.UserGroup, error)
	FindAll(ctx context.Context, offset, limit int) ([]dao.UserGroup, int64, error)
	Delete(ctx context.Context, id uint) error
}

type GroupRepository struct {
	roleDAO  RoleDAO
	groupDAO GroupDAO
}

func NewGroupRepository(roleDAO RoleDAO, groupDAO GroupDAO) *GroupRepository {
	return &GroupRepository{
		roleDAO:  roleDAO,
		groupDAO: groupDAO,
	}
}

func (r *GroupRepository) FindRoleByID(ctx context.Context, id uint) (domain.Role, error) {
	found, err := r.roleDAO.FindByID(ctx, id)
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.roleDAO.FindByID -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *GroupRepository) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	found, err := r.roleDAO.FindByName(ctx, name)
	if err != nil {
		return domain.Role{}, fmt.Errorf("r.roleDAO.FindByName -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *GroupRepository) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	found, err := r.roleDAO.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.roleDAO.FindAll -> %w", err)
	}

	roles := make([]domain.Role, len(found))
	for i, role := range found {
		roles[i] = roleDaoToDomain(role)
	}

	return roles, nil
}

func (r *GroupRepository) CreateGroup(ctx context.Context, group domain.UserGroup) (domain.UserGroup, error) {
	created, err := r.groupDAO.Insert(ctx, dao.UserGroup{Name: group.Name})
	if err != nil {
		return domain.UserGroup{}, fmt.Errorf("r.groupDAO.Insert -> %w", err)
	}

	return domain.UserGroup{ID: created.ID, Name: created.Name}, nil
}

func (r *GroupRepository) FindGroupByID(ctx context.Context, id uint) (domain.UserGroup, error) {
	found, err := r.groupDAO.FindByID(ctx, id)
	if err != nil {
		return domain.UserGroup{}, fmt.Errorf("r.groupDAO.FindByID -> %w", err)
	}

	return domain.UserGroup{ID: found.ID, Name: found.Name}, nil
}

func (r *GroupRepository) FindGroupPage(ctx context.Context, offset, limit int) ([]domain.UserGroup, int64, error) {
	found, total, err := r.groupDAO.FindAll(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("r.groupDAO.FindAll -> %w", err)
	}

	groups := make([]domain.UserGroup, len(found))
	for i, g := range found {
		groups[i] = domain.UserGroup{ID: g.ID, Name: g.Name}
	}

	return groups, total, nil
}

func (r *GroupRepository) DeleteGroup(ctx context.Context, id uint) error {
	if err := r.groupDAO.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.groupDAO.Delete -> %w", err)
	}

	return nil
}
