package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

type fakeGroupRepo struct {
	roles       map[uint]domain.Role
	nextGroupID uint
	groups      map[uint]domain.UserGroup
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{
		roles: map[uint]domain.Role{
			1: {ID: 1, Name: "Administrator", Capabilities: domain.NewCapabilitySet(domain.CapabilityAdmin)},
			2: {ID: 2, Name: "Moderator", Capabilities: domain.NewCapabilitySet(domain.CapabilityView, domain.CapabilityEdit)},
			3: {ID: 3, Name: "User", Capabilities: domain.NewCapabilitySet()},
		},
		nextGroupID: 1,
		groups:      make(map[uint]domain.UserGroup),
	}
}

func (r *fakeGroupRepo) FindRoleByID(ctx context.Context, id uint) (domain.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return domain.Role{}, repository.ErrRoleNotFound
	}

	return role, nil
}

func (r *fakeGroupRepo) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	for _, role := range r.roles {
		if role.Name == name {
			return role, nil
		}
	}

	return domain.Role{}, repository.ErrRoleNotFound
}

func (r *fakeGroupRepo) FindAllRoles(ctx context.Context) ([]domain.Role, error) {
	var all []domain.Role
	for id := uint(1); id <= uint(len(r.roles)); id++ {
		if role, ok := r.roles[id]; ok {
			all = append(all, role)
		}
	}

	return all, nil
}

func (r *fakeGroupRepo) CreateGroup(ctx context.Context, group domain.UserGroup) (domain.UserGroup, error) {
	for _, g := range r.groups {
		if g.Name == group.Name {
			return domain.UserGroup{}, repository.ErrGroupNameExists
		}
	}

	group.ID = r.nextGroupID
	r.nextGroupID++
	r.groups[group.ID] = group

	return group, nil
}

func (r *fakeGroupRepo) FindGroupByID(ctx context.Context, id uint) (domain.UserGroup, error) {
	group, ok := r.groups[id]
	if !ok {
		return domain.UserGroup{}, repository.ErrGroupNotFound
	}

	return group, nil
}

func (r *fakeGroupRepo) FindGroupPage(ctx context.Context, offset, limit int) ([]domain.UserGroup, int64, error) {
	var all []domain.UserGroup
	for id := uint(1); id < r.nextGroupID; id++ {
		if g, ok := r.groups[id]; ok {
			all = append(all, g)
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}

func (r *fakeGroupRepo) DeleteGroup(ctx context.Context, id uint) error {
	if _, ok := r.groups[id]; !ok {
		return repository.ErrGroupNotFound
	}
	delete(r.groups, id)

	return nil
}

func TestManagerService_CreateManager(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	groupRepo := newFakeGroupRepo()
	svc := NewManagerService(userRepo, groupRepo)

	admin := adminActor()

	group, err := svc.CreateGroup(ctx, admin, "keepers")
	require.NoError(t, err)

	t.Run("EditorRejected", func(t *testing.T) {
		_, err := svc.CreateManager(ctx, editorActor(group.ID), CreateManagerInput{
			Email:    "mod@campus.test",
			Password: "pass1234",
			RoleID:   2,
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, err := svc.CreateManager(ctx, admin, CreateManagerInput{
			Email:    "mod@campus.test",
			Password: "pass1234",
			RoleID:   42,
		})
		assert.ErrorIs(t, err, ErrRoleNotFound)
	})

	t.Run("UnknownGroup", func(t *testing.T) {
		groupID := uint(42)
		_, err := svc.CreateManager(ctx, admin, CreateManagerInput{
			Email:    "mod@campus.test",
			Password: "pass1234",
			RoleID:   2,
			GroupID:  &groupID,
		})
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("CreatesConfirmedAccount", func(t *testing.T) {
		created, err := svc.CreateManager(ctx, admin, CreateManagerInput{
			Email:    "mod@campus.test",
			Password: "pass1234",
			Nickname: "mod",
			RoleID:   2,
			GroupID:  &group.ID,
		})
		require.NoError(t, err)
		assert.True(t, created.EmailConfirmed)
		require.NotNil(t, created.Role)
		assert.Equal(t, "Moderator", created.Role.Name)
		require.NotNil(t, created.Group)
		assert.Equal(t, "keepers", created.Group.Name)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("pass1234")))
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.CreateManager(ctx, admin, CreateManagerInput{
			Email:    "mod@campus.test",
			Password: "pass1234",
			RoleID:   2,
		})
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestManagerService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	svc := NewManagerService(userRepo, newFakeGroupRepo())

	admin := adminActor()

	created, err := svc.CreateManager(ctx, admin, CreateManagerInput{
		Email:    "mod@campus.test",
		Password: "pass1234",
		Nickname: "mod",
		RoleID:   2,
	})
	require.NoError(t, err)

	t.Run("UpdateSwapsRoleAndClearsGroup", func(t *testing.T) {
		updated, err := svc.UpdateManager(ctx, admin, UpdateManagerInput{
			ID:       created.ID,
			Nickname: "renamed",
			RoleID:   1,
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Nickname)
		require.NotNil(t, updated.Role)
		assert.Equal(t, "Administrator", updated.Role.Name)
		assert.Nil(t, updated.Group)
	})

	t.Run("SelfDeleteRefused", func(t *testing.T) {
		err := svc.DeleteManager(ctx, admin, admin.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteManager(ctx, admin, created.ID))

		_, err := svc.GetManager(ctx, admin, created.ID)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestManagerService_Groups(t *testing.T) {
	ctx := context.Background()
	svc := NewManagerService(newFakeUserRepo(), newFakeGroupRepo())

	admin := adminActor()

	group, err := svc.CreateGroup(ctx, admin, "keepers")
	require.NoError(t, err)
	assert.NotZero(t, group.ID)

	t.Run("DuplicateName", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, admin, "keepers")
		assert.ErrorIs(t, err, ErrGroupNameExists)
	})

	t.Run("ListPage", func(t *testing.T) {
		groups, total, err := svc.ListGroups(ctx, admin, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, groups, 1)
	})

	t.Run("NonAdminRejected", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, editorActor(group.ID), "others")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.ListRoles(ctx, viewerActor(nil))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		err := svc.DeleteGroup(ctx, admin, 99)
		assert.ErrorIs(t, err, ErrGroupNotFound)
	})

	t.Run("ListRoles", func(t *testing.T) {
		roles, err := svc.ListRoles(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, roles, 3)
	})
}
