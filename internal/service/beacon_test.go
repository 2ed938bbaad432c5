package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

func (r *fakeUserRepo) AddVisitedBeacon(ctx context.Context, userID uint, beaconID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.visited[userID] {
		if id == beaconID {
			return nil
		}
	}
	r.visited[userID] = append(r.visited[userID], beaconID)

	return nil
}

type fakeBeaconRepo struct {
	beacons map[string]domain.Beacon
	order   []string
}

func newFakeBeaconRepo() *fakeBeaconRepo {
	return &fakeBeaconRepo{beacons: make(map[string]domain.Beacon)}
}

func (r *fakeBeaconRepo) Create(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error) {
	if _, ok := r.beacons[beacon.BeaconID]; ok {
		return domain.Beacon{}, repository.ErrBeaconExists
	}

	r.beacons[beacon.BeaconID] = beacon
	r.order = append(r.order, beacon.BeaconID)

	return beacon, nil
}

func (r *fakeBeaconRepo) FindByID(ctx context.Context, beaconID string) (domain.Beacon, error) {
	beacon, ok := r.beacons[beaconID]
	if !ok {
		return domain.Beacon{}, repository.ErrBeaconNotFound
	}

	return beacon, nil
}

func (r *fakeBeaconRepo) FindPage(ctx context.Context, groupID *uint, offset, limit int) ([]domain.Beacon, int64, error) {
	var all []domain.Beacon
	for _, id := range r.order {
		b, ok := r.beacons[id]
		if !ok {
			continue
		}
		if groupID != nil && (b.OwnerGroupID == nil || *b.OwnerGroupID != *groupID) {
			continue
		}
		all = append(all, b)
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

func (r *fakeBeaconRepo) Update(ctx context.Context, beacon domain.Beacon) (domain.Beacon, error) {
	if _, ok := r.beacons[beacon.BeaconID]; !ok {
		return domain.Beacon{}, repository.ErrBeaconNotFound
	}
	r.beacons[beacon.BeaconID] = beacon

	return beacon, nil
}

func (r *fakeBeaconRepo) Delete(ctx context.Context, beaconID string) error {
	if _, ok := r.beacons[beaconID]; !ok {
		return repository.ErrBeaconNotFound
	}
	delete(r.beacons, beaconID)

	return nil
}

type fakeBeaconStationRepo struct {
	byBeacon map[string][]domain.Station
}

func (r *fakeBeaconStationRepo) FindByBeaconID(ctx context.Context, beaconID string) ([]domain.Station, error) {
	return r.byBeacon[beaconID], nil
}

func TestBeaconService_LinkedStations(t *testing.T) {
	ctx := context.Background()
	userRepo := newFakeUserRepo()
	stations := &fakeBeaconStationRepo{byBeacon: map[string][]domain.Station{
		"b-1": {{ID: 3}, {ID: 7}},
	}}
	svc := NewBeaconService(newFakeBeaconRepo(), stations, userRepo)

	user := seedUser(t, userRepo, "visitor@campus.test")

	t.Run("ReturnsIDsAndRecordsVisit", func(t *testing.T) {
		ids, err := svc.LinkedStations(ctx, "b-1", user.Email)
		require.NoError(t, err)
		assert.Equal(t, []uint{3, 7}, ids)
		assert.Equal(t, []string{"b-1"}, userRepo.visited[user.ID])
	})

	t.Run("UnknownBeacon", func(t *testing.T) {
		_, err := svc.LinkedStations(ctx, "b-404", user.Email)
		assert.ErrorIs(t, err, ErrStationNotFound)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.LinkedStations(ctx, "b-1", "ghost@campus.test")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestBeaconService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newFakeBeaconRepo()
	svc := NewBeaconService(repo, &fakeBeaconStationRepo{}, newFakeUserRepo())

	admin := adminActor()
	groupA := uint(1)
	editor := editorActor(groupA)

	t.Run("AdminCreatesForAnyGroup", func(t *testing.T) {
		groupB := uint(2)
		created, err := svc.Create(ctx, admin, domain.Beacon{
			BeaconID:     "b-1",
			Name:         "gate",
			OwnerGroupID: &groupB,
		})
		require.NoError(t, err)
		require.NotNil(t, created.OwnerGroupID)
		assert.Equal(t, groupB, *created.OwnerGroupID)
	})

	t.Run("DuplicateHardwareID", func(t *testing.T) {
		_, err := svc.Create(ctx, admin, domain.Beacon{BeaconID: "b-1"})
		assert.ErrorIs(t, err, ErrBeaconExists)
	})

	t.Run("EditorCreationOwnedByOwnGroup", func(t *testing.T) {
		created, err := svc.Create(ctx, editor, domain.Beacon{BeaconID: "b-2"})
		require.NoError(t, err)
		require.NotNil(t, created.OwnerGroupID)
		assert.Equal(t, groupA, *created.OwnerGroupID)
	})

	t.Run("EditorCannotTouchForeignBeacon", func(t *testing.T) {
		_, err := svc.Get(ctx, editor, "b-1")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = svc.Update(ctx, editor, domain.Beacon{BeaconID: "b-1"})
		assert.ErrorIs(t, err, ErrForbidden)

		err = svc.Delete(ctx, editor, "b-1")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ViewerReadsOwnGroupBeacon", func(t *testing.T) {
		found, err := svc.Get(ctx, viewerActor(&groupA), "b-2")
		require.NoError(t, err)
		assert.Equal(t, "b-2", found.BeaconID)

		foreign := uint(9)
		_, err = svc.Get(ctx, viewerActor(&foreign), "b-2")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("UpdateKeepsOwner", func(t *testing.T) {
		updated, err := svc.Update(ctx, editor, domain.Beacon{
			BeaconID: "b-2",
			Name:     "renamed",
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", updated.Name)
		require.NotNil(t, updated.OwnerGroupID)
		assert.Equal(t, groupA, *updated.OwnerGroupID)
	})

	t.Run("EditorPageScopedToGroup", func(t *testing.T) {
		beacons, total, err := svc.ListPage(ctx, editor, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, beacons, 1)
		assert.Equal(t, "b-2", beacons[0].BeaconID)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, "b-1"))

		_, err := repo.FindByID(ctx, "b-1")
		assert.ErrorIs(t, err, ErrBeaconNotFound)
	})
}
