package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

type fakeRewardRepo struct {
	nextID  uint
	rewards map[uint]domain.Reward
}

func newFakeRewardRepo() *fakeRewardRepo {
	return &fakeRewardRepo{
		nextID:  1,
		rewards: make(map[uint]domain.Reward),
	}
}

func (r *fakeRewardRepo) Create(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	reward.ID = r.nextID
	r.nextID++
	r.rewards[reward.ID] = reward

	return reward, nil
}

func (r *fakeRewardRepo) FindByID(ctx context.Context, id uint) (domain.Reward, error) {
	reward, ok := r.rewards[id]
	if !ok {
		return domain.Reward{}, repository.ErrRewardNotFound
	}

	return reward, nil
}

func (r *fakeRewardRepo) FindAll(ctx context.Context) ([]domain.Reward, error) {
	var all []domain.Reward
	for id := uint(1); id < r.nextID; id++ {
		if reward, ok := r.rewards[id]; ok {
			all = append(all, reward)
		}
	}

	return all, nil
}

func (r *fakeRewardRepo) FindPage(ctx context.Context, offset, limit int) ([]domain.Reward, int64, error) {
	all, _ := r.FindAll(ctx)

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

func (r *fakeRewardRepo) Update(ctx context.Context, reward domain.Reward) (domain.Reward, error) {
	if _, ok := r.rewards[reward.ID]; !ok {
		return domain.Reward{}, repository.ErrRewardNotFound
	}
	r.rewards[reward.ID] = reward

	return reward, nil
}

func (r *fakeRewardRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.rewards[id]; !ok {
		return repository.ErrRewardNotFound
	}
	delete(r.rewards, id)

	return nil
}

func TestRewardService_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRewardRepo()
	svc := NewRewardService(repo, &fakeImageStore{})

	admin := adminActor()

	t.Run("ViewerCannotCreate", func(t *testing.T) {
		_, err := svc.Create(ctx, viewerActor(nil), domain.Reward{Name: "sticker"}, nil)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	stationID := uint(3)
	created, err := svc.Create(ctx, admin, domain.Reward{
		Name:             "sticker",
		Description:      "visit the library",
		RelatedStationID: &stationID,
	}, uploads(1)[0])
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.ImagePath)

	t.Run("UpdateKeepsImageWhenNoneUploaded", func(t *testing.T) {
		created.Description = "revised"
		updated, err := svc.Update(ctx, admin, created, nil)
		require.NoError(t, err)
		assert.Equal(t, "revised", updated.Description)
		assert.Equal(t, created.ImagePath, updated.ImagePath)
	})

	t.Run("UpdateUnknownReward", func(t *testing.T) {
		_, err := svc.Update(ctx, admin, domain.Reward{ID: 99}, nil)
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})

	t.Run("ListAllForApp", func(t *testing.T) {
		rewards, err := svc.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, rewards, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, admin, created.ID))

		_, err := svc.Get(ctx, admin, created.ID)
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})
}
