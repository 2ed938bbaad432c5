package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

type fakeRewardLedger struct {
	mu      sync.Mutex
	nextID  uint
	rewards map[uint]domain.Reward
	grants  []domain.UserReward
}

func newFakeRewardLedger(rewards ...domain.Reward) *fakeRewardLedger {
	ledger := &fakeRewardLedger{
		nextID:  1,
		rewards: make(map[uint]domain.Reward),
	}
	for _, r := range rewards {
		ledger.rewards[r.ID] = r
	}

	return ledger
}

func (l *fakeRewardLedger) FindByID(ctx context.Context, id uint) (domain.Reward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reward, ok := l.rewards[id]
	if !ok {
		return domain.Reward{}, repository.ErrRewardNotFound
	}

	return reward, nil
}

func (l *fakeRewardLedger) Grant(ctx context.Context, userID, rewardID uint) (domain.UserReward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	grant := domain.UserReward{
		ID:        l.nextID,
		UserID:    userID,
		RewardID:  rewardID,
		Timestamp: time.Now(),
	}
	l.nextID++
	l.grants = append(l.grants, grant)

	return grant, nil
}

func (l *fakeRewardLedger) FindGrantsByUserID(ctx context.Context, userID uint) ([]domain.UserReward, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var grants []domain.UserReward
	for _, g := range l.grants {
		if g.UserID == userID {
			grants = append(grants, g)
		}
	}

	return grants, nil
}

type fakeStationFinder struct {
	stations map[uint]domain.Station
}

func (f *fakeStationFinder) FindByID(ctx context.Context, id uint) (domain.Station, error) {
	station, ok := f.stations[id]
	if !ok {
		return domain.Station{}, repository.ErrStationNotFound
	}

	return station, nil
}

func seedUser(t *testing.T, repo *fakeUserRepo, email string) domain.User {
	t.Helper()

	user, err := repo.Create(context.Background(), domain.User{
		Email:          email,
		EmailConfirmed: true,
	})
	require.NoError(t, err)

	return user
}

func TestUserService_Counters(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := NewUserService(repo, newFakeRewardLedger(), &fakeStationFinder{})

	user := seedUser(t, repo, "visitor@campus.test")

	t.Run("UpdateCoins", func(t *testing.T) {
		coins, err := svc.UpdateCoins(ctx, user.Email, 120)
		require.NoError(t, err)
		assert.Equal(t, 120, coins)

		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 120, stored.EarnedCoins)
	})

	t.Run("NegativeCoinsRejected", func(t *testing.T) {
		_, err := svc.UpdateCoins(ctx, user.Email, -1)
		assert.ErrorIs(t, err, ErrNegativeValue)
	})

	t.Run("UpdateExperiencePoint", func(t *testing.T) {
		points, err := svc.UpdateExperiencePoint(ctx, user.Email, 300)
		require.NoError(t, err)
		assert.Equal(t, 300, points)
	})

	t.Run("NegativeExperienceRejected", func(t *testing.T) {
		_, err := svc.UpdateExperiencePoint(ctx, user.Email, -5)
		assert.ErrorIs(t, err, ErrNegativeValue)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.UpdateCoins(ctx, "ghost@campus.test", 10)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_GrantReward(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	ledger := newFakeRewardLedger(domain.Reward{ID: 5, Name: "sticker"})
	svc := NewUserService(repo, ledger, &fakeStationFinder{})

	user := seedUser(t, repo, "visitor@campus.test")

	t.Run("UnknownReward", func(t *testing.T) {
		_, err := svc.GrantReward(ctx, user.Email, 99)
		assert.ErrorIs(t, err, ErrRewardNotFound)
	})

	t.Run("AppendsLedgerRow", func(t *testing.T) {
		ids, err := svc.GrantReward(ctx, user.Email, 5)
		require.NoError(t, err)
		assert.Equal(t, []uint{5}, ids)
	})

	t.Run("RepeatGrantAddsAnotherRow", func(t *testing.T) {
		ids, err := svc.GrantReward(ctx, user.Email, 5)
		require.NoError(t, err)
		assert.Equal(t, []uint{5, 5}, ids)
	})
}

func TestUserService_FavoriteStations(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	stations := &fakeStationFinder{stations: map[uint]domain.Station{
		3: {ID: 3, Name: "Library"},
		7: {ID: 7, Name: "Fountain"},
	}}
	svc := NewUserService(repo, newFakeRewardLedger(), stations)

	user := seedUser(t, repo, "visitor@campus.test")

	t.Run("Add", func(t *testing.T) {
		ids, err := svc.AddFavoriteStation(ctx, user.Email, 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{3}, ids)
	})

	t.Run("AddSecond", func(t *testing.T) {
		ids, err := svc.AddFavoriteStation(ctx, user.Email, 7)
		require.NoError(t, err)
		assert.Equal(t, []uint{3, 7}, ids)
	})

	t.Run("AddUnknownStation", func(t *testing.T) {
		_, err := svc.AddFavoriteStation(ctx, user.Email, 99)
		assert.ErrorIs(t, err, ErrStationNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		ids, err := svc.RemoveFavoriteStation(ctx, user.Email, 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{7}, ids)
	})

	t.Run("RemoveAbsentIsNoOp", func(t *testing.T) {
		ids, err := svc.RemoveFavoriteStation(ctx, user.Email, 3)
		require.NoError(t, err)
		assert.Equal(t, []uint{7}, ids)
	})
}

func TestUserService_GetProfile(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	ledger := newFakeRewardLedger(domain.Reward{ID: 5})
	stations := &fakeStationFinder{stations: map[uint]domain.Station{3: {ID: 3}}}
	svc := NewUserService(repo, ledger, stations)

	user := seedUser(t, repo, "visitor@campus.test")
	user.Nickname = "visitor"
	user.EarnedCoins = 40
	user.ExperiencePoint = 90
	_, err := repo.Update(ctx, user)
	require.NoError(t, err)

	_, err = svc.GrantReward(ctx, user.Email, 5)
	require.NoError(t, err)
	_, err = svc.AddFavoriteStation(ctx, user.Email, 3)
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, "visitor", profile.Nickname)
	assert.Equal(t, 40, profile.Coins)
	assert.Equal(t, 90, profile.ExperiencePoint)
	assert.Equal(t, []uint{5}, profile.RewardIDs)
	assert.Equal(t, []uint{3}, profile.FavoriteStations)
}
