package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/repository"
)

var (
	ErrRewardNotFound = repository.ErrRewardNotFound
	ErrNegativeValue  = errors.New("value must not be negative")
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindPage(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id uint) error
	UpdateCoins(ctx context.Context, id uint, coins int) error
	UpdateExperiencePoint(ctx context.Context, id uint, points int) error
	AddFavoriteStation(ctx context.Context, userID, stationID uint) error
	RemoveFavoriteStation(ctx context.Context, userID, stationID uint) error
	FindFavoriteStationIDs(ctx context.Context, userID uint) ([]uint, error)
}

type UserRewardRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Reward, error)
	Grant(ctx context.Context, userID, rewardID uint) (domain.UserReward, error)
	FindGrantsByUserID(ctx context.Context, userID uint) ([]domain.UserReward, error)
}

type UserStationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Station, error)
}

// Profile is the payload the app receives on login.
type Profile struct {
	Nickname         string `json:"nickname"`
	ExperiencePoint  int    `json:"experience_point"`
	Coins            int    `json:"coins"`
	RewardIDs        []uint `json:"rewards"`
	FavoriteStations []uint `json:"favorite_stations"`
}

type UserService struct {
	repo        UserRepository
	rewardRepo  UserRewardRepository
	stationRepo UserStationRepository
}

func NewUserService(repo UserRepository, rewardRepo UserRewardRepository, stationRepo UserStationRepository) *UserService {
	return &UserService{
		repo:        repo,
		rewardRepo:  rewardRepo,
		stationRepo: stationRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return user, nil
}

// GetProfile assembles the login payload: counters plus the reward
// ledger (ordered by grant time) and favorite station ids.
func (s *UserService) GetProfile(ctx context.Context, user domain.User) (Profile, error) {
	grants, err := s.rewardRepo.FindGrantsByUserID(ctx, user.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("s.rewardRepo.FindGrantsByUserID -> %w", err)
	}

	favorites, err := s.repo.FindFavoriteStationIDs(ctx, user.ID)
	if err != nil {
		return Profile{}, fmt.Errorf("s.repo.FindFavoriteStationIDs -> %w", err)
	}

	rewardIDs := make([]uint, len(grants))
	for i, g := range grants {
		rewardIDs[i] = g.RewardID
	}

	return Profile{
		Nickname:         user.Nickname,
		ExperiencePoint:  user.ExperiencePoint,
		Coins:            user.EarnedCoins,
		RewardIDs:        rewardIDs,
		FavoriteStations: favorites,
	}, nil
}

func (s *UserService) UpdateCoins(ctx context.Context, email string, coins int) (int, error) {
	if coins < 0 {
		return 0, ErrNegativeValue
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := s.repo.UpdateCoins(ctx, user.ID, coins); err != nil {
		return 0, fmt.Errorf("s.repo.UpdateCoins -> %w", err)
	}

	return coins, nil
}

func (s *UserService) UpdateExperiencePoint(ctx context.Context, email string, points int) (int, error) {
	if points < 0 {
		return 0, ErrNegativeValue
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := s.repo.UpdateExperiencePoint(ctx, user.ID, points); err != nil {
		return 0, fmt.Errorf("s.repo.UpdateExperiencePoint -> %w", err)
	}

	return points, nil
}

// GrantReward appends a ledger entry. The same reward may be granted to
// the same user repeatedly.
func (s *UserService) GrantReward(ctx context.Context, email string, rewardID uint) ([]uint, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if _, err := s.rewardRepo.FindByID(ctx, rewardID); err != nil {
		return nil, fmt.Errorf("s.rewardRepo.FindByID -> %w", err)
	}

	if _, err := s.rewardRepo.Grant(ctx, user.ID, rewardID); err != nil {
		return nil, fmt.Errorf("s.rewardRepo.Grant -> %w", err)
	}

	grants, err := s.rewardRepo.FindGrantsByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("s.rewardRepo.FindGrantsByUserID -> %w", err)
	}

	rewardIDs := make([]uint, len(grants))
	for i, g := range grants {
		rewardIDs[i] = g.RewardID
	}

	return rewardIDs, nil
}

func (s *UserService) AddFavoriteStation(ctx context.Context, email string, stationID uint) ([]uint, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if _, err := s.stationRepo.FindByID(ctx, stationID); err != nil {
		return nil, fmt.Errorf("s.stationRepo.FindByID -> %w", err)
	}

	if err := s.repo.AddFavoriteStation(ctx, user.ID, stationID); err != nil {
		return nil, fmt.Errorf("s.repo.AddFavoriteStation -> %w", err)
	}

	return s.favoriteIDs(ctx, user.ID)
}

// RemoveFavoriteStation is a no-op success when the station was not a
// favorite to begin with.
func (s *UserService) RemoveFavoriteStation(ctx context.Context, email string, stationID uint) ([]uint, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := s.repo.RemoveFavoriteStation(ctx, user.ID, stationID); err != nil {
		return nil, fmt.Errorf("s.repo.RemoveFavoriteStation -> %w", err)
	}

	return s.favoriteIDs(ctx, user.ID)
}

func (s *UserService) favoriteIDs(ctx context.Context, userID uint) ([]uint, error) {
	favorites, err := s.repo.FindFavoriteStationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindFavoriteStationIDs -> %w", err)
	}

	return favorites, nil
}
