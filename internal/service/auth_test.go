package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/pkg/acctoken"
	"github.com/rapirent/smart-campus/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID uint
	users  map[uint]domain.User

	favorites map[uint][]uint
	answered  map[uint][]uint
	visited   map[uint][]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID:    100,
		users:     make(map[uint]domain.User),
		favorites: make(map[uint][]uint),
		answered:  make(map[uint][]uint),
		visited:   make(map[uint][]string),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user

	return user, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindPage(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []domain.User
	for id := uint(1); id < r.nextID; id++ {
		if u, ok := r.users[id]; ok {
			all = append(all, u)
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

func (r *fakeUserRepo) Update(ctx context.Context, user domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	r.users[user.ID] = user

	return user, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)

	return nil
}

func (r *fakeUserRepo) UpdateCoins(ctx context.Context, id uint, coins int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.EarnedCoins = coins
	r.users[id] = user

	return nil
}

func (r *fakeUserRepo) UpdateExperiencePoint(ctx context.Context, id uint, points int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.ExperiencePoint = points
	r.users[id] = user

	return nil
}

func (r *fakeUserRepo) AddFavoriteStation(ctx context.Context, userID, stationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.favorites[userID] {
		if id == stationID {
			return nil
		}
	}
	r.favorites[userID] = append(r.favorites[userID], stationID)

	return nil
}

func (r *fakeUserRepo) RemoveFavoriteStation(ctx context.Context, userID, stationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.favorites[userID]
	for i, id := range ids {
		if id == stationID {
			r.favorites[userID] = append(ids[:i], ids[i+1:]...)

			return nil
		}
	}

	return nil
}

func (r *fakeUserRepo) FindFavoriteStationIDs(ctx context.Context, userID uint) ([]uint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]uint(nil), r.favorites[userID]...), nil
}

type fakeRoleRepo struct {
	roles map[string]domain.Role
}

func (r *fakeRoleRepo) FindRoleByName(ctx context.Context, name string) (domain.Role, error) {
	role, ok := r.roles[name]
	if !ok {
		return domain.Role{}, ErrRoleNotFound
	}

	return role, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)

	return nil
}

func newTestAuthService(repo *fakeUserRepo) (*AuthService, *acctoken.Generator) {
	tokens := acctoken.NewGenerator([]byte("test-secret"))
	roleRepo := &fakeRoleRepo{roles: map[string]domain.Role{
		"User": {ID: 3, Name: "User", Capabilities: domain.NewCapabilitySet()},
	}}
	svc := NewAuthService(repo, roleRepo, tokens, &fakeMailer{}, "http://localhost:8080/api/v1")
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC) }

	return svc, tokens
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	created, err := svc.Signup(ctx, "visitor@campus.test", "pass1234", "visitor")
	require.NoError(t, err)
	assert.Equal(t, "visitor@campus.test", created.Email)
	assert.Equal(t, "visitor", created.Nickname)
	assert.False(t, created.EmailConfirmed)
	require.NotNil(t, created.Role)
	assert.Equal(t, "User", created.Role.Name)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("pass1234")))

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.Signup(ctx, "visitor@campus.test", "pass1234", "other")
		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestAuthService_Activate(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc, tokens := newTestAuthService(repo)

	user, err := repo.Create(ctx, domain.User{
		Email:    "visitor@campus.test",
		Password: hashPassword(t, "pass1234"),
	})
	require.NoError(t, err)

	token := tokens.Generate(acctoken.PurposeActivate, user.ID, user.Password, user.LastLogin, svc.now())

	t.Run("InvalidToken", func(t *testing.T) {
		err := svc.Activate(ctx, user.ID, "bogus")
		assert.ErrorIs(t, err, ErrActivationInvalid)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		err := svc.Activate(ctx, 999, token)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("Activates", func(t *testing.T) {
		require.NoError(t, svc.Activate(ctx, user.ID, token))

		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.EmailConfirmed)
	})

	t.Run("SecondUseRejected", func(t *testing.T) {
		err := svc.Activate(ctx, user.ID, token)
		assert.ErrorIs(t, err, ErrAlreadyActivated)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := repo.Create(ctx, domain.User{
		Email:          "visitor@campus.test",
		Password:       hashPassword(t, "pass1234"),
		EmailConfirmed: true,
	})
	require.NoError(t, err)

	t.Run("Succeeds", func(t *testing.T) {
		logged, err := svc.Login(ctx, "visitor@campus.test", "pass1234")
		require.NoError(t, err)
		assert.Equal(t, user.ID, logged.ID)
		require.NotNil(t, logged.LastLogin)
		assert.Equal(t, svc.now(), *logged.LastLogin)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, "visitor@campus.test", "nope1234")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@campus.test", "pass1234")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("NotActivated", func(t *testing.T) {
		_, err := repo.Create(ctx, domain.User{
			Email:    "pending@campus.test",
			Password: hashPassword(t, "pass1234"),
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, "pending@campus.test", "pass1234")
		assert.ErrorIs(t, err, ErrAccountNotActive)
	})
}

func TestAuthService_ConfirmPasswordReset(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc, tokens := newTestAuthService(repo)

	user, err := repo.Create(ctx, domain.User{
		Email:          "visitor@campus.test",
		Password:       hashPassword(t, "oldpass12"),
		EmailConfirmed: true,
	})
	require.NoError(t, err)

	token := tokens.Generate(acctoken.PurposeResetPassword, user.ID, user.Password, user.LastLogin, svc.now())

	t.Run("ActivationTokenRejected", func(t *testing.T) {
		wrong := tokens.Generate(acctoken.PurposeActivate, user.ID, user.Password, user.LastLogin, svc.now())
		err := svc.ConfirmPasswordReset(ctx, user.ID, wrong, "newpass12")
		assert.ErrorIs(t, err, ErrActivationInvalid)
	})

	t.Run("SetsNewPassword", func(t *testing.T) {
		require.NoError(t, svc.ConfirmPasswordReset(ctx, user.ID, token, "newpass12"))

		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass12")))
	})

	t.Run("TokenDeadAfterPasswordChange", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(ctx, user.ID, token, "another12")
		assert.ErrorIs(t, err, ErrActivationInvalid)
	})
}
