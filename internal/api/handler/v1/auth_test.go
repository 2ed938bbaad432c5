package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapirent/smart-campus/internal/config"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/pkg/jwthelper"
	"github.com/rapirent/smart-campus/internal/service"
)

type stubAuthService struct {
	signup   func(ctx context.Context, email, password, nickname string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (domain.User, error)
	activate func(ctx context.Context, userID uint, token string) error
}

func (s *stubAuthService) Signup(ctx context.Context, email, password, nickname string) (domain.User, error) {
	return s.signup(ctx, email, password, nickname)
}

func (s *stubAuthService) Activate(ctx context.Context, userID uint, token string) error {
	return s.activate(ctx, userID, token)
}

func (s *stubAuthService) ResendActivation(ctx context.Context, email string) error {
	return nil
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	return s.login(ctx, email, password)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return nil
}

func (s *stubAuthService) ConfirmPasswordReset(ctx context.Context, userID uint, token, newPassword string) error {
	return nil
}

type stubProfileService struct {
	profile service.Profile
	err     error
}

func (s *stubProfileService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, s.err
}

func (s *stubProfileService) GetProfile(ctx context.Context, user domain.User) (service.Profile, error) {
	return s.profile, s.err
}

func testAPIConfig() *config.APIConfig {
	return &config.APIConfig{JWTSigningKey: "test-signing-key"}
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestAuthHandler_HandleSignup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &stubAuthService{
		signup: func(ctx context.Context, email, password, nickname string) (domain.User, error) {
			return domain.User{ID: 1, Email: email, Nickname: nickname}, nil
		},
	}
	handler := NewAuthHandler(testAPIConfig(), svc, &stubProfileService{})

	router := gin.New()
	router.POST("/signup", handler.HandleSignup)

	t.Run("Created", func(t *testing.T) {
		rec := postJSON(t, router, "/signup", gin.H{
			"email":            "visitor@campus.test",
			"password":         "pass1234",
			"confirm_password": "pass1234",
			"nickname":         "visitor",
		})
		assert.Equal(t, http.StatusCreated, rec.Code)

		var user domain.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		rec := postJSON(t, router, "/signup", gin.H{
			"email":            "visitor@campus.test",
			"password":         "short",
			"confirm_password": "short",
			"nickname":         "visitor",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc.signup = func(ctx context.Context, email, password, nickname string) (domain.User, error) {
			return domain.User{}, service.ErrUserEmailExists
		}

		rec := postJSON(t, router, "/signup", gin.H{
			"email":            "visitor@campus.test",
			"password":         "pass1234",
			"confirm_password": "pass1234",
			"nickname":         "visitor",
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestAuthHandler_HandleLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &stubAuthService{
		login: func(ctx context.Context, email, password string) (domain.User, error) {
			return domain.User{ID: 7, Email: email}, nil
		},
	}
	profiles := &stubProfileService{profile: service.Profile{
		Nickname:         "visitor",
		Coins:            40,
		RewardIDs:        []uint{5},
		FavoriteStations: []uint{3},
	}}
	handler := NewAuthHandler(testAPIConfig(), svc, profiles)

	router := gin.New()
	router.POST("/login", handler.HandleLogin)

	t.Run("ReturnsTokenAndFlatProfile", func(t *testing.T) {
		rec := postJSON(t, router, "/login", gin.H{
			"email":    "visitor@campus.test",
			"password": "pass1234",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		// The profile counters sit next to the token, not under a
		// nested object.
		var body struct {
			Token            string `json:"token"`
			Nickname         string `json:"nickname"`
			Coins            int    `json:"coins"`
			Rewards          []uint `json:"rewards"`
			FavoriteStations []uint `json:"favorite_stations"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "visitor", body.Nickname)
		assert.Equal(t, 40, body.Coins)
		assert.Equal(t, []uint{5}, body.Rewards)
		assert.Equal(t, []uint{3}, body.FavoriteStations)

		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.NotContains(t, raw, "profile")

		claims, err := jwthelper.ParseToken([]byte("test-signing-key"), body.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc.login = func(ctx context.Context, email, password string) (domain.User, error) {
			return domain.User{}, service.ErrWrongPassword
		}

		rec := postJSON(t, router, "/login", gin.H{
			"email":    "visitor@campus.test",
			"password": "wrong123",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("NotActivated", func(t *testing.T) {
		svc.login = func(ctx context.Context, email, password string) (domain.User, error) {
			return domain.User{}, service.ErrAccountNotActive
		}

		rec := postJSON(t, router, "/login", gin.H{
			"email":    "visitor@campus.test",
			"password": "pass1234",
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("MissingEmail", func(t *testing.T) {
		rec := postJSON(t, router, "/login", gin.H{"password": "pass1234"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandler_HandleActivate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &stubAuthService{
		activate: func(ctx context.Context, userID uint, token string) error {
			if token != "good-token" {
				return service.ErrActivationInvalid
			}
			return nil
		},
	}
	handler := NewAuthHandler(testAPIConfig(), svc, &stubProfileService{})

	router := gin.New()
	router.GET("/activate/:userID/:token", handler.HandleActivate)

	t.Run("Activates", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/activate/7/good-token", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("BadToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/activate/7/bad-token", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NonNumericID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/activate/abc/good-token", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
