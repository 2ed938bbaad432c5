package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/request"
	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/service"
)

type AppStationService interface {
	ListAll(ctx context.Context) ([]domain.Station, error)
	ImageURL(path string) string
}

type AppRewardService interface {
	ListAll(ctx context.Context) ([]domain.Reward, error)
	ImageURL(path string) string
}

type AppTravelPlanService interface {
	ListAll(ctx context.Context) ([]domain.TravelPlan, error)
	ImageURL(path string) string
}

type AppBeaconService interface {
	LinkedStations(ctx context.Context, beaconID, email string) ([]uint, error)
}

type AppQuizService interface {
	PickUnanswered(ctx context.Context, stationID uint, email string) (service.Quiz, error)
	RecordAnswer(ctx context.Context, email string, questionID uint) error
}

type AppUserService interface {
	UpdateCoins(ctx context.Context, email string, coins int) (int, error)
	UpdateExperiencePoint(ctx context.Context, email string, points int) (int, error)
	GrantReward(ctx context.Context, email string, rewardID uint) ([]uint, error)
	AddFavoriteStation(ctx context.Context, email string, stationID uint) ([]uint, error)
	RemoveFavoriteStation(ctx context.Context, email string, stationID uint) ([]uint, error)
}

// AppHandler serves the endpoints the mobile guide consumes.
type AppHandler struct {
	stations    AppStationService
	rewards     AppRewardService
	travelPlans AppTravelPlanService
	beacons     AppBeaconService
	quiz        AppQuizService
	users       AppUserService
}

func NewAppHandler(
	stations AppStationService,
	rewards AppRewardService,
	travelPlans AppTravelPlanService,
	beacons AppBeaconService,
	quiz AppQuizService,
	users AppUserService,
) *AppHandler {
	return &AppHandler{
		stations:    stations,
		rewards:     rewards,
		travelPlans: travelPlans,
		beacons:     beacons,
		quiz:        quiz,
		users:       users,
	}
}

// HandleGetAllStations godoc
// @Summary      List every station
// @Tags         app
// @Produce      json
// @Success      200 {array}  response.Station
// @Failure      500 {object} response.Err
// @Router       /get_all_stations [get]
func (h *AppHandler) HandleGetAllStations(ctx *gin.Context) {
	stations, err := h.stations.ListAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAllStations -> h.stations.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	rewards, err := h.rewards.ListAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAllStations -> h.rewards.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	rewardsByStation := make(map[uint][]uint)
	for _, r := range rewards {
		if r.RelatedStationID != nil {
			rewardsByStation[*r.RelatedStationID] = append(rewardsByStation[*r.RelatedStationID], r.ID)
		}
	}

	ctx.JSON(http.StatusOK, response.BuildStations(stations, rewardsByStation, h.stations.ImageURL))
}

// HandleGetAllRewards godoc
// @Summary      List every reward
// @Tags         app
// @Produce      json
// @Success      200 {array}  response.Reward
// @Failure      500 {object} response.Err
// @Router       /get_all_rewards [get]
func (h *AppHandler) HandleGetAllRewards(ctx *gin.Context) {
	rewards, err := h.rewards.ListAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAllRewards -> h.rewards.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BuildRewards(rewards, h.rewards.ImageURL))
}

// HandleGetAllTravelPlans godoc
// @Summary      List every travel plan with its ordered stations
// @Tags         app
// @Produce      json
// @Success      200 {array}  response.TravelPlan
// @Failure      500 {object} response.Err
// @Router       /get_all_travel_plans [get]
func (h *AppHandler) HandleGetAllTravelPlans(ctx *gin.Context) {
	plans, err := h.travelPlans.ListAll(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetAllTravelPlans -> h.travelPlans.ListAll -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.BuildTravelPlans(plans, h.travelPlans.ImageURL))
}

// HandleGetLinkedStations godoc
// @Summary      Resolve a sighted beacon to its station ids
// @Description  Records the sighting as a beacon visit for the user.
// @Tags         app
// @Produce      json
// @Param        request  body      request.LinkedStationsRequest true "request body"
// @Success      200 {object} map[string][]uint
// @Failure      404 {object} response.Err
// @Router       /get_linked_stations [post]
// @Security BearerAuth
func (h *AppHandler) HandleGetLinkedStations(ctx *gin.Context) {
	var req request.LinkedStationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	ids, err := h.beacons.LinkedStations(ctx.Request.Context(), req.BeaconID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
		case errors.Is(err, service.ErrStationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("station", "beaconID", req.BeaconID))
		default:
			err = fmt.Errorf("v1.HandleGetLinkedStations -> h.beacons.LinkedStations -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"station_ids": ids})
}

// HandleGetUnansweredQuestion godoc
// @Summary      Draw a random unanswered question for a station
// @Description  Returns an empty object when the user exhausted the pool.
// @Tags         app
// @Produce      json
// @Param        station_id  query int    true "station id"
// @Param        email       query string true "user email"
// @Success      200 {object} service.Quiz
// @Failure      404 {object} response.Err
// @Router       /get_unanswered_question [get]
// @Security BearerAuth
func (h *AppHandler) HandleGetUnansweredQuestion(ctx *gin.Context) {
	stationID, err := strconv.ParseUint(ctx.Query("station_id"), 10, 32)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	email := ctx.Query("email")
	if email == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("email is required")))
		return
	}

	quiz, err := h.quiz.PickUnanswered(ctx.Request.Context(), uint(stationID), email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoQuestionLeft):
			ctx.JSON(http.StatusOK, gin.H{})
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", email))
		default:
			err = fmt.Errorf("v1.HandleGetUnansweredQuestion -> h.quiz.PickUnanswered -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, quiz)
}

// HandleAddAnsweredQuestion godoc
// @Summary      Mark a question answered for the user
// @Tags         app
// @Produce      json
// @Param        request  body      request.AnsweredQuestionRequest true "request body"
// @Success      200 {object} map[string]string
// @Failure      404 {object} response.Err
// @Router       /add_answered_question [post]
// @Security BearerAuth
func (h *AppHandler) HandleAddAnsweredQuestion(ctx *gin.Context) {
	var req request.AnsweredQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.quiz.RecordAnswer(ctx.Request.Context(), req.Email, req.QuestionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
		case errors.Is(err, service.ErrQuestionNotFound):
			response.RenderErr(ctx, response.ErrNotFound("question", "questionID", req.QuestionID))
		default:
			err = fmt.Errorf("v1.HandleAddAnsweredQuestion -> h.quiz.RecordAnswer -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "question recorded"})
}

// HandleUpdateUserCoins godoc
// @Summary      Set the user's coin counter
// @Tags         app
// @Produce      json
// @Param        request  body      request.UpdateCoinsRequest true "request body"
// @Success      200 {object} map[string]int
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /update_user_coins [post]
// @Security BearerAuth
func (h *AppHandler) HandleUpdateUserCoins(ctx *gin.Context) {
	var req request.UpdateCoinsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	coins, err := h.users.UpdateCoins(ctx.Request.Context(), req.Email, req.Coins)
	if err != nil {
		h.renderUserUpdateErr(ctx, "v1.HandleUpdateUserCoins", req.Email, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"coins": coins})
}

// HandleUpdateUserExperiencePoint godoc
// @Summary      Set the user's experience counter
// @Tags         app
// @Produce      json
// @Param        request  body      request.UpdateExperiencePointRequest true "request body"
// @Success      200 {object} map[string]int
// @Failure      400 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /update_user_experience_point [post]
// @Security BearerAuth
func (h *AppHandler) HandleUpdateUserExperiencePoint(ctx *gin.Context) {
	var req request.UpdateExperiencePointRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	points, err := h.users.UpdateExperiencePoint(ctx.Request.Context(), req.Email, req.ExperiencePoint)
	if err != nil {
		h.renderUserUpdateErr(ctx, "v1.HandleUpdateUserExperiencePoint", req.Email, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"experience_point": points})
}

// HandleAddUserReward godoc
// @Summary      Grant a reward to the user
// @Tags         app
// @Produce      json
// @Param        request  body      request.GrantRewardRequest true "request body"
// @Success      200 {object} map[string][]uint
// @Failure      404 {object} response.Err
// @Router       /add_user_reward [post]
// @Security BearerAuth
func (h *AppHandler) HandleAddUserReward(ctx *gin.Context) {
	var req request.GrantRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rewardIDs, err := h.users.GrantReward(ctx.Request.Context(), req.Email, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
		case errors.Is(err, service.ErrRewardNotFound):
			response.RenderErr(ctx, response.ErrNotFound("reward", "rewardID", req.RewardID))
		default:
			err = fmt.Errorf("v1.HandleAddUserReward -> h.users.GrantReward -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"rewards": rewardIDs})
}

// HandleAddUserFavoriteStation godoc
// @Summary      Add a station to the user's favorites
// @Tags         app
// @Produce      json
// @Param        request  body      request.FavoriteStationRequest true "request body"
// @Success      200 {object} map[string][]uint
// @Failure      404 {object} response.Err
// @Router       /add_user_favorite_stations [post]
// @Security BearerAuth
func (h *AppHandler) HandleAddUserFavoriteStation(ctx *gin.Context) {
	var req request.FavoriteStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	favorites, err := h.users.AddFavoriteStation(ctx.Request.Context(), req.Email, req.StationID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
		case errors.Is(err, service.ErrStationNotFound):
			response.RenderErr(ctx, response.ErrNotFound("station", "stationID", req.StationID))
		default:
			err = fmt.Errorf("v1.HandleAddUserFavoriteStation -> h.users.AddFavoriteStation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"favorite_stations": favorites})
}

// HandleRemoveUserFavoriteStation godoc
// @Summary      Remove a station from the user's favorites
// @Description  Removing a station that is not a favorite succeeds.
// @Tags         app
// @Produce      json
// @Param        request  body      request.FavoriteStationRequest true "request body"
// @Success      200 {object} map[string][]uint
// @Failure      404 {object} response.Err
// @Router       /remove_user_favorite_stations [post]
// @Security BearerAuth
func (h *AppHandler) HandleRemoveUserFavoriteStation(ctx *gin.Context) {
	var req request.FavoriteStationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	favorites, err := h.users.RemoveFavoriteStation(ctx.Request.Context(), req.Email, req.StationID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveUserFavoriteStation -> h.users.RemoveFavoriteStation -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"favorite_stations": favorites})
}

func (h *AppHandler) renderUserUpdateErr(ctx *gin.Context, op, email string, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound("user", "email", email))
	case errors.Is(err, service.ErrNegativeValue):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrNegativeValue))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
