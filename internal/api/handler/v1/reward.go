package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/service"
)

type RewardService interface {
	ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Reward, int64, error)
	Get(ctx context.Context, actor domain.User, id uint) (domain.Reward, error)
	Create(ctx context.Context, actor domain.User, reward domain.Reward, image *multipart.FileHeader) (domain.Reward, error)
	Update(ctx context.Context, actor domain.User, reward domain.Reward, image *multipart.FileHeader) (domain.Reward, error)
	Delete(ctx context.Context, actor domain.User, id uint) error
	ImageURL(path string) string
}

type RewardHandler struct {
	svc RewardService
}

func NewRewardHandler(svc RewardService) *RewardHandler {
	return &RewardHandler{
		svc: svc,
	}
}

// HandleListRewards godoc
// @Summary      List rewards for the console, one page at a time
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/rewards [get]
// @Security BearerAuth
func (h *RewardHandler) HandleListRewards(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	rewards, total, err := h.svc.ListPage(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderRewardErr(ctx, "v1.HandleListRewards", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(response.BuildRewards(rewards, h.svc.ImageURL), total, page, perPage))
}

// HandleGetReward godoc
// @Summary      Get one reward
// @Tags         admin
// @Produce      json
// @Param        rewardID  path  int true "reward id"
// @Success      200 {object} response.Reward
// @Failure      404 {object} response.Err
// @Router       /admin/rewards/{rewardID} [get]
// @Security BearerAuth
func (h *RewardHandler) HandleGetReward(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "rewardID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reward, err := h.svc.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderRewardErr(ctx, "v1.HandleGetReward", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildReward(reward, h.svc.ImageURL))
}

// HandleCreateReward godoc
// @Summary      Create a reward from the console's multipart form
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Success      201 {object} response.Reward
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Router       /admin/rewards [post]
// @Security BearerAuth
func (h *RewardHandler) HandleCreateReward(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reward, image, ok := h.bindRewardForm(ctx)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, reward, image)
	if err != nil {
		h.renderRewardErr(ctx, "v1.HandleCreateReward", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.BuildReward(created, h.svc.ImageURL))
}

// HandleUpdateReward godoc
// @Summary      Update a reward
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Param        rewardID  path  int true "reward id"
// @Success      200 {object} response.Reward
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/rewards/{rewardID} [put]
// @Security BearerAuth
func (h *RewardHandler) HandleUpdateReward(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "rewardID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	reward, image, ok := h.bindRewardForm(ctx)
	if !ok {
		return
	}
	reward.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), actor, reward, image)
	if err != nil {
		h.renderRewardErr(ctx, "v1.HandleUpdateReward", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildReward(updated, h.svc.ImageURL))
}

// HandleDeleteReward godoc
// @Summary      Delete a reward
// @Tags         admin
// @Produce      json
// @Param        rewardID  path  int true "reward id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/rewards/{rewardID} [delete]
// @Security BearerAuth
func (h *RewardHandler) HandleDeleteReward(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "rewardID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderRewardErr(ctx, "v1.HandleDeleteReward", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "reward deleted"})
}

// bindRewardForm reads the multipart reward form. The image part is
// optional.
func (h *RewardHandler) bindRewardForm(ctx *gin.Context) (domain.Reward, *multipart.FileHeader, bool) {
	name := ctx.PostForm("name")
	if name == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("name is required")))
		return domain.Reward{}, nil, false
	}

	reward := domain.Reward{
		Name:        name,
		Description: ctx.PostForm("description"),
	}

	if raw := ctx.PostForm("related_station_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return domain.Reward{}, nil, false
		}
		stationID := uint(id)
		reward.RelatedStationID = &stationID
	}

	image, err := ctx.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Reward{}, nil, false
	}

	return reward, image, true
}

func (h *RewardHandler) renderRewardErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrRewardNotFound):
		response.RenderErr(ctx, response.ErrNotFound("reward", "rewardID", ctx.Param("rewardID")))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
