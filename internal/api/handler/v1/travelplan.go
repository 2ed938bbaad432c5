package v1

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/request"
	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/service"
)

type TravelPlanService interface {
	ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.TravelPlan, int64, error)
	Get(ctx context.Context, actor domain.User, id uint) (domain.TravelPlan, error)
	Create(ctx context.Context, actor domain.User, plan domain.TravelPlan, image *multipart.FileHeader) (domain.TravelPlan, error)
	Update(ctx context.Context, actor domain.User, plan domain.TravelPlan, image *multipart.FileHeader) (domain.TravelPlan, error)
	Delete(ctx context.Context, actor domain.User, id uint) error
	ImageURL(path string) string
}

type TravelPlanHandler struct {
	svc TravelPlanService
}

func NewTravelPlanHandler(svc TravelPlanService) *TravelPlanHandler {
	return &TravelPlanHandler{
		svc: svc,
	}
}

// HandleListTravelPlans godoc
// @Summary      List travel plans for the console, one page at a time
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/travel_plans [get]
// @Security BearerAuth
func (h *TravelPlanHandler) HandleListTravelPlans(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	plans, total, err := h.svc.ListPage(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderTravelPlanErr(ctx, "v1.HandleListTravelPlans", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(response.BuildTravelPlans(plans, h.svc.ImageURL), total, page, perPage))
}

// HandleGetTravelPlan godoc
// @Summary      Get one travel plan
// @Tags         admin
// @Produce      json
// @Param        planID  path  int true "travel plan id"
// @Success      200 {object} response.TravelPlan
// @Failure      404 {object} response.Err
// @Router       /admin/travel_plans/{planID} [get]
// @Security BearerAuth
func (h *TravelPlanHandler) HandleGetTravelPlan(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "planID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	plan, err := h.svc.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderTravelPlanErr(ctx, "v1.HandleGetTravelPlan", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildTravelPlan(plan, h.svc.ImageURL))
}

// HandleCreateTravelPlan godoc
// @Summary      Create a travel plan with its ordered station route
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Success      201 {object} response.TravelPlan
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Router       /admin/travel_plans [post]
// @Security BearerAuth
func (h *TravelPlanHandler) HandleCreateTravelPlan(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	plan, image, ok := h.bindTravelPlanForm(ctx)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, plan, image)
	if err != nil {
		h.renderTravelPlanErr(ctx, "v1.HandleCreateTravelPlan", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.BuildTravelPlan(created, h.svc.ImageURL))
}

// HandleUpdateTravelPlan godoc
// @Summary      Update a travel plan
// @Description  The submitted station list replaces the route; the repo reconciles order changes, insertions and removals in one transaction.
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Param        planID  path  int true "travel plan id"
// @Success      200 {object} response.TravelPlan
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/travel_plans/{planID} [put]
// @Security BearerAuth
func (h *TravelPlanHandler) HandleUpdateTravelPlan(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "planID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	plan, image, ok := h.bindTravelPlanForm(ctx)
	if !ok {
		return
	}
	plan.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), actor, plan, image)
	if err != nil {
		h.renderTravelPlanErr(ctx, "v1.HandleUpdateTravelPlan", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildTravelPlan(updated, h.svc.ImageURL))
}

// HandleDeleteTravelPlan godoc
// @Summary      Delete a travel plan
// @Tags         admin
// @Produce      json
// @Param        planID  path  int true "travel plan id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/travel_plans/{planID} [delete]
// @Security BearerAuth
func (h *TravelPlanHandler) HandleDeleteTravelPlan(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "planID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderTravelPlanErr(ctx, "v1.HandleDeleteTravelPlan", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "travel plan deleted"})
}

func (h *TravelPlanHandler) bindTravelPlanForm(ctx *gin.Context) (domain.TravelPlan, *multipart.FileHeader, bool) {
	var req request.SaveTravelPlanRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.TravelPlan{}, nil, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.TravelPlan{}, nil, false
	}

	image, err := ctx.FormFile("image")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.TravelPlan{}, nil, false
	}

	return domain.TravelPlan{
		Name:        req.Name,
		Description: req.Description,
		StationIDs:  req.StationIDs,
	}, image, true
}

func (h *TravelPlanHandler) renderTravelPlanErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrTravelPlanNotFound):
		response.RenderErr(ctx, response.ErrNotFound("travel plan", "planID", ctx.Param("planID")))
	case errors.Is(err, service.ErrStationNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrStationNotFound))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
