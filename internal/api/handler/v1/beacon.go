package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/request"
	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/service"
)

type BeaconService interface {
	ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Beacon, int64, error)
	Get(ctx context.Context, actor domain.User, beaconID string) (domain.Beacon, error)
	Create(ctx context.Context, actor domain.User, beacon domain.Beacon) (domain.Beacon, error)
	Update(ctx context.Context, actor domain.User, beacon domain.Beacon) (domain.Beacon, error)
	Delete(ctx context.Context, actor domain.User, beaconID string) error
}

type BeaconHandler struct {
	svc BeaconService
}

func NewBeaconHandler(svc BeaconService) *BeaconHandler {
	return &BeaconHandler{
		svc: svc,
	}
}

// HandleListBeacons godoc
// @Summary      List beacons for the console, one page at a time
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/beacons [get]
// @Security BearerAuth
func (h *BeaconHandler) HandleListBeacons(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	beacons, total, err := h.svc.ListPage(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderBeaconErr(ctx, "v1.HandleListBeacons", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(beacons, total, page, perPage))
}

// HandleGetBeacon godoc
// @Summary      Get one beacon
// @Tags         admin
// @Produce      json
// @Param        beaconID  path  string true "beacon hardware id"
// @Success      200 {object} domain.Beacon
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/beacons/{beaconID} [get]
// @Security BearerAuth
func (h *BeaconHandler) HandleGetBeacon(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	beacon, err := h.svc.Get(ctx.Request.Context(), actor, ctx.Param("beaconID"))
	if err != nil {
		h.renderBeaconErr(ctx, "v1.HandleGetBeacon", err)
		return
	}

	ctx.JSON(http.StatusOK, beacon)
}

// HandleCreateBeacon godoc
// @Summary      Register a beacon
// @Tags         admin
// @Produce      json
// @Param        request  body      request.CreateBeaconRequest true "request body"
// @Success      201 {object} domain.Beacon
// @Failure      403 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/beacons [post]
// @Security BearerAuth
func (h *BeaconHandler) HandleCreateBeacon(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateBeaconRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	beacon, err := h.svc.Create(ctx.Request.Context(), actor, domain.Beacon{
		BeaconID:     req.BeaconID,
		Name:         req.Name,
		Description:  req.Description,
		Lat:          req.Lat,
		Lng:          req.Lng,
		OwnerGroupID: req.OwnerGroupID,
		StationIDs:   req.StationIDs,
	})
	if err != nil {
		h.renderBeaconErr(ctx, "v1.HandleCreateBeacon", err)
		return
	}

	ctx.JSON(http.StatusCreated, beacon)
}

// HandleUpdateBeacon godoc
// @Summary      Update a beacon
// @Tags         admin
// @Produce      json
// @Param        beaconID  path  string true "beacon hardware id"
// @Param        request   body  request.UpdateBeaconRequest true "request body"
// @Success      200 {object} domain.Beacon
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/beacons/{beaconID} [put]
// @Security BearerAuth
func (h *BeaconHandler) HandleUpdateBeacon(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateBeaconRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	beacon, err := h.svc.Update(ctx.Request.Context(), actor, domain.Beacon{
		BeaconID:    ctx.Param("beaconID"),
		Name:        req.Name,
		Description: req.Description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		StationIDs:  req.StationIDs,
	})
	if err != nil {
		h.renderBeaconErr(ctx, "v1.HandleUpdateBeacon", err)
		return
	}

	ctx.JSON(http.StatusOK, beacon)
}

// HandleDeleteBeacon godoc
// @Summary      Delete a beacon
// @Tags         admin
// @Produce      json
// @Param        beaconID  path  string true "beacon hardware id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/beacons/{beaconID} [delete]
// @Security BearerAuth
func (h *BeaconHandler) HandleDeleteBeacon(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("beaconID")); err != nil {
		h.renderBeaconErr(ctx, "v1.HandleDeleteBeacon", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "beacon deleted"})
}

func (h *BeaconHandler) renderBeaconErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrBeaconNotFound):
		response.RenderErr(ctx, response.ErrNotFound("beacon", "beaconID", ctx.Param("beaconID")))
	case errors.Is(err, service.ErrBeaconExists):
		response.RenderErr(ctx, response.ErrConflict(service.ErrBeaconExists))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
