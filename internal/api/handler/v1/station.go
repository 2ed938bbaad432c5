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

type StationService interface {
	ListPage(ctx context.Context, actor domain.User, offset, limit int) ([]domain.Station, int64, error)
	Get(ctx context.Context, actor domain.User, id uint) (domain.Station, error)
	Create(ctx context.Context, actor domain.User, input service.CreateStationInput) (domain.Station, error)
	Update(ctx context.Context, actor domain.User, id uint, input service.UpdateStationInput) (domain.Station, error)
	Delete(ctx context.Context, actor domain.User, id uint) error
	SetPrimaryImage(ctx context.Context, actor domain.User, imageID uint) error
	DeleteImage(ctx context.Context, actor domain.User, imageID uint) error
	CreateCategory(ctx context.Context, actor domain.User, category domain.StationCategory) (domain.StationCategory, error)
	ListCategories(ctx context.Context) ([]domain.StationCategory, error)
	ImageURL(path string) string
}

type StationHandler struct {
	svc StationService
}

func NewStationHandler(svc StationService) *StationHandler {
	return &StationHandler{
		svc: svc,
	}
}

// HandleListStations godoc
// @Summary      List stations for the console, one page at a time
// @Description  Editors see only their group's stations; administrators see all.
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/stations [get]
// @Security BearerAuth
func (h *StationHandler) HandleListStations(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	stations, total, err := h.svc.ListPage(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderStationErr(ctx, "v1.HandleListStations", err)
		return
	}

	items := make([]response.AdminStation, len(stations))
	for i, s := range stations {
		items[i] = response.BuildAdminStation(s, h.svc.ImageURL)
	}

	ctx.JSON(http.StatusOK, response.NewPage(items, total, page, perPage))
}

// HandleGetStation godoc
// @Summary      Get one station
// @Tags         admin
// @Produce      json
// @Param        stationID  path  int true "station id"
// @Success      200 {object} response.AdminStation
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/stations/{stationID} [get]
// @Security BearerAuth
func (h *StationHandler) HandleGetStation(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "stationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	station, err := h.svc.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderStationErr(ctx, "v1.HandleGetStation", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildAdminStation(station, h.svc.ImageURL))
}

// HandleCreateStation godoc
// @Summary      Create a station from the console's multipart form
// @Description  Accepts up to the configured number of image slots; main_image_index picks the primary.
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Success      201 {object} response.AdminStation
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/stations [post]
// @Security BearerAuth
func (h *StationHandler) HandleCreateStation(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateStationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	input := service.CreateStationInput{
		Name:           req.Name,
		Content:        req.Content,
		CategoryID:     req.CategoryID,
		Lat:            req.Lat,
		Lng:            req.Lng,
		OwnerGroupID:   req.OwnerGroupID,
		BeaconIDs:      req.BeaconIDs,
		Images:         form.File["images"],
		MainImageIndex: req.MainImageIndex,
	}

	station, err := h.svc.Create(ctx.Request.Context(), actor, input)
	if err != nil {
		h.renderStationErr(ctx, "v1.HandleCreateStation", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.BuildAdminStation(station, h.svc.ImageURL))
}

// HandleUpdateStation godoc
// @Summary      Update a station
// @Description  New images are appended non-primary; beacon links are replaced with the submitted set.
// @Tags         admin
// @Accept       mpfd
// @Produce      json
// @Param        stationID  path  int true "station id"
// @Success      200 {object} response.AdminStation
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/stations/{stationID} [put]
// @Security BearerAuth
func (h *StationHandler) HandleUpdateStation(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "stationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateStationRequest
	if err := ctx.ShouldBind(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	input := service.UpdateStationInput{
		Name:       req.Name,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Lat:        req.Lat,
		Lng:        req.Lng,
		BeaconIDs:  req.BeaconIDs,
		NewImages:  form.File["images"],
	}

	station, err := h.svc.Update(ctx.Request.Context(), actor, id, input)
	if err != nil {
		h.renderStationErr(ctx, "v1.HandleUpdateStation", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildAdminStation(station, h.svc.ImageURL))
}

// HandleDeleteStation godoc
// @Summary      Delete a station and its image files
// @Tags         admin
// @Produce      json
// @Param        stationID  path  int true "station id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/stations/{stationID} [delete]
// @Security BearerAuth
func (h *StationHandler) HandleDeleteStation(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "stationID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderStationErr(ctx, "v1.HandleDeleteStation", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "station deleted"})
}

// HandleSetPrimaryImage godoc
// @Summary      Designate a station image as the cover
// @Tags         admin
// @Produce      json
// @Param        imageID  path  int true "image id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/stations/images/{imageID}/primary [post]
// @Security BearerAuth
func (h *StationHandler) HandleSetPrimaryImage(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	imageID, err := parseUintParam(ctx, "imageID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.SetPrimaryImage(ctx.Request.Context(), actor, imageID); err != nil {
		h.renderStationErr(ctx, "v1.HandleSetPrimaryImage", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "primary image updated"})
}

// HandleDeleteImage godoc
// @Summary      Delete a non-primary station image
// @Tags         admin
// @Produce      json
// @Param        imageID  path  int true "image id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/stations/images/{imageID} [delete]
// @Security BearerAuth
func (h *StationHandler) HandleDeleteImage(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	imageID, err := parseUintParam(ctx, "imageID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteImage(ctx.Request.Context(), actor, imageID); err != nil {
		h.renderStationErr(ctx, "v1.HandleDeleteImage", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "image deleted"})
}

// HandleListCategories godoc
// @Summary      List station categories
// @Tags         admin
// @Produce      json
// @Success      200 {array} domain.StationCategory
// @Router       /admin/categories [get]
// @Security BearerAuth
func (h *StationHandler) HandleListCategories(ctx *gin.Context) {
	categories, err := h.svc.ListCategories(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListCategories -> h.svc.ListCategories -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// HandleCreateCategory godoc
// @Summary      Create a station category
// @Tags         admin
// @Produce      json
// @Param        request  body      request.CreateCategoryRequest true "request body"
// @Success      201 {object} domain.StationCategory
// @Failure      403 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/categories [post]
// @Security BearerAuth
func (h *StationHandler) HandleCreateCategory(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.CreateCategory(ctx.Request.Context(), actor, domain.StationCategory{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.renderStationErr(ctx, "v1.HandleCreateCategory", err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

func (h *StationHandler) renderStationErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrStationNotFound):
		response.RenderErr(ctx, response.ErrNotFound("station", "id", ctx.Param("stationID")))
	case errors.Is(err, service.ErrImageNotFound):
		response.RenderErr(ctx, response.ErrNotFound("image", "id", ctx.Param("imageID")))
	case errors.Is(err, service.ErrCategoryNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrCategoryNotFound))
	case errors.Is(err, service.ErrStationNameExists),
		errors.Is(err, service.ErrCategoryNameExists):
		response.RenderErr(ctx, response.ErrConflict(err))
	case errors.Is(err, service.ErrImageIsPrimary):
		response.RenderErr(ctx, response.ErrConflict(service.ErrImageIsPrimary))
	case errors.Is(err, service.ErrTooManyImages):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrTooManyImages))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
