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

type QuestionService interface {
	ListPage(ctx context.Context, actor domain.User, stationID *uint, offset, limit int) ([]domain.Question, int64, error)
	Get(ctx context.Context, actor domain.User, id uint) (domain.Question, error)
	Create(ctx context.Context, actor domain.User, question domain.Question, answerIndex int) (domain.Question, error)
	Update(ctx context.Context, actor domain.User, question domain.Question, answerIndex int) (domain.Question, error)
	Delete(ctx context.Context, actor domain.User, id uint) error
}

type QuestionHandler struct {
	svc QuestionService
}

func NewQuestionHandler(svc QuestionService) *QuestionHandler {
	return &QuestionHandler{
		svc: svc,
	}
}

// HandleListQuestions godoc
// @Summary      List quiz questions, optionally filtered by station
// @Tags         admin
// @Produce      json
// @Param        page        query int false "page number"
// @Param        station_id  query int false "filter by linked station"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/questions [get]
// @Security BearerAuth
func (h *QuestionHandler) HandleListQuestions(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var stationID *uint
	if raw := ctx.Query("station_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		parsed := uint(id)
		stationID = &parsed
	}

	page, perPage, offset := parsePagination(ctx)
	questions, total, err := h.svc.ListPage(ctx.Request.Context(), actor, stationID, offset, perPage)
	if err != nil {
		h.renderQuestionErr(ctx, "v1.HandleListQuestions", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(response.BuildAdminQuestions(questions), total, page, perPage))
}

// HandleGetQuestion godoc
// @Summary      Get one question with its choices and answer index
// @Tags         admin
// @Produce      json
// @Param        questionID  path  int true "question id"
// @Success      200 {object} response.AdminQuestion
// @Failure      404 {object} response.Err
// @Router       /admin/questions/{questionID} [get]
// @Security BearerAuth
func (h *QuestionHandler) HandleGetQuestion(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, err := h.svc.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderQuestionErr(ctx, "v1.HandleGetQuestion", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildAdminQuestion(question))
}

// HandleCreateQuestion godoc
// @Summary      Create a question with exactly one answer choice
// @Tags         admin
// @Produce      json
// @Param        request  body      request.SaveQuestionRequest true "request body"
// @Success      201 {object} response.AdminQuestion
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Router       /admin/questions [post]
// @Security BearerAuth
func (h *QuestionHandler) HandleCreateQuestion(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	question, answerIndex, ok := h.bindQuestion(ctx)
	if !ok {
		return
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, question, answerIndex)
	if err != nil {
		h.renderQuestionErr(ctx, "v1.HandleCreateQuestion", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.BuildAdminQuestion(created))
}

// HandleUpdateQuestion godoc
// @Summary      Update a question, replacing its choices
// @Tags         admin
// @Produce      json
// @Param        questionID  path  int true "question id"
// @Param        request     body  request.SaveQuestionRequest true "request body"
// @Success      200 {object} response.AdminQuestion
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/questions/{questionID} [put]
// @Security BearerAuth
func (h *QuestionHandler) HandleUpdateQuestion(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	question, answerIndex, ok := h.bindQuestion(ctx)
	if !ok {
		return
	}
	question.ID = id

	updated, err := h.svc.Update(ctx.Request.Context(), actor, question, answerIndex)
	if err != nil {
		h.renderQuestionErr(ctx, "v1.HandleUpdateQuestion", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildAdminQuestion(updated))
}

// HandleDeleteQuestion godoc
// @Summary      Delete a question
// @Tags         admin
// @Produce      json
// @Param        questionID  path  int true "question id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/questions/{questionID} [delete]
// @Security BearerAuth
func (h *QuestionHandler) HandleDeleteQuestion(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "questionID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, id); err != nil {
		h.renderQuestionErr(ctx, "v1.HandleDeleteQuestion", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "question deleted"})
}

func (h *QuestionHandler) bindQuestion(ctx *gin.Context) (domain.Question, int, bool) {
	var req request.SaveQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Question{}, 0, false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return domain.Question{}, 0, false
	}

	choices := make([]domain.Choice, len(req.Choices))
	for i, content := range req.Choices {
		choices[i] = domain.Choice{Content: content}
	}

	return domain.Question{
		Content:         req.Content,
		Type:            domain.QuestionType(req.Type),
		LinkedStationID: req.LinkedStationID,
		Choices:         choices,
	}, req.AnswerIndex, true
}

func (h *QuestionHandler) renderQuestionErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrQuestionNotFound):
		response.RenderErr(ctx, response.ErrNotFound("question", "questionID", ctx.Param("questionID")))
	case errors.Is(err, service.ErrAnswerOutOfRange):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrAnswerOutOfRange))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
