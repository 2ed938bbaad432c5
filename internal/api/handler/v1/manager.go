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

type ManagerService interface {
	ListManagers(ctx context.Context, actor domain.User, offset, limit int) ([]domain.User, int64, error)
	GetManager(ctx context.Context, actor domain.User, id uint) (domain.User, error)
	CreateManager(ctx context.Context, actor domain.User, input service.CreateManagerInput) (domain.User, error)
	UpdateManager(ctx context.Context, actor domain.User, input service.UpdateManagerInput) (domain.User, error)
	DeleteManager(ctx context.Context, actor domain.User, id uint) error
	ListRoles(ctx context.Context, actor domain.User) ([]domain.Role, error)
	CreateGroup(ctx context.Context, actor domain.User, name string) (domain.UserGroup, error)
	ListGroups(ctx context.Context, actor domain.User, offset, limit int) ([]domain.UserGroup, int64, error)
	DeleteGroup(ctx context.Context, actor domain.User, id uint) error
}

// ManagerHandler serves the administrator-only account and group routes.
type ManagerHandler struct {
	svc ManagerService
}

func NewManagerHandler(svc ManagerService) *ManagerHandler {
	return &ManagerHandler{
		svc: svc,
	}
}

// HandleListManagers godoc
// @Summary      List console accounts, one page at a time
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/managers [get]
// @Security BearerAuth
func (h *ManagerHandler) HandleListManagers(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	users, total, err := h.svc.ListManagers(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleListManagers", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(response.BuildManagers(users), total, page, perPage))
}

// HandleGetManager godoc
// @Summary      Get one console account
// @Tags         admin
// @Produce      json
// @Param        managerID  path  int true "manager id"
// @Success      200 {object} response.Manager
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/managers/{managerID} [get]
// @Security BearerAuth
func (h *ManagerHandler) HandleGetManager(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "managerID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.GetManager(ctx.Request.Context(), actor, id)
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleGetManager", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildManager(user))
}

// HandleCreateManager godoc
// @Summary      Provision a console account with role and group
// @Tags         admin
// @Produce      json
// @Param        request  body      request.CreateManagerRequest true "request body"
// @Success      201 {object} response.Manager
// @Failure      400 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/managers [post]
// @Security BearerAuth
func (h *ManagerHandler) HandleCreateManager(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateManagerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.CreateManager(ctx.Request.Context(), actor, service.CreateManagerInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
		RoleID:   req.RoleID,
		GroupID:  req.GroupID,
	})
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleCreateManager", err)
		return
	}

	ctx.JSON(http.StatusCreated, response.BuildManager(user))
}

// HandleUpdateManager godoc
// @Summary      Update a console account's nickname, role and group
// @Tags         admin
// @Produce      json
// @Param        managerID  path  int true "manager id"
// @Param        request    body  request.UpdateManagerRequest true "request body"
// @Success      200 {object} response.Manager
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/managers/{managerID} [put]
// @Security BearerAuth
func (h *ManagerHandler) HandleUpdateManager(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "managerID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateManagerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.UpdateManager(ctx.Request.Context(), actor, service.UpdateManagerInput{
		ID:       id,
		Nickname: req.Nickname,
		RoleID:   req.RoleID,
		GroupID:  req.GroupID,
	})
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleUpdateManager", err)
		return
	}

	ctx.JSON(http.StatusOK, response.BuildManager(user))
}

// HandleDeleteManager godoc
// @Summary      Delete a console account
// @Tags         admin
// @Produce      json
// @Param        managerID  path  int true "manager id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/managers/{managerID} [delete]
// @Security BearerAuth
func (h *ManagerHandler) HandleDeleteManager(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "managerID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteManager(ctx.Request.Context(), actor, id); err != nil {
		h.renderManagerErr(ctx, "v1.HandleDeleteManager", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "manager deleted"})
}

// HandleListRoles godoc
// @Summary      List the assignable roles
// @Tags         admin
// @Produce      json
// @Success      200 {array} response.Role
// @Failure      403 {object} response.Err
// @Router       /admin/roles [get]
// @Security BearerAuth
func (h *ManagerHandler) HandleListRoles(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roles, err := h.svc.ListRoles(ctx.Request.Context(), actor)
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleListRoles", err)
		return
	}

	items := make([]response.Role, len(roles))
	for i, role := range roles {
		items[i] = response.BuildRole(role)
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleListGroups godoc
// @Summary      List user groups, one page at a time
// @Tags         admin
// @Produce      json
// @Param        page  query     int false "page number"
// @Success      200 {object} response.Page
// @Failure      403 {object} response.Err
// @Router       /admin/groups [get]
// @Security BearerAuth
func (h *ManagerHandler) HandleListGroups(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, perPage, offset := parsePagination(ctx)
	groups, total, err := h.svc.ListGroups(ctx.Request.Context(), actor, offset, perPage)
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleListGroups", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewPage(groups, total, page, perPage))
}

// HandleCreateGroup godoc
// @Summary      Create a user group
// @Tags         admin
// @Produce      json
// @Param        request  body      request.CreateGroupRequest true "request body"
// @Success      201 {object} domain.UserGroup
// @Failure      403 {object} response.Err
// @Failure      409 {object} response.Err
// @Router       /admin/groups [post]
// @Security BearerAuth
func (h *ManagerHandler) HandleCreateGroup(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	group, err := h.svc.CreateGroup(ctx.Request.Context(), actor, req.Name)
	if err != nil {
		h.renderManagerErr(ctx, "v1.HandleCreateGroup", err)
		return
	}

	ctx.JSON(http.StatusCreated, group)
}

// HandleDeleteGroup godoc
// @Summary      Delete a user group
// @Tags         admin
// @Produce      json
// @Param        groupID  path  int true "group id"
// @Success      200 {object} map[string]string
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Router       /admin/groups/{groupID} [delete]
// @Security BearerAuth
func (h *ManagerHandler) HandleDeleteGroup(ctx *gin.Context) {
	actor, respErr := consoleUser(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, err := parseUintParam(ctx, "groupID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteGroup(ctx.Request.Context(), actor, id); err != nil {
		h.renderManagerErr(ctx, "v1.HandleDeleteGroup", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "group deleted"})
}

func (h *ManagerHandler) renderManagerErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		response.RenderErr(ctx, response.ErrPermissionDenied(err))
	case errors.Is(err, service.ErrUserNotFound):
		response.RenderErr(ctx, response.ErrNotFound("manager", "managerID", ctx.Param("managerID")))
	case errors.Is(err, service.ErrRoleNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrRoleNotFound))
	case errors.Is(err, service.ErrGroupNotFound):
		if ctx.Param("groupID") == "" {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrGroupNotFound))
			return
		}
		response.RenderErr(ctx, response.ErrNotFound("group", "groupID", ctx.Param("groupID")))
	case errors.Is(err, service.ErrUserEmailExists),
		errors.Is(err, service.ErrGroupNameExists):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		err = fmt.Errorf("%v -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
