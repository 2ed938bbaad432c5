package v1

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/api/middleware"
	"github.com/rapirent/smart-campus/internal/domain"
)

// DefaultPerPage is the console's page size.
const DefaultPerPage = 10

var errNotAuthenticated = errors.New("request is not authenticated")

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// getUserFromContext resolves the authenticated user from the id the JWT
// middleware stored.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	id, ok := ctx.Get(middleware.ContextKeyUserID)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	userID, ok := id.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		return domain.User{}, response.ErrUnauthorized(err)
	}

	return user, nil
}

// consoleUser returns the user RequireConsoleAccess loaded for admin
// routes.
func consoleUser(ctx *gin.Context) (domain.User, *response.Err) {
	v, ok := ctx.Get(middleware.ContextKeyUser)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	user, ok := v.(domain.User)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errNotAuthenticated)
	}

	return user, nil
}

// parsePagination reads the page query param (1-based, default 1) and
// returns the page plus the matching offset.
func parsePagination(ctx *gin.Context) (page, perPage, offset int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	perPage = DefaultPerPage
	offset = (page - 1) * perPage

	return page, perPage, offset
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}

	return uint(value), nil
}
