package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/pkg/jwthelper"
)

const (
	// ContextKeyUserID holds the authenticated user's id, set by VerifyJWT.
	ContextKeyUserID = "userID"
	// ContextKeyUser holds the loaded domain.User, set by RequireConsoleAccess.
	ContextKeyUser = "currentUser"
)

var (
	errMissingAuthHeader = errors.New("missing or malformed Authorization header")
	errNoConsoleAccess   = errors.New("account has no console access")
)

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT authenticates the Bearer token and stores the user id in the
// request context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingAuthHeader))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}

type UserLoader interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
}

// RequireConsoleAccess loads the authenticated user and lets through
// only accounts whose role carries at least the view capability. The
// loaded user is stored for handlers.
func RequireConsoleAccess(loader UserLoader) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := ctx.Get(ContextKeyUserID)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthorized(errMissingAuthHeader))
			return
		}

		user, err := loader.GetUser(ctx.Request.Context(), id.(uint))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		if !user.HasCapability(domain.CapabilityView) {
			response.RenderErr(ctx, response.ErrPermissionDenied(errNoConsoleAccess))
			return
		}

		ctx.Set(ContextKeyUser, user)
		ctx.Next()
	}
}
