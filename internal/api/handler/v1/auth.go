package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rapirent/smart-campus/internal/api/handler/v1/request"
	"github.com/rapirent/smart-campus/internal/api/handler/v1/response"
	"github.com/rapirent/smart-campus/internal/config"
	"github.com/rapirent/smart-campus/internal/domain"
	"github.com/rapirent/smart-campus/internal/pkg/jwthelper"
	"github.com/rapirent/smart-campus/internal/service"
)

type AuthService interface {
	Signup(ctx context.Context, email, password, nickname string) (domain.User, error)
	Activate(ctx context.Context, userID uint, token string) error
	ResendActivation(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, userID uint, token, newPassword string) error
}

type ProfileService interface {
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	GetProfile(ctx context.Context, user domain.User) (service.Profile, error)
}

type AuthHandler struct {
	conf *config.APIConfig
	svc  AuthService
	uSvc ProfileService
}

func NewAuthHandler(conf *config.APIConfig, svc AuthService, uSvc ProfileService) *AuthHandler {
	return &AuthHandler{
		conf: conf,
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleSignup godoc
// @Summary      Signup a new app user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.SignupRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /signup [post]
func (h *AuthHandler) HandleSignup(ctx *gin.Context) {
	var req request.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Signup(ctx.Request.Context(), req.Email, req.Password, req.Nickname)
	if err != nil {
		if errors.Is(err, service.ErrUserEmailExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrUserEmailExists))
			return
		}

		err = fmt.Errorf("v1.HandleSignup -> h.svc.Signup -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleActivate godoc
// @Summary      Activate an account from the mailed link
// @Tags         auth
// @Produce      json
// @Param        userID   path       int    true "user id"
// @Param        token    path       string true "activation token"
// @Success      200      {object}   map[string]string
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /activate/{userID}/{token} [get]
func (h *AuthHandler) HandleActivate(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err = h.svc.Activate(ctx.Request.Context(), userID, ctx.Param("token"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", userID))
		case errors.Is(err, service.ErrAlreadyActivated):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyActivated))
		case errors.Is(err, service.ErrActivationInvalid), errors.Is(err, service.ErrActivationExpired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleActivate -> h.svc.Activate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

// HandleResendActivation godoc
// @Summary      Resend the activation mail
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResendActivationRequest true "request body"
// @Success      200      {object}   map[string]string
// @Failure      404      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Router       /resend_activation [post]
func (h *AuthHandler) HandleResendActivation(ctx *gin.Context) {
	var req request.ResendActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ResendActivation(ctx.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
		case errors.Is(err, service.ErrAlreadyActivated):
			response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyActivated))
		default:
			err = fmt.Errorf("v1.HandleResendActivation -> h.svc.ResendActivation -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "activation mail sent"})
}

// HandleLogin godoc
// @Summary      Login and receive a token with the user's profile
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	req := request.LoginRequest{}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) ||
			errors.Is(err, service.ErrWrongPassword) ||
			errors.Is(err, service.ErrAccountNotActive) {
			response.RenderErr(ctx, response.ErrWrongCredentials(err))
			return
		}

		err = fmt.Errorf("v1.HandleLogin -> h.svc.Login -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	profile, err := h.uSvc.GetProfile(ctx.Request.Context(), user)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> h.uSvc.GetProfile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	token, err := jwthelper.GenerateToken([]byte(h.conf.JWTSigningKey), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleLogin -> jwthelper.GenerateToken -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:   token,
		Profile: profile,
	})
}

// HandleLogout godoc
// @Summary      Logout a user
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResendActivationRequest true "request body"
// @Success      200      {object}   map[string]string
// @Failure      404      {object}   response.Err
// @Router       /logout [post]
// @Security BearerAuth
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	var req request.ResendActivationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if _, err := h.uSvc.GetUserByEmail(ctx.Request.Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
			return
		}

		err = fmt.Errorf("v1.HandleLogout -> h.uSvc.GetUserByEmail -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	// Tokens are stateless; logout is an acknowledgment for the client.
	ctx.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// HandleResetPassword godoc
// @Summary      Request a password reset mail
// @Tags         auth
// @Produce      json
// @Param        request   body      request.ResetPasswordRequest true "request body"
// @Success      200      {object}   map[string]string
// @Failure      404      {object}   response.Err
// @Router       /reset_password [post]
func (h *AuthHandler) HandleResetPassword(ctx *gin.Context) {
	var req request.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.RequestPasswordReset(ctx.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "email", req.Email))
			return
		}

		err = fmt.Errorf("v1.HandleResetPassword -> h.svc.RequestPasswordReset -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "reset mail sent"})
}

// HandleConfirmResetPassword godoc
// @Summary      Set a new password using a reset token
// @Tags         auth
// @Produce      json
// @Param        request  body       request.ConfirmResetPasswordRequest true "request body"
// @Success      200      {object}   map[string]string
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /reset_password/confirm [post]
func (h *AuthHandler) HandleConfirmResetPassword(ctx *gin.Context) {
	var req request.ConfirmResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	err := h.svc.ConfirmPasswordReset(ctx.Request.Context(), req.UID, req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.RenderErr(ctx, response.ErrNotFound("user", "userID", req.UID))
		case errors.Is(err, service.ErrActivationInvalid), errors.Is(err, service.ErrActivationExpired):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("v1.HandleConfirmResetPassword -> h.svc.ConfirmPasswordReset -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
