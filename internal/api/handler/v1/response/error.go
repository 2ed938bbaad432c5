package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"status_code"`
	ErrorMsg   string `json:"error"`

	internalErr error
}

func NewErr(statusCode int, message string, err error) *Err {
	return &Err{
		StatusCode:  statusCode,
		ErrorMsg:    message,
		internalErr: err,
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err.Error(), err)
}

func ErrUnauthorized(err error) *Err {
	return NewErr(http.StatusUnauthorized, "unauthorized", err)
}

func ErrWrongCredentials(err error) *Err {
	return NewErr(http.StatusUnauthorized, "wrong credentials", err)
}

func ErrPermissionDenied(err error) *Err {
	return NewErr(http.StatusForbidden, "permission denied", err)
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	msg := fmt.Sprintf("%v not found by %v (%v)", resource, key, value)

	return NewErr(http.StatusNotFound, msg, nil)
}

func ErrConflict(err error) *Err {
	return NewErr(http.StatusConflict, err.Error(), err)
}

func ErrInternalServerError(err error) *Err {
	return NewErr(http.StatusInternalServerError, "internal server error", err)
}

// RenderErr writes the error payload. The internal error never reaches
// the client on 5xx responses; it is logged with the request id instead.
func RenderErr(ctx *gin.Context, err *Err) {
	if err.StatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
			zap.Error(err.internalErr),
		)
	}

	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
