package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes shared by the HTTP handlers.
const (
	CodeInvalidJSON       = 10001
	CodeEmptyMessage      = 10002
	CodeUnsupportedUpload = 10003
	CodeInvalidStrategy   = 10004
	CodeRouteNotFound     = 40400
	CodeSessionNotFound   = 40004
	CodeMethodNotAllowed  = 40500
	CodeSendInProgress    = 40901
	CodePanic             = 50000
	CodeInternal          = 50001
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code":    0,
		"message": "ok",
		"data":    data,
	})
}

func Fail(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
		"data":    nil,
	})
}
