package util

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 通用返回结构里的 data 使用 map
type Response map[string]interface{}

// 业务错误码
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeServerErr    = 50001
)

// Success 统一成功返回
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes a JSON error body with the given status and business code.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":  code,
		"error": msg,
	})
}

// Fail maps err onto the error taxonomy and writes the response.
// Unknown errors are logged and answered with a generic 500.
func Fail(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, CodeInvalidParam, ve.Msg)
	case errors.Is(err, ErrInvalidCredentials):
		Error(c, http.StatusUnauthorized, CodeAuth, "Invalid credentials")
	case errors.Is(err, ErrUnauthorized):
		Error(c, http.StatusUnauthorized, CodeAuth, "Authentication required")
	case errors.Is(err, ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, "Listing not found")
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		Error(c, http.StatusInternalServerError, CodeServerErr, "Internal server error")
	}
}
