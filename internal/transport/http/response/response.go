package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
)

// Body 统一响应体；前端依赖 success/errorKind/message，字段不可随意改名
type Body struct {
	Success   bool        `json:"success"`
	ErrorKind domain.Kind `json:"errorKind,omitempty"`
	Message   string      `json:"message"`
	User      any         `json:"user,omitempty"`
	Data      any         `json:"data,omitempty"`
}

func Created(c *gin.Context, msg string, user any) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: msg, User: user})
}

func OK(c *gin.Context, data any) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, Body{Success: true, Message: "OK", Data: data})
}

// Fail 中间件等非业务路径直接写错误体
func Fail(c *gin.Context, status int, kind domain.Kind, msg string) {
	c.AbortWithStatusJSON(status, Body{Success: false, ErrorKind: kind, Message: msg})
}
