package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

// Recovery panic 也返回标准 JSON 错误体
func Recovery(cl *resp.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err := domain.ErrInternal(fmt.Errorf("panic: %v\n%s", rec, debug.Stack()))
				if c.Writer.Written() {
					_ = c.Error(err)
					c.Abort()
					return
				}
				cl.Respond(c, err)
			}
		}()
		c.Next()
	}
}
