package middleware

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

// Timeout 给请求（及其 DB 查询）设置截止时间；超时未写响应时按 503 返回
func Timeout(d time.Duration, cl *resp.Classifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			cl.Respond(c, domain.ErrUnavailable(ctx.Err()))
		}
	}
}
