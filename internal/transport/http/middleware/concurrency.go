package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 连接池）
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Fail(c, http.StatusServiceUnavailable, domain.KindServiceUnavailable, resp.MsgUnavailable)
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
