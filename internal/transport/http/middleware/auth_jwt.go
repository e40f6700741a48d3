package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signup-service/internal/core/auth"
	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

// 仅后台使用，不属于注册流程的错误分类
const (
	kindUnauthorized domain.Kind = "UnauthorizedError"
	kindForbidden    domain.Kind = "ForbiddenError"
)

func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.Fail(c, http.StatusUnauthorized, kindUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.Fail(c, http.StatusUnauthorized, kindUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Fail(c, http.StatusForbidden, kindForbidden, "forbidden")
			return
		}
		c.Set("claims", claims)
		c.Set("operatorId", claims.UID)
		c.Next()
	}
}
