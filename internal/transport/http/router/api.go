package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"signup-service/internal/core/server"
	"signup-service/internal/transport/http/handler"
	mdw "signup-service/internal/transport/http/middleware"
	resp "signup-service/internal/transport/http/response"
)

type Options struct {
	CORSOrigins    []string
	MaxConcurrent  int64
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 10 * time.Second
	}
	return o
}

// 公共中间件；排队等待并发名额也计入超时，Recovery 放在最内层
func use(r *gin.Engine, o Options, cl *resp.Classifier) {
	r.Use(
		mdw.RequestID(),
		mdw.Metrics(),
		mdw.Timeout(o.RequestTimeout, cl),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Recovery(cl),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func NewAPIEngine(l *zap.Logger, o Options, signup *handler.SignupHandler, cl *resp.Classifier) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(l, o.CORSOrigins)
	use(r, o, cl)

	r.GET("/health/db", signup.DB)
	r.POST("/api/register", signup.Register)
	return r
}
