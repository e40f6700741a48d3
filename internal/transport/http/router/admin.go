package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"signup-service/internal/core/auth"
	"signup-service/internal/core/server"
	"signup-service/internal/domain"
	"signup-service/internal/transport/http/ez"
	"signup-service/internal/transport/http/handler"
	mdw "signup-service/internal/transport/http/middleware"
	resp "signup-service/internal/transport/http/response"
)

const RoleOperator = "admin"

func NewAdminEngine(l *zap.Logger, o Options, adminH *handler.AdminHandler, jwter *auth.JWTer, cl *resp.Classifier) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(l, nil)
	use(r, o, cl)

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, RoleOperator))
	MountAdminActions(ez.New(admin, cl), adminH)
	return r
}

// MountAdminActions 后台接口集中在这里注册
func MountAdminActions(e ez.EZ, h *handler.AdminHandler) {
	ez.RegisterAction(e, ez.Action[handler.ListAccountsQuery, handler.AccountPage]{
		Method:  http.MethodGet,
		Path:    "/accounts",
		Binder:  ez.BindQuery,
		Handler: h.ListAccounts,
	})
	ez.RegisterAction(e, ez.Action[struct{}, domain.AccountStats]{
		Method:  http.MethodGet,
		Path:    "/accounts/stats",
		Binder:  ez.BindNone,
		Handler: h.Stats,
	})
}
