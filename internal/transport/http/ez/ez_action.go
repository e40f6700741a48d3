package ez

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
	resp "signup-service/internal/transport/http/response"
)

// EZ 在分组上注册 Action；错误统一交给 Classifier
type EZ struct {
	g  *gin.RouterGroup
	cl *resp.Classifier
}

func New(g *gin.RouterGroup, cl *resp.Classifier) EZ { return EZ{g: g, cl: cl} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string
	Binder  Binder
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 绑定 → 执行 → 成功包 response.OK，失败走分类器
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		switch a.Binder {
		case BindJSON:
			if err := c.ShouldBindJSON(&in); err != nil {
				e.cl.Respond(c, domain.ErrInvalidJSON(err))
				return
			}
		case BindQuery:
			if err := c.ShouldBindQuery(&in); err != nil {
				e.cl.Respond(c, domain.Wrap(domain.KindValidation, "invalid_query", "invalid query parameters", err))
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.cl.Respond(c, err)
			return
		}
		resp.OK(c, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
