package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
)

// AccountQueries 后台只读查询（service.AccountService 实现）
type AccountQueries interface {
	List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error)
	Stats(ctx context.Context) (domain.AccountStats, error)
}

type AdminHandler struct {
	svc AccountQueries
}

func NewAdminHandler(svc AccountQueries) *AdminHandler { return &AdminHandler{svc: svc} }

type ListAccountsQuery struct {
	Offset int    `form:"offset,default=0"`
	Limit  int    `form:"limit,default=20"`
	Q      string `form:"q"` // 按 email/name 模糊搜
	Role   string `form:"role"`
}

type AccountPage struct {
	Total int64            `json:"total"`
	Items []domain.Account `json:"items"`
}

// ListAccounts GET /admin/v1/accounts
func (h *AdminHandler) ListAccounts(c *gin.Context, in *ListAccountsQuery) (AccountPage, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	f := domain.AccountFilter{Offset: in.Offset, Limit: in.Limit, Query: strings.TrimSpace(in.Q)}
	if in.Role != "" {
		r, ok := domain.ParseRole(in.Role)
		if !ok {
			return AccountPage{}, domain.ErrValidation(map[string]string{"role": "must be one of ATHLETE, COACH, ACADEMY"})
		}
		f.Role = r
	}

	items, total, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		return AccountPage{}, err
	}
	if items == nil {
		items = []domain.Account{}
	}
	return AccountPage{Total: total, Items: items}, nil
}

// Stats GET /admin/v1/accounts/stats
func (h *AdminHandler) Stats(c *gin.Context, _ *struct{}) (domain.AccountStats, error) {
	return h.svc.Stats(c.Request.Context())
}
