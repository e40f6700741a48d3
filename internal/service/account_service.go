package service

import (
	"context"
	"time"

	"signup-service/internal/core/cache"
	"signup-service/internal/domain"
)

const statsCacheKey = "accounts:stats"

// AccountService 后台查询
type AccountService struct {
	accounts domain.AccountRepository
	cache    *cache.Cache
	statsTTL time.Duration
}

// NewAccountService c 可为 nil（未配置 Redis）
func NewAccountService(accounts domain.AccountRepository, c *cache.Cache, statsTTL time.Duration) *AccountService {
	if statsTTL <= 0 {
		statsTTL = 30 * time.Second
	}
	return &AccountService{accounts: accounts, cache: c, statsTTL: statsTTL}
}

func (s *AccountService) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	return s.accounts.List(ctx, f)
}

func (s *AccountService) Stats(ctx context.Context) (domain.AccountStats, error) {
	st, err := cache.GetOrLoadJSON(s.cache, ctx, statsCacheKey, s.statsTTL, s.loadStats)
	if err != nil {
		return domain.AccountStats{}, err
	}
	return *st, nil
}

func (s *AccountService) loadStats(ctx context.Context) (*domain.AccountStats, error) {
	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	st := &domain.AccountStats{ByRole: make(map[domain.Role]int64, len(domain.Roles()))}
	for _, r := range domain.Roles() {
		st.ByRole[r] = byRole[r]
		st.Total += byRole[r]
	}
	return st, nil
}
