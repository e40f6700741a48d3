package router

import (
	"context"
	"sync"

	"signup-service/internal/domain"
)

// memAccounts 内存仓储：email 唯一，账号与档案一起写入
type memAccounts struct {
	mu       sync.Mutex
	byEmail  map[string]domain.Account
	profiles map[string]domain.Profile

	err        error  // 所有操作返回该错误（模拟数据库不可用）
	afterCheck func() // ExistsByEmail 之后、写入之前
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byEmail: map[string]domain.Account{}, profiles: map[string]domain.Profile{}}
}

func (m *memAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	_, ok := m.byEmail[email]
	err := m.err
	m.mu.Unlock()
	if m.afterCheck != nil {
		m.afterCheck()
	}
	return ok, err
}

func (m *memAccounts) CreateWithProfile(ctx context.Context, acc domain.Account, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byEmail[acc.Email]; ok {
		return domain.ErrEmailTakenOnInsert(nil)
	}
	m.byEmail[acc.Email] = acc
	m.profiles[acc.ID] = p
	return nil
}

func (m *memAccounts) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	out := []domain.Account{}
	for _, a := range m.byEmail {
		if f.Role == "" || a.Role == f.Role {
			out = append(out, a.Public())
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAccounts) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := map[domain.Role]int64{}
	for _, a := range m.byEmail {
		out[a.Role]++
	}
	return out, nil
}

func (m *memAccounts) Ping(ctx context.Context) error { return m.err }

func (m *memAccounts) size() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byEmail), len(m.profiles)
}
