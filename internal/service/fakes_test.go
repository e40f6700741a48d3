package service

import (
	"context"
	"sync"

	"signup-service/internal/domain"
)

// memRepo 内存版仓储：email 唯一、账号与档案同时写入
type memRepo struct {
	mu       sync.Mutex
	accounts map[string]domain.Account // by email
	profiles map[string]domain.Profile // by account id

	existsErr  error
	createErr  error
	profileErr error // 模拟第二步写入失败
	existsHook func()
	calls      int
}

func newMemRepo() *memRepo {
	return &memRepo{accounts: map[string]domain.Account{}, profiles: map[string]domain.Profile{}}
}

func (m *memRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.existsHook != nil {
		m.existsHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.accounts[email]
	return ok, nil
}

func (m *memRepo) CreateWithProfile(ctx context.Context, acc domain.Account, p domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.accounts[acc.Email]; ok {
		return domain.ErrEmailTakenOnInsert(nil)
	}
	if m.profileErr != nil {
		return m.profileErr
	}
	m.accounts[acc.Email] = acc
	m.profiles[acc.ID] = p
	return nil
}

func (m *memRepo) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Account
	for _, a := range m.accounts {
		if f.Role == "" || a.Role == f.Role {
			out = append(out, a.Public())
		}
	}
	return out, int64(len(out)), nil
}

func (m *memRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := map[domain.Role]int64{}
	for _, a := range m.accounts {
		out[a.Role]++
	}
	return out, nil
}

func (m *memRepo) Ping(ctx context.Context) error { return m.existsErr }

func (m *memRepo) count() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.accounts), len(m.profiles)
}

type spyHasher struct {
	mu    sync.Mutex
	calls int
	err   error
	inner Hasher
}

func (h *spyHasher) Hash(plain string) (string, error) {
	h.mu.Lock()
	h.calls++
	h.mu.Unlock()
	if h.err != nil {
		return "", h.err
	}
	return h.inner.Hash(plain)
}
