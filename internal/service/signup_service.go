package service

import (
	"context"
	"time"

	"signup-service/internal/domain"
	"signup-service/pkg/utils"
)

// SignupService 注册流水线：校验 → 查重 → 哈希 → 事务写入，首个失败即返回
type SignupService struct {
	accounts  domain.AccountRepository
	validator *Validator
	hasher    Hasher
	newID     func() string
	now       func() time.Time
}

func NewSignupService(accounts domain.AccountRepository, hasher Hasher) *SignupService {
	return &SignupService{
		accounts:  accounts,
		validator: NewValidator(),
		hasher:    hasher,
		newID:     utils.NewID,
		now:       time.Now,
	}
}

// Register returns the created account without its password digest.
// Errors are *domain.Error where the cause is known; anything else is left for the responder.
func (s *SignupService) Register(ctx context.Context, in SignupInput) (domain.Account, error) {
	req, err := s.validator.Validate(in)
	if err != nil {
		return domain.Account{}, err
	}

	taken, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return domain.Account{}, err
	}
	if taken {
		return domain.Account{}, domain.ErrEmailTaken()
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		return domain.Account{}, domain.ErrHashFailed(err)
	}

	acc := domain.NewAccount(s.newID(), req, digest, s.now().UTC())
	profile, err := domain.NewProfile(s.newID(), acc)
	if err != nil {
		return domain.Account{}, err
	}
	if err := s.accounts.CreateWithProfile(ctx, acc, profile); err != nil {
		return domain.Account{}, err
	}
	return acc.Public(), nil
}

// Ping 就绪检查
func (s *SignupService) Ping(ctx context.Context) error { return s.accounts.Ping(ctx) }
