package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"signup-service/internal/core/database"
	"signup-service/internal/domain"
	"signup-service/internal/feature/account"
)

type AccountRepo struct{ db *gorm.DB }

// NewAccountRepo db 为 nil 表示未配置数据库，所有方法返回 ConfigurationError
func NewAccountRepo(db *gorm.DB) *AccountRepo { return &AccountRepo{db: db} }

func (r *AccountRepo) conn(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, domain.ErrMisconfigured(database.ErrNotConfigured)
	}
	return r.db.WithContext(ctx), nil
}

func (r *AccountRepo) Migrate(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	return translate(db.AutoMigrate(account.Models()...))
}

func (r *AccountRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return false, err
	}
	var n int64
	if err := db.Model(&account.AccountModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *AccountRepo) CreateWithProfile(ctx context.Context, acc domain.Account, p domain.Profile) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	pm, err := account.ProfileModel(p)
	if err != nil {
		return err
	}
	am := account.FromDomain(acc)

	// Transaction 在返回错误或 panic 时回滚并归还连接
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&am).Error; err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(pm).Error
	})
	return translate(err)
}

func (r *AccountRepo) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, 0, err
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	q := db.Model(&account.AccountModel{})
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("email LIKE ? OR LOWER(name) LIKE ?", like, like)
	}
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	// 之后 Count 与 Find 各自克隆语句
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var rows []account.AccountModel
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, 0, translate(err)
	}
	out := make([]domain.Account, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain().Public())
	}
	return out, total, nil
}

func (r *AccountRepo) CountByRole(ctx context.Context) (map[domain.Role]int64, error) {
	db, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		Role  string
		Total int64
	}
	err = db.Model(&account.AccountModel{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	out := make(map[domain.Role]int64, len(rows))
	for _, row := range rows {
		out[domain.Role(row.Role)] = row.Total
	}
	return out, nil
}

func (r *AccountRepo) Ping(ctx context.Context) error {
	db, err := r.conn(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return translate(err)
	}
	return translate(sqlDB.PingContext(ctx))
}

// translate 把驱动错误归类成领域错误
func translate(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case database.IsUniqueViolation(err):
		return domain.ErrEmailTakenOnInsert(err)
	case database.IsUnreachable(err):
		return domain.ErrUnavailable(err)
	}
	return domain.ErrInternal(err)
}
