package domain

import (
	"context"
	"strings"
	"time"
)

type Role string

const (
	RoleAthlete Role = "ATHLETE"
	RoleCoach   Role = "COACH"
	RoleAcademy Role = "ACADEMY"
)

// Roles 全部可注册角色（顺序稳定）
func Roles() []Role { return []Role{RoleAthlete, RoleCoach, RoleAcademy} }

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAthlete, RoleCoach, RoleAcademy:
		return r, true
	}
	return "", false
}

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
)

// SignupRequest 已通过校验的注册请求（仅在请求内存活）
type SignupRequest struct {
	Name        string
	Email       string
	Phone       *string
	Password    string
	DateOfBirth time.Time
	Role        Role
}

type Account struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           *string    `json:"phone"`
	DateOfBirth     time.Time  `json:"dateOfBirth"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	Status          Status     `json:"status"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewAccount builds the account row for a validated request.
// Email is verified on creation: there is no confirmation step yet.
func NewAccount(id string, req SignupRequest, passwordHash string, now time.Time) Account {
	verified := now
	return Account{
		ID:              id,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		PasswordHash:    passwordHash,
		Role:            req.Role,
		Status:          StatusActive,
		EmailVerifiedAt: &verified,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Public 去掉密码摘要
func (a Account) Public() Account {
	a.PasswordHash = ""
	return a
}

type AccountFilter struct {
	Offset int
	Limit  int
	Query  string
	Role   Role
}

type AccountStats struct {
	Total  int64          `json:"total"`
	ByRole map[Role]int64 `json:"byRole"`
}

type AccountRepository interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// CreateWithProfile 在同一事务内写入账号与档案，失败时两者都不落库
	CreateWithProfile(ctx context.Context, acc Account, p Profile) error
	List(ctx context.Context, f AccountFilter) ([]Account, int64, error)
	CountByRole(ctx context.Context) (map[Role]int64, error)
	Ping(ctx context.Context) error
}
