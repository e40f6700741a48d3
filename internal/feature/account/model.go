package account

import (
	"errors"
	"time"

	"signup-service/internal/domain"
)

type AccountModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)"`
	Name            string    `gorm:"size:100;not null"`
	Email           string    `gorm:"uniqueIndex:idx_accounts_email;size:191;not null"`
	Phone           *string   `gorm:"size:20"`
	DateOfBirth     time.Time `gorm:"type:date;not null"`
	PasswordHash    string    `gorm:"size:100;not null"`
	Role            string    `gorm:"size:16;not null;index"`
	Status          string    `gorm:"size:16;not null"`
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (AccountModel) TableName() string { return "accounts" }

// 三种档案各占一张表，account_id 唯一且级联删除
type AthleteProfileModel struct {
	ID              string       `gorm:"primaryKey;type:varchar(36)"`
	AccountID       string       `gorm:"type:varchar(36);uniqueIndex;not null"`
	Account         AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	PrimarySport    string       `gorm:"size:64;not null"`
	SecondarySports []string     `gorm:"type:text;serializer:json;not null"`
	Positions       []string     `gorm:"type:text;serializer:json;not null"`
	CreatedAt       time.Time    `gorm:"autoCreateTime"`
}

func (AthleteProfileModel) TableName() string { return "athlete_profiles" }

type CoachProfileModel struct {
	ID             string       `gorm:"primaryKey;type:varchar(36)"`
	AccountID      string       `gorm:"type:varchar(36);uniqueIndex;not null"`
	Account        AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Specialization []string     `gorm:"type:text;serializer:json;not null"`
	Qualifications []string     `gorm:"type:text;serializer:json;not null"`
	CreatedAt      time.Time    `gorm:"autoCreateTime"`
}

func (CoachProfileModel) TableName() string { return "coach_profiles" }

type AcademyProfileModel struct {
	ID         string       `gorm:"primaryKey;type:varchar(36)"`
	AccountID  string       `gorm:"type:varchar(36);uniqueIndex;not null"`
	Account    AccountModel `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`
	Name       string       `gorm:"size:100;not null"`
	Type       string       `gorm:"size:64;not null"`
	Sports     []string     `gorm:"type:text;serializer:json;not null"`
	AgeGroups  []string     `gorm:"type:text;serializer:json;not null"`
	Facilities []string     `gorm:"type:text;serializer:json;not null"`
	CreatedAt  time.Time    `gorm:"autoCreateTime"`
}

func (AcademyProfileModel) TableName() string { return "academy_profiles" }

// Models 迁移顺序：accounts 先建
func Models() []any {
	return []any{&AccountModel{}, &AthleteProfileModel{}, &CoachProfileModel{}, &AcademyProfileModel{}}
}

func FromDomain(a domain.Account) AccountModel {
	return AccountModel{
		ID:              a.ID,
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		DateOfBirth:     a.DateOfBirth,
		PasswordHash:    a.PasswordHash,
		Role:            string(a.Role),
		Status:          string(a.Status),
		EmailVerifiedAt: a.EmailVerifiedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func (m AccountModel) ToDomain() domain.Account {
	return domain.Account{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		DateOfBirth:     m.DateOfBirth,
		PasswordHash:    m.PasswordHash,
		Role:            domain.Role(m.Role),
		Status:          domain.Status(m.Status),
		EmailVerifiedAt: m.EmailVerifiedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProfileModel 把档案映射到对应表的行；变体集合在 domain 中封闭
func ProfileModel(p domain.Profile) (any, error) {
	if p == nil {
		return nil, domain.ErrInternal(errors.New("nil profile"))
	}
	switch v := p.(type) {
	case domain.AthleteProfile:
		return &AthleteProfileModel{
			ID:              v.ID,
			AccountID:       v.AccountID,
			PrimarySport:    v.PrimarySport,
			SecondarySports: nonNil(v.SecondarySports),
			Positions:       nonNil(v.Positions),
		}, nil
	case domain.CoachProfile:
		return &CoachProfileModel{
			ID:             v.ID,
			AccountID:      v.AccountID,
			Specialization: nonNil(v.Specialization),
			Qualifications: nonNil(v.Qualifications),
		}, nil
	case domain.AcademyProfile:
		return &AcademyProfileModel{
			ID:         v.ID,
			AccountID:  v.AccountID,
			Name:       v.Name,
			Type:       v.Type,
			Sports:     nonNil(v.Sports),
			AgeGroups:  nonNil(v.AgeGroups),
			Facilities: nonNil(v.Facilities),
		}, nil
	}
	return nil, domain.ErrUnknownRole(p.ProfileRole())
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
