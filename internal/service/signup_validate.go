package service

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"signup-service/internal/domain"
)

// SignupInput 未经信任的注册请求体
type SignupInput struct {
	Name        string  `json:"name"        validate:"required,max=100"`
	Email       string  `json:"email"       validate:"required,email,max=191"`
	Phone       *string `json:"phone"       validate:"omitempty,min=7,max=20,phone_chars"`
	Password    string  `json:"password"    validate:"required,min=8,password_strength"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required"`
	Role        string  `json:"role"        validate:"required,oneof=ATHLETE COACH ACADEMY"`
}

const (
	dateLayout        = "2006-01-02"
	maxPasswordBytes  = 72 // bcrypt 上限
	oldestBirthYear   = 1900
	reasonInvalidDate = "must be an ISO date (YYYY-MM-DD)"
)

type Validator struct {
	v   *validator.Validate
	now func() time.Time
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("password_strength", passwordStrength)
	_ = v.RegisterValidation("phone_chars", phoneChars)
	return &Validator{v: v, now: time.Now}
}

// Validate 规范化并校验；任一字段不合法则整体拒绝
func (val *Validator) Validate(in SignupInput) (domain.SignupRequest, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if p == "" {
			in.Phone = nil
		} else {
			in.Phone = &p
		}
	}

	fields := map[string]string{}
	if err := val.v.Struct(in); err != nil {
		ves, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.SignupRequest{}, domain.ErrInternal(err)
		}
		for _, fe := range ves {
			fields[fe.Field()] = reason(fe)
		}
	}

	var dob time.Time
	if _, bad := fields["dateOfBirth"]; !bad {
		d, why := val.parseBirthDate(in.DateOfBirth)
		if why != "" {
			fields["dateOfBirth"] = why
		}
		dob = d
	}
	if len(fields) > 0 {
		return domain.SignupRequest{}, domain.ErrValidation(fields)
	}

	role, _ := domain.ParseRole(in.Role)
	return domain.SignupRequest{
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Password:    in.Password,
		DateOfBirth: dob,
		Role:        role,
	}, nil
}

// 接受纯日期，也接受前端 Date.toISOString() 的时间戳（取日期部分）
func (val *Validator) parseBirthDate(s string) (time.Time, string) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		ts, err2 := time.Parse(time.RFC3339Nano, s)
		if err2 != nil {
			return time.Time{}, reasonInvalidDate
		}
		y, m, dd := ts.UTC().Date()
		d = time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
	}
	if !d.Before(val.now().UTC()) {
		return time.Time{}, "must be in the past"
	}
	if d.Year() < oldestBirthYear {
		return time.Time{}, "is out of range"
	}
	return d, ""
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of " + fe.Param()
	case "password_strength":
		return "must contain upper and lower case letters and a digit, at most 72 bytes"
	case "phone_chars":
		return "may contain only digits, spaces and + - ( )"
	}
	return "is invalid"
}

func passwordStrength(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func phoneChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if !unicode.IsDigit(r) && !strings.ContainsRune(" +-()", r) {
			return false
		}
	}
	return true
}
