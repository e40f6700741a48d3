package response

import (
	"net/http"

	"signup-service/internal/domain"
)

// KindStatus 错误分类 → HTTP 状态码
var KindStatus = map[domain.Kind]int{
	domain.KindConfiguration:      http.StatusInternalServerError,
	domain.KindServiceUnavailable: http.StatusServiceUnavailable,
	domain.KindValidation:         http.StatusBadRequest,
	domain.KindConflict:           http.StatusConflict,
	domain.KindInternal:           http.StatusInternalServerError,
}

const (
	MsgMisconfigured  = "The service is misconfigured. Please contact support."
	MsgDatabaseDown   = "Cannot connect to the database. Make sure the local database is running (e.g. `docker compose up -d db`) and try again."
	MsgUnavailable    = "The service is temporarily unavailable. Please try again shortly."
	MsgInvalidInput   = "Invalid input. Please check your input and try again."
	MsgEmailTaken     = "An account with this email already exists."
	MsgInternal       = "Something went wrong. Please try again later."
	MsgAccountCreated = "Account created successfully"
)

// kindMessage 对外文案；只有 503 随环境变化
func kindMessage(kind domain.Kind, env domain.Environment) string {
	switch kind {
	case domain.KindConfiguration:
		return MsgMisconfigured
	case domain.KindServiceUnavailable:
		if env == domain.EnvDevelopment {
			return MsgDatabaseDown
		}
		return MsgUnavailable
	case domain.KindValidation:
		return MsgInvalidInput
	case domain.KindConflict:
		return MsgEmailTaken
	}
	return MsgInternal
}
