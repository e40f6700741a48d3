package domain

import (
	"errors"
	"fmt"
)

// Kind 对外稳定的错误分类（前端按此匹配）
type Kind string

const (
	KindConfiguration      Kind = "ConfigurationError"      // 500
	KindServiceUnavailable Kind = "ServiceUnavailableError" // 503
	KindValidation         Kind = "ValidationError"         // 400
	KindConflict           Kind = "ConflictError"           // 409
	KindInternal           Kind = "InternalError"           // 500
)

// Error is a classified failure.
// Message is internal (logged); client text is chosen by the responder from Kind.
// Fields carries per-field validation detail, also log-only.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

func Wrap(kind Kind, code, msg string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: msg, Cause: cause}
}

// KindOf 返回链上第一个 *Error 的分类
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func Is(err error, code string) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ---------- 500 configuration ----------

func ErrMisconfigured(cause error) *Error {
	return Wrap(KindConfiguration, "db_not_configured", "database connection is not configured", cause)
}

// ---------- 503 ----------

func ErrUnavailable(cause error) *Error {
	return Wrap(KindServiceUnavailable, "db_unreachable", "database unreachable", cause)
}

// ---------- 400 ----------

func ErrValidation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "invalid_input", Message: "signup payload rejected", Fields: fields}
}

func ErrInvalidJSON(cause error) *Error {
	return Wrap(KindValidation, "invalid_json", "invalid JSON body", cause)
}

// ---------- 409 ----------

func ErrEmailTaken() *Error {
	return New(KindConflict, "email_taken", "account email already registered")
}

func ErrEmailTakenOnInsert(cause error) *Error {
	return Wrap(KindConflict, "email_unique_violation", "unique constraint on account email", cause)
}

// ---------- 500 ----------

func ErrHashFailed(cause error) *Error {
	return Wrap(KindInternal, "hash_failed", "password hashing failed", cause)
}

func ErrUnknownRole(r Role) *Error {
	return New(KindInternal, "unknown_role", "no profile for role "+string(r))
}

func ErrInternal(cause error) *Error {
	return Wrap(KindInternal, "internal_error", "internal error", cause)
}
