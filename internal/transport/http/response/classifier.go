package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"signup-service/internal/core/database"
	"signup-service/internal/domain"
)

// RequestIDKey gin 上下文与响应头中的请求 ID 键
const RequestIDKey = "X-Request-ID"

type Classified struct {
	Kind    domain.Kind
	Status  int
	Message string
}

// Classifier 是错误到 HTTP 响应的唯一出口
type Classifier struct {
	env domain.Environment
	log *zap.Logger
}

func NewClassifier(env domain.Environment, l *zap.Logger) *Classifier {
	if l == nil {
		l = zap.NewNop()
	}
	return &Classifier{env: env, log: l}
}

// Classify applies the rules in priority order:
// configuration, unreachable database, validation, conflict, everything else.
func (cl *Classifier) Classify(err error) Classified {
	kind := classifyKind(err)
	return Classified{Kind: kind, Status: KindStatus[kind], Message: kindMessage(kind, cl.env)}
}

// 显式标注的分类优先；只有未标注或标注为内部错误时才检查底层驱动错误
func classifyKind(err error) domain.Kind {
	if tagged, ok := domain.KindOf(err); ok && tagged != domain.KindInternal {
		return tagged
	}
	switch {
	case errors.Is(err, database.ErrNotConfigured):
		return domain.KindConfiguration
	case database.IsUnreachable(err):
		return domain.KindServiceUnavailable
	case database.IsUniqueViolation(err):
		return domain.KindConflict
	}
	return domain.KindInternal
}

// Respond 记录完整错误后返回脱敏响应
func (cl *Classifier) Respond(c *gin.Context, err error) Classified {
	res := cl.Classify(err)

	fields := []zap.Field{
		zap.String("error_kind", string(res.Kind)),
		zap.Int("status", res.Status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("env", string(cl.env)),
		zap.Error(err),
	}
	if rid := c.GetString(RequestIDKey); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	var de *domain.Error
	if errors.As(err, &de) {
		fields = append(fields, zap.String("code", de.Code))
		if len(de.Fields) > 0 {
			fields = append(fields, zap.Any("invalid_fields", de.Fields))
		}
	}
	lvl := zapcore.WarnLevel
	if res.Status >= 500 {
		lvl = zapcore.ErrorLevel
	}
	if ce := cl.log.Check(lvl, "request failed"); ce != nil {
		ce.Write(fields...)
	}

	_ = c.Error(err)
	Fail(c, res.Status, res.Kind, res.Message)
	return res
}
