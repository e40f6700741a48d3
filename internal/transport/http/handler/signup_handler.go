package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"signup-service/internal/domain"
	"signup-service/internal/service"
	mdw "signup-service/internal/transport/http/middleware"
	resp "signup-service/internal/transport/http/response"
)

// Registrar 注册流水线（service.SignupService 实现）
type Registrar interface {
	Register(ctx context.Context, in service.SignupInput) (domain.Account, error)
	Ping(ctx context.Context) error
}

type SignupHandler struct {
	svc Registrar
	cl  *resp.Classifier
}

func NewSignupHandler(svc Registrar, cl *resp.Classifier) *SignupHandler {
	return &SignupHandler{svc: svc, cl: cl}
}

// Register POST /api/register
func (h *SignupHandler) Register(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, domain.ErrValidation(map[string]string{"body": "request body too large"}))
			return
		}
		h.fail(c, domain.ErrInvalidJSON(err))
		return
	}

	acc, err := h.svc.Register(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	mdw.ObserveSignup("created")
	resp.Created(c, resp.MsgAccountCreated, acc)
}

// DB GET /health/db
func (h *SignupHandler) DB(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		h.cl.Respond(c, err)
		return
	}
	resp.OK(c, gin.H{"db": "up"})
}

func (h *SignupHandler) fail(c *gin.Context, err error) {
	res := h.cl.Respond(c, err)
	mdw.ObserveSignup(string(res.Kind))
}
