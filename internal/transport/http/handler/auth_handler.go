package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/service"
	"company-staff-api/internal/transport/http/ez"
	"company-staff-api/internal/validation"
)

type AuthHandler struct{ svc *service.AuthService }

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

type registerOut struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Priority 公开接口最先挂载
func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) Mount(public, _ ez.EZ) {
	ez.RegisterAction(public, ez.Action[validation.RegisterInput, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, _ *domain.Actor, in *validation.RegisterInput) (registerOut, error) {
			u, err := h.svc.Register(c.Request.Context(), in)
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{Message: "User created successfully", User: u}, nil
		},
	})

	ez.RegisterAction(public, ez.Action[validation.LoginInput, *service.Token]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, _ *domain.Actor, in *validation.LoginInput) (*service.Token, error) {
			return h.svc.Login(c.Request.Context(), in)
		},
	})
}
