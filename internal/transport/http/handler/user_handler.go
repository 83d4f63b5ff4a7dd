package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"company-staff-api/internal/domain"
	"company-staff-api/internal/service"
	"company-staff-api/internal/transport/http/ez"
	"company-staff-api/internal/validation"
)

// UserHandler 用户账号相关：fellow-employees / managers / users
type UserHandler struct{ svc *service.UserService }

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

func (h *UserHandler) Mount(_, authed ez.EZ) {
	h.mountFellows(authed)
	h.mountManagers(authed)
	h.mountUsers(authed)
}

func (h *UserHandler) mountFellows(authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[none, []domain.User]{
		Method: http.MethodGet,
		Path:   "/fellow-employees",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) ([]domain.User, error) {
			return h.svc.Fellows(c.Request.Context(), a)
		},
	})
	ez.RegisterAction(authed, ez.Action[none, *domain.User]{
		Method: http.MethodGet,
		Path:   "/fellow-employees/:id",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (*domain.User, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Fellow(c.Request.Context(), a, id)
		},
	})
}

func (h *UserHandler) mountManagers(authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[none, []domain.User]{
		Method: http.MethodGet,
		Path:   "/managers",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) ([]domain.User, error) {
			return h.svc.Managers(c.Request.Context(), a)
		},
	})
	ez.RegisterAction(authed, ez.Action[validation.UpdateOwnInfoInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/managers/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.UpdateOwnInfoInput) (*domain.User, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.UpdateOwnInfo(c.Request.Context(), a, id, in)
		},
	})
}

func (h *UserHandler) mountUsers(authed ez.EZ) {
	ez.RegisterAction(authed, ez.Action[listQuery, domain.Page[domain.User]]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, q *listQuery) (domain.Page[domain.User], error) {
			return h.svc.List(c.Request.Context(), a, q.toDomain())
		},
	})
	ez.RegisterAction(authed, ez.Action[none, *domain.User]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (*domain.User, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Show(c.Request.Context(), a, id)
		},
	})
	ez.RegisterAction(authed, ez.Action[validation.CreateUserInput, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.CreateUserInput) (*domain.User, error) {
			return h.svc.Create(c.Request.Context(), a, in)
		},
	})
	ez.RegisterAction(authed, ez.Action[validation.UpdateUserInput, *domain.User]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, a *domain.Actor, in *validation.UpdateUserInput) (*domain.User, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), a, id, in)
		},
	})
	ez.RegisterAction(authed, ez.Action[none, none]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Auth:   true,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, a *domain.Actor, _ *none) (none, error) {
			id, err := ez.ParamID(c)
			if err != nil {
				return none{}, err
			}
			return none{}, h.svc.Delete(c.Request.Context(), a, id)
		},
	})
}
